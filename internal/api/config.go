package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cargodesk/internal/config"
)

// ConfigResponse 提取参数响应
type ConfigResponse struct {
	MaxHeaderSearchRows int     `json:"maxHeaderSearchRows"`
	ReceiptThreshold    float64 `json:"receiptThreshold"`
	CargoThreshold      float64 `json:"cargoThreshold"`
	MaxVolume           float64 `json:"maxVolume"`
	MaxWeight           float64 `json:"maxWeight"`
	MaxQuantity         float64 `json:"maxQuantity"`
	MaxValue            float64 `json:"maxValue"`
	MaxUploadMB         int64   `json:"maxUploadMb"`
}

// UpdateConfigRequest 更新提取参数请求，指针字段允许部分更新
type UpdateConfigRequest struct {
	MaxHeaderSearchRows *int     `json:"maxHeaderSearchRows"`
	ReceiptThreshold    *float64 `json:"receiptThreshold"`
	CargoThreshold      *float64 `json:"cargoThreshold"`
	MaxVolume           *float64 `json:"maxVolume"`
	MaxWeight           *float64 `json:"maxWeight"`
	MaxQuantity         *float64 `json:"maxQuantity"`
	MaxValue            *float64 `json:"maxValue"`
	MaxUploadMB         *int64   `json:"maxUploadMb"`
}

// GetConfig 获取提取参数
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	e := h.cfg.ExtractSnapshot()
	c.JSON(http.StatusOK, ConfigResponse{
		MaxHeaderSearchRows: e.MaxHeaderSearchRows,
		ReceiptThreshold:    e.ReceiptThreshold,
		CargoThreshold:      e.CargoThreshold,
		MaxVolume:           e.MaxVolume,
		MaxWeight:           e.MaxWeight,
		MaxQuantity:         e.MaxQuantity,
		MaxValue:            e.MaxValue,
		MaxUploadMB:         h.cfg.DataSnapshot().MaxUploadMB,
	})
}

// UpdateConfig 更新提取参数并写回 config.toml
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	// 导入 goroutine 并发读同一份配置，修改必须在写锁内完成
	h.cfg.Mutate(func(cfg *config.AppConfig) {
		e := &cfg.Extract
		if req.MaxHeaderSearchRows != nil && *req.MaxHeaderSearchRows > 0 {
			e.MaxHeaderSearchRows = *req.MaxHeaderSearchRows
		}
		if req.ReceiptThreshold != nil && *req.ReceiptThreshold > 0 && *req.ReceiptThreshold <= 1 {
			e.ReceiptThreshold = *req.ReceiptThreshold
		}
		if req.CargoThreshold != nil && *req.CargoThreshold > 0 && *req.CargoThreshold <= 1 {
			e.CargoThreshold = *req.CargoThreshold
		}
		if req.MaxVolume != nil && *req.MaxVolume > 0 {
			e.MaxVolume = *req.MaxVolume
		}
		if req.MaxWeight != nil && *req.MaxWeight > 0 {
			e.MaxWeight = *req.MaxWeight
		}
		if req.MaxQuantity != nil && *req.MaxQuantity > 0 {
			e.MaxQuantity = *req.MaxQuantity
		}
		if req.MaxValue != nil && *req.MaxValue > 0 {
			e.MaxValue = *req.MaxValue
		}
		if req.MaxUploadMB != nil && *req.MaxUploadMB > 0 {
			cfg.Data.MaxUploadMB = *req.MaxUploadMB
		}
	})

	if err := config.SaveConfig(h.cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存配置失败"})
		return
	}

	h.GetConfig(c)
}
