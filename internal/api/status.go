package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool   `json:"initialized"`    // 是否已有数据
	ReceiptCount   int    `json:"receiptCount"`   // 收货记录数
	CargoCount     int    `json:"cargoCount"`     // 货物明细数
	LastImportTime string `json:"lastImportTime"` // 最后导入时间
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	receiptCount, err := h.store.CountReceipts()
	if err != nil {
		receiptCount = 0
	}

	cargoCount, err := h.store.CountCargo()
	if err != nil {
		cargoCount = 0
	}

	lastImport, err := h.store.LastImportTime()
	if err != nil {
		lastImport = ""
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized:    receiptCount+cargoCount > 0,
		ReceiptCount:   receiptCount,
		CargoCount:     cargoCount,
		LastImportTime: lastImport,
	})
}
