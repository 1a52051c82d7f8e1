package api

import (
	"github.com/gin-gonic/gin"

	"cargodesk/internal/config"
	"cargodesk/internal/importer"
	"cargodesk/internal/store"
)

// Handler API 处理器
type Handler struct {
	store       *store.Store
	cfg         *config.AppConfig
	coordinator *importer.Coordinator
}

// NewHandler 创建 API 处理器
func NewHandler(st *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:       st,
		cfg:         cfg,
		coordinator: importer.NewCoordinator(st, cfg),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 文件导入（SSE 进度流）
	router.POST("/import/receipts", h.ImportReceipts)
	router.POST("/import/cargo", h.ImportCargo)

	// 数据查询
	router.GET("/receipts", h.ListReceipts)
	router.GET("/cargo", h.ListCargo)

	// 导入日志
	router.GET("/imports", h.ListImports)

	// 提取参数
	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)
}
