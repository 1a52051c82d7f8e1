package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"cargodesk/internal/importer"
	"cargodesk/internal/model"
)

// ImportReceipts 导入收货单 (SSE 流式响应)
// POST /api/import/receipts
func (h *Handler) ImportReceipts(c *gin.Context) {
	h.runImport(c, model.DocKindReceipt)
}

// ImportCargo 导入货物明细 (SSE 流式响应)
// POST /api/import/cargo
func (h *Handler) ImportCargo(c *gin.Context) {
	h.runImport(c, model.DocKindCargo)
}

func (h *Handler) runImport(c *gin.Context, kind string) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	// 文件大小上限在入口强制，提取核心内部不做取消
	maxUploadMB := h.cfg.DataSnapshot().MaxUploadMB
	maxBytes := maxUploadMB * 1024 * 1024
	if maxBytes > 0 && fileHeader.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("文件超过 %dMB 上限", maxUploadMB),
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}

	replaceExisting := c.DefaultPostForm("replaceExisting", "false") == "true"

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	progressChan := h.coordinator.Import(importer.ImportOptions{
		Kind:            kind,
		Filename:        fileHeader.Filename,
		Data:            data,
		ReplaceExisting: replaceExisting,
	})

	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}
