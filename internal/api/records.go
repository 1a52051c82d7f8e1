package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cargodesk/internal/model"
	"cargodesk/internal/store"
)

const defaultPageSize = 100

func pageParams(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 1000 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// ListReceipts 查询收货记录
// GET /api/receipts?batchId=&trackingNo=&limit=&offset=
func (h *Handler) ListReceipts(c *gin.Context) {
	limit, offset := pageParams(c)

	records, err := h.store.ListReceipts(store.ReceiptQueryOptions{
		BatchID:    c.Query("batchId"),
		TrackingNo: c.Query("trackingNo"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询收货记录失败"})
		return
	}
	if records == nil {
		records = []*model.GoodsReceipt{}
	}

	total, err := h.store.CountReceipts()
	if err != nil {
		total = len(records)
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   total,
	})
}

// ListCargo 查询货物明细
// GET /api/cargo?batchId=&trackingNo=&limit=&offset=
func (h *Handler) ListCargo(c *gin.Context) {
	limit, offset := pageParams(c)

	records, err := h.store.ListCargo(store.CargoQueryOptions{
		BatchID:    c.Query("batchId"),
		TrackingNo: c.Query("trackingNo"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询货物明细失败"})
		return
	}
	if records == nil {
		records = []*model.CargoItem{}
	}

	total, err := h.store.CountCargo()
	if err != nil {
		total = len(records)
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   total,
	})
}

// ListImports 导入日志
// GET /api/imports?limit=
func (h *Handler) ListImports(c *gin.Context) {
	limit := 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}

	logs, err := h.store.ListImportLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询导入日志失败"})
		return
	}
	if logs == nil {
		logs = []*model.ImportLog{}
	}

	c.JSON(http.StatusOK, gin.H{"imports": logs})
}
