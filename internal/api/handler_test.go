package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"cargodesk/internal/config"
	"cargodesk/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *config.AppConfig) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "cargodesk_test.db"))
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.DefaultConfig()
	router := gin.New()
	NewHandler(st, cfg).RegisterRoutes(router.Group("/api"))
	return router, cfg
}

func receiptXlsx(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	rows := map[int][]interface{}{
		1: {"Shipping Mark", "Tracking No", "QTY", "CBM"},
		2: {"PM-001", "SF123456789", 10, 2.5},
		3: {"PM-002", "SF987654321", 5, 0.75},
	}
	for rowNum, values := range rows {
		v := values
		if err := f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", rowNum), &v); err != nil {
			t.Fatalf("写入行失败: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("生成 xlsx 失败: %v", err)
	}
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("构造表单失败: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("写入表单失败: %v", err)
	}
	w.Close()
	return body, w.FormDataContentType()
}

func TestGetStatus_EmptyDatabase(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Initialized || resp.ReceiptCount != 0 || resp.CargoCount != 0 {
		t.Fatalf("resp=%+v, want empty state", resp)
	}
}

func TestImportReceipts_StreamsProgress(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "manifest.xlsx", receiptXlsx(t))
	req := httptest.NewRequest(http.MethodPost, "/api/import/receipts", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type=%q, want text/event-stream", ct)
	}
	out := w.Body.String()
	if !strings.Contains(out, `"type":"start"`) || !strings.Contains(out, `"type":"done"`) {
		t.Fatalf("事件流不完整:\n%s", out)
	}
	// SSE 帧格式
	if !strings.HasPrefix(out, "data: ") {
		t.Fatalf("事件流格式不对:\n%s", out)
	}

	// 导入结果能查回来
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/receipts", nil))
	var listResp struct {
		Records []json.RawMessage `json:"records"`
		Total   int               `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("解析响应失败: %v body=%s", err, w.Body.String())
	}
	if listResp.Total != 2 || len(listResp.Records) != 2 {
		t.Fatalf("total=%d records=%d, want 2/2", listResp.Total, len(listResp.Records))
	}

	// 导入日志同步产生
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/imports", nil))
	var importsResp struct {
		Imports []json.RawMessage `json:"imports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &importsResp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(importsResp.Imports) != 1 {
		t.Fatalf("imports=%d, want 1", len(importsResp.Imports))
	}
}

func TestImport_MissingFile(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/import/receipts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}

func TestImport_FileTooLarge(t *testing.T) {
	t.Parallel()
	router, cfg := newTestRouter(t)
	cfg.Mutate(func(c *config.AppConfig) { c.Data.MaxUploadMB = 1 })

	body, contentType := multipartUpload(t, "big.xlsx", bytes.Repeat([]byte("x"), 2*1024*1024))
	req := httptest.NewRequest(http.MethodPost, "/api/import/receipts", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d, want 413", w.Code)
	}
}

func TestGetConfig(t *testing.T) {
	t.Parallel()
	router, cfg := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	var resp ConfigResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	e := cfg.ExtractSnapshot()
	if resp.ReceiptThreshold != e.ReceiptThreshold || resp.MaxVolume != e.MaxVolume {
		t.Fatalf("resp=%+v, want %+v", resp, e)
	}
}

// 导入与配置修改会并发发生，两边都必须走配置的锁保护访问
func TestUpdateConfigDuringImport(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	fileData := receiptXlsx(t)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		body, contentType := multipartUpload(t, "manifest.xlsx", fileData)
		req := httptest.NewRequest(http.MethodPost, "/api/import/receipts", body)
		req.Header.Set("Content-Type", contentType)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Errorf("import status=%d", w.Code)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			payload := fmt.Sprintf(`{"maxVolume": %d}`, 800+n)
			req := httptest.NewRequest(http.MethodPatch, "/api/config", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Errorf("patch status=%d body=%s", w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()
}
