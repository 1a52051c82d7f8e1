package importer

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"cargodesk/internal/config"
	"cargodesk/internal/model"
	"cargodesk/internal/store"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "cargodesk_test.db"))
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewCoordinator(st, config.DefaultConfig()), st
}

func buildManifestXlsx(t *testing.T, rows map[int][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
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

// drainEvents 读完进度通道并返回全部事件，带超时保护
func drainEvents(t *testing.T, ch <-chan ProgressEvent) []ProgressEvent {
	t.Helper()
	var events []ProgressEvent
	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("进度通道未关闭，已收到 %d 个事件", len(events))
		}
	}
}

func findEvent(events []ProgressEvent, typ string) *ProgressEvent {
	for i := range events {
		if events[i].Type == typ {
			return &events[i]
		}
	}
	return nil
}

func TestImportReceipts(t *testing.T) {
	t.Parallel()
	c, st := newTestCoordinator(t)

	data := buildManifestXlsx(t, map[int][]interface{}{
		1: {"ACME Trading Co. Packing List"},
		3: {"Shipping Mark", "Tracking No", "QTY", "G.W. (KG)", "CBM"},
		4: {"PM-001", "SF123456789", 10, 120.5, 2.5},
		5: {"PM-002", "SF987654321", 5, "", 0.75},
		6: {"PM-003", "SF555000111", "", 30, 1.2}, // 缺必填数量
	})

	events := drainEvents(t, c.Import(ImportOptions{
		Kind:     model.DocKindReceipt,
		Filename: "manifest.xlsx",
		Data:     data,
	}))

	if findEvent(events, "start") == nil {
		t.Fatalf("缺少 start 事件: %+v", events)
	}
	done := findEvent(events, "done")
	if done == nil {
		t.Fatalf("缺少 done 事件: %+v", events)
	}
	report, ok := done.Data.(ImportReport)
	if !ok {
		t.Fatalf("done 事件负载类型 %T", done.Data)
	}
	if report.Status != model.ImportStatusImported {
		t.Fatalf("status=%q, want imported", report.Status)
	}
	if report.ImportedRows != 2 || report.ErrorRows != 1 {
		t.Fatalf("imported=%d errorRows=%d, want 2/1", report.ImportedRows, report.ErrorRows)
	}

	n, err := st.CountReceipts()
	if err != nil || n != 2 {
		t.Fatalf("count=%d err=%v, want 2", n, err)
	}

	receipts, err := st.ListReceipts(store.ReceiptQueryOptions{BatchID: report.BatchID})
	if err != nil || len(receipts) != 2 {
		t.Fatalf("receipts=%v err=%v", receipts, err)
	}
	first := receipts[0]
	if first.ShippingMark != "PM-001" || first.Quantity != 10 || first.RowNo != 4 {
		t.Fatalf("first=%+v", first)
	}
	if first.Weight == nil || *first.Weight != 120.5 {
		t.Fatalf("weight=%v, want 120.5", first.Weight)
	}
	if receipts[1].Weight != nil {
		t.Fatalf("第二行 weight=%v, want NULL", receipts[1].Weight)
	}

	logs, err := st.ListImportLogs(10)
	if err != nil || len(logs) != 1 {
		t.Fatalf("logs=%v err=%v", logs, err)
	}
	l := logs[0]
	if l.ID != report.BatchID || l.Status != model.ImportStatusImported {
		t.Fatalf("log=%+v", l)
	}
	if l.HeaderRow != 3 || l.TotalRows != 3 || l.ImportedRows != 2 || l.ErrorRows != 1 {
		t.Fatalf("log=%+v, want headerRow 3, total 3, imported 2, errors 1", l)
	}
}

func TestImportCargo(t *testing.T) {
	t.Parallel()
	c, st := newTestCoordinator(t)

	data := buildManifestXlsx(t, map[int][]interface{}{
		1: {"Tracking No", "QTY", "CBM", "Unit Price"},
		2: {"YT555000111", 3, 1.25, "$99.90"},
	})

	events := drainEvents(t, c.Import(ImportOptions{
		Kind:     model.DocKindCargo,
		Filename: "cargo.xlsx",
		Data:     data,
	}))

	done := findEvent(events, "done")
	if done == nil {
		t.Fatalf("缺少 done 事件: %+v", events)
	}

	items, err := st.ListCargo(store.CargoQueryOptions{})
	if err != nil || len(items) != 1 {
		t.Fatalf("items=%v err=%v", items, err)
	}
	if items[0].Cbm != 1.25 {
		t.Fatalf("cbm=%v, want 1.25", items[0].Cbm)
	}
	if items[0].UnitValue == nil || *items[0].UnitValue != 99.9 {
		t.Fatalf("unitValue=%v, want 99.9 (货币符号应被剥掉)", items[0].UnitValue)
	}
}

func TestImportNoMatch(t *testing.T) {
	t.Parallel()
	c, st := newTestCoordinator(t)

	data := buildManifestXlsx(t, map[int][]interface{}{
		1: {"Region", "Revenue", "Margin"},
		2: {"West Africa", 120000, 0.18},
	})

	events := drainEvents(t, c.Import(ImportOptions{
		Kind:     model.DocKindReceipt,
		Filename: "summary.xlsx",
		Data:     data,
	}))

	done := findEvent(events, "done")
	if done == nil {
		t.Fatalf("缺少 done 事件: %+v", events)
	}
	report := done.Data.(ImportReport)
	if report.Status != model.ImportStatusNoMatch {
		t.Fatalf("status=%q, want no_match", report.Status)
	}

	if n, _ := st.CountReceipts(); n != 0 {
		t.Fatalf("no_match 仍然入库了 %d 行", n)
	}
	logs, _ := st.ListImportLogs(10)
	if len(logs) != 1 || logs[0].Status != model.ImportStatusNoMatch {
		t.Fatalf("logs=%+v", logs)
	}
}

func TestImportNoMatchReportsFoundColumns(t *testing.T) {
	t.Parallel()
	c, st := newTestCoordinator(t)

	// 只有快递单号一列对上，低于收货单阈值：
	// 提示和日志都要点名识别到的列
	data := buildManifestXlsx(t, map[int][]interface{}{
		1: {"Tracking No", "Revenue", "Margin"},
		2: {"SF123456789", 120000, 0.18},
	})

	events := drainEvents(t, c.Import(ImportOptions{
		Kind:     model.DocKindReceipt,
		Filename: "report.xlsx",
		Data:     data,
	}))

	done := findEvent(events, "done")
	if done == nil {
		t.Fatalf("缺少 done 事件: %+v", events)
	}
	report := done.Data.(ImportReport)
	if report.Status != model.ImportStatusNoMatch {
		t.Fatalf("status=%q, want no_match", report.Status)
	}
	if len(report.ColumnsFound) != 1 || report.ColumnsFound[0] != "tracking_no" {
		t.Fatalf("columnsFound=%v, want [tracking_no]", report.ColumnsFound)
	}
	if !strings.Contains(done.Message, "tracking_no") {
		t.Fatalf("提示没有点名识别到的列: %q", done.Message)
	}

	logs, err := st.ListImportLogs(10)
	if err != nil || len(logs) != 1 {
		t.Fatalf("logs=%v err=%v", logs, err)
	}
	if len(logs[0].ColumnsFound) != 1 || logs[0].ColumnsFound[0] != "tracking_no" {
		t.Fatalf("log columnsFound=%v, want [tracking_no]", logs[0].ColumnsFound)
	}
}

func TestImportCorruptFile(t *testing.T) {
	t.Parallel()
	c, st := newTestCoordinator(t)

	events := drainEvents(t, c.Import(ImportOptions{
		Kind:     model.DocKindReceipt,
		Filename: "broken.xlsx",
		Data:     []byte("not a zip archive"),
	}))

	if findEvent(events, "error") == nil {
		t.Fatalf("缺少 error 事件: %+v", events)
	}
	if findEvent(events, "done") != nil {
		t.Fatal("文件损坏不应产生 done 事件")
	}
	logs, _ := st.ListImportLogs(10)
	if len(logs) != 1 || logs[0].Status != model.ImportStatusError {
		t.Fatalf("logs=%+v", logs)
	}
}

func TestImportReplaceExisting(t *testing.T) {
	t.Parallel()
	c, st := newTestCoordinator(t)

	build := func(mark string) []byte {
		return buildManifestXlsx(t, map[int][]interface{}{
			1: {"Shipping Mark", "Tracking No", "QTY"},
			2: {mark, "SF123", 1},
		})
	}

	drainEvents(t, c.Import(ImportOptions{Kind: model.DocKindReceipt, Filename: "a.xlsx", Data: build("PM-A")}))
	drainEvents(t, c.Import(ImportOptions{Kind: model.DocKindReceipt, Filename: "b.xlsx", Data: build("PM-B"), ReplaceExisting: true}))

	receipts, err := st.ListReceipts(store.ReceiptQueryOptions{})
	if err != nil || len(receipts) != 1 {
		t.Fatalf("receipts=%v err=%v", receipts, err)
	}
	if receipts[0].ShippingMark != "PM-B" {
		t.Fatalf("mark=%q, want PM-B (替换式导入)", receipts[0].ShippingMark)
	}
}

func TestImportUnknownKind(t *testing.T) {
	t.Parallel()
	c, _ := newTestCoordinator(t)

	events := drainEvents(t, c.Import(ImportOptions{Kind: "invoice", Filename: "x.xlsx"}))
	if findEvent(events, "error") == nil {
		t.Fatalf("缺少 error 事件: %+v", events)
	}
}
