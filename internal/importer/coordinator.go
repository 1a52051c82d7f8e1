package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cargodesk/internal/config"
	"cargodesk/internal/extract"
	"cargodesk/internal/model"
	"cargodesk/internal/schema"
	"cargodesk/internal/store"
)

// Coordinator 导入协调器
// 串起 提取 -> 记录转换 -> 入库 -> 导入日志，并向上游持续发进度事件
type Coordinator struct {
	store *store.Store
	cfg   *config.AppConfig
}

// NewCoordinator 创建导入协调器
func NewCoordinator(st *store.Store, cfg *config.AppConfig) *Coordinator {
	return &Coordinator{store: st, cfg: cfg}
}

// ImportOptions 导入选项
type ImportOptions struct {
	Kind            string // model.DocKindReceipt / model.DocKindCargo
	Filename        string
	Data            []byte
	ReplaceExisting bool // 导入前清空同类数据
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string    `json:"type"`    // start/info/warning/done/error
	Message   string    `json:"message"` // 事件消息
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ImportReport 一次导入的汇总，done 事件携带
type ImportReport struct {
	BatchID      string             `json:"batchId"`
	Kind         string             `json:"kind"`
	Filename     string             `json:"filename"`
	Status       string             `json:"status"`
	SheetName    string             `json:"sheetName"`
	HeaderRow    int                `json:"headerRow"`
	MatchRatio   float64            `json:"matchRatio"`
	BestRatio    float64            `json:"bestRatio"`
	ColumnsFound []string           `json:"columnsFound"`
	TotalRows    int                `json:"totalRows"`
	ImportedRows int                `json:"importedRows"`
	ErrorRows    int                `json:"errorRows"`
	RowErrors    []extract.RowError `json:"rowErrors"`
	Duration     time.Duration      `json:"duration"`
}

// Import 执行导入，返回进度通道
// 提取参数在启动 goroutine 前取快照，导入过程中的配置修改不影响本次导入
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)
	extractCfg := c.cfg.ExtractSnapshot()

	go func() {
		defer close(progressChan)
		c.doImport(opts, extractCfg, progressChan)
	}()

	return progressChan
}

// fieldsForKind 按单据类型取字段表和阈值，上限来自配置快照
func fieldsForKind(kind string, e config.ExtractConfig) ([]extract.TargetField, float64, error) {
	limits := schema.Limits{
		MaxVolume:   e.MaxVolume,
		MaxWeight:   e.MaxWeight,
		MaxQuantity: e.MaxQuantity,
		MaxValue:    e.MaxValue,
	}

	switch kind {
	case model.DocKindReceipt:
		return schema.GoodsReceivedFields(limits), e.ReceiptThreshold, nil
	case model.DocKindCargo:
		return schema.CargoItemFields(limits), e.CargoThreshold, nil
	default:
		return nil, 0, fmt.Errorf("unknown document kind %q", kind)
	}
}

func (c *Coordinator) doImport(opts ImportOptions, extractCfg config.ExtractConfig, progressChan chan ProgressEvent) {
	startTime := time.Now()
	batchID := uuid.NewString()

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "start",
		Message: fmt.Sprintf("开始导入文件: %s", opts.Filename),
		Data: map[string]string{
			"filename": opts.Filename,
			"kind":     opts.Kind,
			"batch_id": batchID,
		},
		Timestamp: time.Now(),
	})

	fields, threshold, err := fieldsForKind(opts.Kind, extractCfg)
	if err != nil {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "error",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	result, err := extract.Extract(opts.Data, opts.Filename, fields, extract.Options{
		MaxHeaderSearchRows:     extractCfg.MaxHeaderSearchRows,
		MinColumnMatchThreshold: threshold,
	})
	if err != nil {
		// 文件级错误：记日志后结束，不产生部分结果
		c.writeLog(progressChan, &model.ImportLog{
			ID:           batchID,
			Kind:         opts.Kind,
			Filename:     opts.Filename,
			Status:       model.ImportStatusError,
			ErrorMessage: err.Error(),
			ColumnsFound: []string{},
			RowErrors:    []extract.RowError{},
		})
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "error",
			Message:   fileErrorMessage(err),
			Timestamp: time.Now(),
		})
		return
	}

	if !result.Matched() {
		// 文件没问题但没有 sheet 达标，正常结束；提示带上最高匹配率
		// 和落选候选识别到的列，用户能据此判断是传错了文件还是列名没对上
		columnsFound := result.ColumnsFound
		if columnsFound == nil {
			columnsFound = []string{}
		}
		message := fmt.Sprintf("未找到可用数据：最高列匹配率 %.0f%%，低于要求的 %.0f%%", result.BestRatio*100, threshold*100)
		if len(columnsFound) > 0 {
			message += fmt.Sprintf("（识别到的列: %s）", strings.Join(columnsFound, ", "))
		}
		c.writeLog(progressChan, &model.ImportLog{
			ID:           batchID,
			Kind:         opts.Kind,
			Filename:     opts.Filename,
			BestRatio:    result.BestRatio,
			Status:       model.ImportStatusNoMatch,
			ColumnsFound: columnsFound,
			RowErrors:    []extract.RowError{},
		})
		c.sendProgress(progressChan, ProgressEvent{
			Type:    "done",
			Message: message,
			Data: ImportReport{
				BatchID:      batchID,
				Kind:         opts.Kind,
				Filename:     opts.Filename,
				Status:       model.ImportStatusNoMatch,
				BestRatio:    result.BestRatio,
				ColumnsFound: columnsFound,
				RowErrors:    []extract.RowError{},
				Duration:     time.Since(startTime),
			},
			Timestamp: time.Now(),
		})
		return
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type: "info",
		Message: fmt.Sprintf("选中 sheet %q，表头第 %d 行，匹配率 %.0f%%",
			result.SheetName, result.HeaderRow, result.MatchRatio*100),
		Data: map[string]any{
			"sheet_name":  result.SheetName,
			"header_row":  result.HeaderRow,
			"match_ratio": result.MatchRatio,
		},
		Timestamp: time.Now(),
	})

	if opts.ReplaceExisting {
		if err := c.clearExisting(opts.Kind); err != nil {
			c.sendProgress(progressChan, ProgressEvent{
				Type:      "warning",
				Message:   fmt.Sprintf("清空旧数据失败: %v", err),
				Timestamp: time.Now(),
			})
		}
	}

	imported, err := c.storeRecords(opts.Kind, batchID, result)
	if err != nil {
		c.writeLog(progressChan, &model.ImportLog{
			ID:           batchID,
			Kind:         opts.Kind,
			Filename:     opts.Filename,
			SheetName:    result.SheetName,
			HeaderRow:    result.HeaderRow,
			MatchRatio:   result.MatchRatio,
			BestRatio:    result.BestRatio,
			TotalRows:    result.TotalRowsScanned,
			ErrorRows:    countFatalErrors(result.RowErrors),
			Status:       model.ImportStatusError,
			ErrorMessage: err.Error(),
			ColumnsFound: result.ColumnsFound,
			RowErrors:    result.RowErrors,
		})
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("入库失败: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	errorRows := countFatalErrors(result.RowErrors)
	c.writeLog(progressChan, &model.ImportLog{
		ID:           batchID,
		Kind:         opts.Kind,
		Filename:     opts.Filename,
		SheetName:    result.SheetName,
		HeaderRow:    result.HeaderRow,
		MatchRatio:   result.MatchRatio,
		BestRatio:    result.BestRatio,
		TotalRows:    result.TotalRowsScanned,
		ImportedRows: imported,
		ErrorRows:    errorRows,
		Status:       model.ImportStatusImported,
		ColumnsFound: result.ColumnsFound,
		RowErrors:    result.RowErrors,
	})

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "done",
		Message: fmt.Sprintf("导入完成: %d 行入库, %d 行有问题", imported, len(result.RowErrors)),
		Data: ImportReport{
			BatchID:      batchID,
			Kind:         opts.Kind,
			Filename:     opts.Filename,
			Status:       model.ImportStatusImported,
			SheetName:    result.SheetName,
			HeaderRow:    result.HeaderRow,
			MatchRatio:   result.MatchRatio,
			BestRatio:    result.BestRatio,
			ColumnsFound: result.ColumnsFound,
			TotalRows:    result.TotalRowsScanned,
			ImportedRows: imported,
			ErrorRows:    errorRows,
			RowErrors:    result.RowErrors,
			Duration:     time.Since(startTime),
		},
		Timestamp: time.Now(),
	})
}

func (c *Coordinator) clearExisting(kind string) error {
	if kind == model.DocKindReceipt {
		return c.store.DeleteAllReceipts()
	}
	return c.store.DeleteAllCargo()
}

func (c *Coordinator) storeRecords(kind, batchID string, result *extract.Result) (int, error) {
	switch kind {
	case model.DocKindReceipt:
		records := make([]*model.GoodsReceipt, 0, len(result.Records))
		for i, rec := range result.Records {
			r := receiptFromRecord(rec, batchID, result.SheetName)
			r.RowNo = result.RowNumbers[i]
			records = append(records, r)
		}
		if err := c.store.BatchInsertReceipts(records); err != nil {
			return 0, err
		}
		return len(records), nil
	default:
		records := make([]*model.CargoItem, 0, len(result.Records))
		for i, rec := range result.Records {
			r := cargoFromRecord(rec, batchID, result.SheetName)
			r.RowNo = result.RowNumbers[i]
			records = append(records, r)
		}
		if err := c.store.BatchInsertCargo(records); err != nil {
			return 0, err
		}
		return len(records), nil
	}
}

// writeLog 落导入日志，失败只降级为 warning，不影响导入结果
func (c *Coordinator) writeLog(progressChan chan ProgressEvent, l *model.ImportLog) {
	if err := c.store.InsertImportLog(l); err != nil {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "warning",
			Message:   fmt.Sprintf("写入导入日志失败: %v", err),
			Timestamp: time.Now(),
		})
	}
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}

func countFatalErrors(errs []extract.RowError) int {
	n := 0
	for _, e := range errs {
		if e.Fatal {
			n++
		}
	}
	return n
}

// fileErrorMessage 把文件级错误翻译成用户能看懂的提示
func fileErrorMessage(err error) string {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return fmt.Sprintf("文件格式不支持: %v", err)
	case errors.Is(err, extract.ErrCorruptFile):
		return fmt.Sprintf("文件无法读取，可能已损坏: %v", err)
	case errors.Is(err, extract.ErrNoSheets):
		return "文件里没有任何工作表"
	default:
		return fmt.Sprintf("导入失败: %v", err)
	}
}
