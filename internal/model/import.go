package model

import "cargodesk/internal/extract"

// 导入状态
const (
	ImportStatusImported = "imported" // 成功入库
	ImportStatusNoMatch  = "no_match" // 没有 sheet 达到匹配阈值
	ImportStatusError    = "error"    // 文件级错误
)

// 单据类型
const (
	DocKindReceipt = "receipt" // 仓库收货单
	DocKindCargo   = "cargo"   // 海运货物明细
)

// ImportLog 一次文件导入的记录
type ImportLog struct {
	ID           string             `json:"id"` // uuid，同时作为数据行的 batch_id
	Kind         string             `json:"kind"`
	Filename     string             `json:"filename"`
	SheetName    string             `json:"sheetName"`
	HeaderRow    int                `json:"headerRow"` // 1-based，no_match/error 时为 0
	MatchRatio   float64            `json:"matchRatio"`
	BestRatio    float64            `json:"bestRatio"`
	TotalRows    int                `json:"totalRows"`
	ImportedRows int                `json:"importedRows"`
	ErrorRows    int                `json:"errorRows"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"errorMessage,omitempty"`
	ColumnsFound []string           `json:"columnsFound"`
	RowErrors    []extract.RowError `json:"rowErrors"`
	CreatedAt    string             `json:"createdAt"`
}
