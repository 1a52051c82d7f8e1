package extract

// FieldType 目标字段类型
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldInteger FieldType = "integer"
	FieldDecimal FieldType = "decimal"
	FieldDate    FieldType = "date"
)

// TargetField 调用方声明的目标字段
// Aliases 为可接受的列名拼写（规范化前），Required 字段缺失会使整行作废
type TargetField struct {
	Key       string    `json:"key"`
	Aliases   []string  `json:"aliases"`
	Required  bool      `json:"required"`
	Type      FieldType `json:"type"`
	Min       *float64  `json:"min,omitempty"`
	Max       *float64  `json:"max,omitempty"`
	Positive  bool      `json:"positive,omitempty"`  // 物理量（数量/重量/体积），<=0 视为非法
	MaxLength int       `json:"maxLength,omitempty"` // 字符串截断长度，0 表示不截断
}

// Options 提取参数
type Options struct {
	MaxHeaderSearchRows     int     // 每个 sheet 扫描表头的最大行数
	MinColumnMatchThreshold float64 // 接受 sheet 所需的最低匹配率
}

// DefaultOptions 默认提取参数
func DefaultOptions() Options {
	return Options{
		MaxHeaderSearchRows:     20,
		MinColumnMatchThreshold: 0.5,
	}
}

// HeaderCandidate 某一行作为表头的候选评分
type HeaderCandidate struct {
	RowIndex      int            `json:"rowIndex"`      // 0-based 行号
	ColumnMapping map[string]int `json:"columnMapping"` // field key -> 列索引，每列至多绑定一个字段
	MatchRatio    float64        `json:"matchRatio"`    // 必填字段匹配率（见 matchRatio）
	MatchedFields int            `json:"matchedFields"` // 匹配到的全部字段数（诊断用）
}

// Record 一条清洗后的数据行
// 值类型依字段类型而定：string / int64 / float64 / time.Time；可选字段缺失为 nil
type Record map[string]any

// RowError 行级错误
// Row 为 sheet 内 1-based 原始行号（面向用户提示，不是过滤后的序号）
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Fatal   bool   `json:"fatal"` // true=该行被丢弃；false=仅提示，行保留
}

// Result 提取结果，调用方唯一拿到的产物，不持有对工作簿的引用
type Result struct {
	Records          []Record   `json:"records"`
	RowNumbers       []int      `json:"rowNumbers"`   // 与 Records 对齐的 1-based 原始行号
	ColumnsFound     []string   `json:"columnsFound"` // 按字段声明顺序
	TotalRowsScanned int        `json:"totalRowsScanned"`
	RowErrors        []RowError `json:"rowErrors"`

	// 诊断信息
	SheetName  string  `json:"sheetName"`  // 选中的 sheet，未选中时为空
	HeaderRow  int     `json:"headerRow"`  // 选中表头的 1-based 行号，未选中时为 0
	MatchRatio float64 `json:"matchRatio"` // 选中候选的匹配率
	BestRatio  float64 `json:"bestRatio"`  // 全工作簿的最高匹配率（无 sheet 达标时供提示用）
}

// Matched 是否选中了可用的 sheet
func (r *Result) Matched() bool {
	return r.SheetName != ""
}
