package model

// GoodsReceipt 仓库收货记录
// Weight/Cbm/ReceivedDate 为可选列，缺失时保持 NULL 不补默认值
type GoodsReceipt struct {
	ID           int64    `json:"id"`
	BatchID      string   `json:"batchId"` // 导入批次
	ShippingMark string   `json:"shippingMark"`
	TrackingNo   string   `json:"trackingNo"`
	Description  string   `json:"description"`
	Quantity     int64    `json:"quantity"`
	Weight       *float64 `json:"weight"`       // 千克
	Cbm          *float64 `json:"cbm"`          // 立方米
	ReceivedDate *string  `json:"receivedDate"` // YYYY-MM-DD
	SourceSheet  string   `json:"sourceSheet"`
	RowNo        int      `json:"rowNo"` // 源文件内 1-based 行号
	CreatedAt    string   `json:"createdAt"`
}
