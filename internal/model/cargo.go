package model

// CargoItem 海运货物明细记录
type CargoItem struct {
	ID           int64    `json:"id"`
	BatchID      string   `json:"batchId"`
	TrackingNo   string   `json:"trackingNo"`
	ShippingMark string   `json:"shippingMark"`
	Description  string   `json:"description"`
	Quantity     int64    `json:"quantity"`
	Cbm          float64  `json:"cbm"` // 计费方数，必填
	Weight       *float64 `json:"weight"`
	UnitValue    *float64 `json:"unitValue"` // 申报单价
	SourceSheet  string   `json:"sourceSheet"`
	RowNo        int      `json:"rowNo"`
	CreatedAt    string   `json:"createdAt"`
}
