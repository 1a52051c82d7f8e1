// Package schema 按单据类型提供目标字段表
// 提取核心是 schema 无关的，这里集中维护两类单据的字段、
// 别名表和数值上限；别名覆盖常见外贸装箱单/快递面单的列名写法
package schema

import (
	"cargodesk/internal/extract"
)

// Limits 数值字段上限，来自配置而非进程级常量，便于按需调整和测试
type Limits struct {
	MaxVolume   float64 // 体积上限（立方米）
	MaxWeight   float64 // 重量上限（千克）
	MaxQuantity float64 // 件数上限
	MaxValue    float64 // 货值上限
}

// DefaultLimits 默认上限
func DefaultLimits() Limits {
	return Limits{
		MaxVolume:   1000,
		MaxWeight:   50000,
		MaxQuantity: 100000,
		MaxValue:    1000000,
	}
}

func ptr(v float64) *float64 { return &v }

// GoodsReceivedFields 仓库收货单字段表
// 必填：唛头、单号、件数；其余可选，阈值较宽（默认 0.4）——
// 收货环节的供应商清单最不规范，宁可多收再人工补
func GoodsReceivedFields(limits Limits) []extract.TargetField {
	return []extract.TargetField{
		{
			Key:       "shipping_mark",
			Aliases:   []string{"shipping mark", "shippingmark", "marks", "mark", "customer mark", "client mark"},
			Required:  true,
			Type:      extract.FieldString,
			MaxLength: 20,
		},
		{
			Key:       "tracking_no",
			Aliases:   []string{"tracking no", "tracking number", "tracking", "waybill no", "waybill number", "express no", "courier number"},
			Required:  true,
			Type:      extract.FieldString,
			MaxLength: 50,
		},
		{
			Key:       "description",
			Aliases:   []string{"description", "goods description", "item description", "product name", "item name", "commodity"},
			Type:      extract.FieldString,
			MaxLength: 50,
		},
		{
			Key:      "quantity",
			Aliases:  []string{"qty", "quantity", "ctns", "cartons", "carton qty", "pcs", "no of ctns"},
			Required: true,
			Type:     extract.FieldInteger,
			Positive: true,
			Max:      ptr(limits.MaxQuantity),
		},
		{
			Key:      "weight",
			Aliases:  []string{"weight", "gross weight", "gw", "g w", "weight kg", "gw kg", "kgs"},
			Type:     extract.FieldDecimal,
			Positive: true,
			Max:      ptr(limits.MaxWeight),
		},
		{
			Key:      "cbm",
			Aliases:  []string{"cbm", "volume", "cubic meters", "cubic meter", "measurement", "vol"},
			Type:     extract.FieldDecimal,
			Positive: true,
			Max:      ptr(limits.MaxVolume),
		},
		{
			Key:     "received_date",
			Aliases: []string{"date", "received date", "receipt date", "date received", "warehouse date"},
			Type:    extract.FieldDate,
		},
	}
}

// CargoItemFields 海运货物明细字段表
// 海运按方数计费，CBM 必填；阈值较严（默认 0.5）
func CargoItemFields(limits Limits) []extract.TargetField {
	return []extract.TargetField{
		{
			Key:       "tracking_no",
			Aliases:   []string{"tracking no", "tracking number", "tracking", "waybill no", "waybill number", "express no", "courier number"},
			Required:  true,
			Type:      extract.FieldString,
			MaxLength: 50,
		},
		{
			Key:       "shipping_mark",
			Aliases:   []string{"shipping mark", "shippingmark", "marks", "mark", "customer mark", "client mark"},
			Type:      extract.FieldString,
			MaxLength: 20,
		},
		{
			Key:       "description",
			Aliases:   []string{"description", "goods description", "item description", "product name", "item name", "commodity"},
			Type:      extract.FieldString,
			MaxLength: 50,
		},
		{
			Key:      "quantity",
			Aliases:  []string{"qty", "quantity", "ctns", "cartons", "carton qty", "pcs", "no of ctns"},
			Required: true,
			Type:     extract.FieldInteger,
			Positive: true,
			Max:      ptr(limits.MaxQuantity),
		},
		{
			Key:      "cbm",
			Aliases:  []string{"cbm", "volume", "cubic meters", "cubic meter", "measurement", "vol"},
			Required: true,
			Type:     extract.FieldDecimal,
			Positive: true,
			Max:      ptr(limits.MaxVolume),
		},
		{
			Key:      "weight",
			Aliases:  []string{"weight", "gross weight", "gw", "g w", "weight kg", "gw kg", "kgs"},
			Type:     extract.FieldDecimal,
			Positive: true,
			Max:      ptr(limits.MaxWeight),
		},
		{
			Key:      "unit_value",
			Aliases:  []string{"unit value", "unit price", "declared value", "value", "amount", "price"},
			Type:     extract.FieldDecimal,
			Positive: true,
			Max:      ptr(limits.MaxValue),
		},
	}
}
