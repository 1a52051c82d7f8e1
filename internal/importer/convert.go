package importer

import (
	"time"

	"cargodesk/internal/extract"
	"cargodesk/internal/model"
)

// 提取结果里的值类型由字段声明决定（见 extract.Record），
// 这里只做形状转换，不再做校验

func recordString(rec extract.Record, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

func recordInt(rec extract.Record, key string) int64 {
	if v, ok := rec[key].(int64); ok {
		return v
	}
	return 0
}

func recordFloatPtr(rec extract.Record, key string) *float64 {
	if v, ok := rec[key].(float64); ok {
		return &v
	}
	return nil
}

func recordDatePtr(rec extract.Record, key string) *string {
	if v, ok := rec[key].(time.Time); ok {
		s := v.Format("2006-01-02")
		return &s
	}
	return nil
}

func receiptFromRecord(rec extract.Record, batchID, sheetName string) *model.GoodsReceipt {
	return &model.GoodsReceipt{
		BatchID:      batchID,
		ShippingMark: recordString(rec, "shipping_mark"),
		TrackingNo:   recordString(rec, "tracking_no"),
		Description:  recordString(rec, "description"),
		Quantity:     recordInt(rec, "quantity"),
		Weight:       recordFloatPtr(rec, "weight"),
		Cbm:          recordFloatPtr(rec, "cbm"),
		ReceivedDate: recordDatePtr(rec, "received_date"),
		SourceSheet:  sheetName,
	}
}

func cargoFromRecord(rec extract.Record, batchID, sheetName string) *model.CargoItem {
	var cbm float64
	if v, ok := rec["cbm"].(float64); ok {
		cbm = v
	}
	return &model.CargoItem{
		BatchID:      batchID,
		TrackingNo:   recordString(rec, "tracking_no"),
		ShippingMark: recordString(rec, "shipping_mark"),
		Description:  recordString(rec, "description"),
		Quantity:     recordInt(rec, "quantity"),
		Cbm:          cbm,
		Weight:       recordFloatPtr(rec, "weight"),
		UnitValue:    recordFloatPtr(rec, "unit_value"),
		SourceSheet:  sheetName,
	}
}
