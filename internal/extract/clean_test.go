package extract

import (
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }

func TestCleanNumber_Bounds(t *testing.T) {
	t.Parallel()

	cbm := TargetField{Key: "cbm", Type: FieldDecimal, Positive: true, Max: floatPtr(1000)}

	if _, ferr := cleanNumber(ClassifyCell("-5"), cbm); ferr == nil {
		t.Fatal("-5 passed positive check")
	}
	if _, ferr := cleanNumber(ClassifyCell("0"), cbm); ferr == nil {
		t.Fatal("0 passed positive check")
	}
	if _, ferr := cleanNumber(ClassifyCell("5000"), cbm); ferr == nil {
		t.Fatal("5000 passed max check 1000")
	}
	v, ferr := cleanNumber(ClassifyCell("250.75"), cbm)
	if ferr != nil {
		t.Fatalf("250.75 rejected: %v", ferr.message)
	}
	if v.(float64) != 250.75 {
		t.Fatalf("got %v, want 250.75", v)
	}
}

func TestCleanNumber_StripsCurrencyNoise(t *testing.T) {
	t.Parallel()

	value := TargetField{Key: "unit_value", Type: FieldDecimal, Positive: true, Max: floatPtr(1000000)}
	cases := map[string]float64{
		"$1,250.50": 1250.50,
		"￥ 880":     880,
		"1 000":     1000,
		"€99.90":    99.90,
	}
	for in, want := range cases {
		v, ferr := cleanNumber(ClassifyCell(in), value)
		if ferr != nil {
			t.Fatalf("%q rejected: %v", in, ferr.message)
		}
		if v.(float64) != want {
			t.Fatalf("%q -> %v, want %v", in, v, want)
		}
	}

	if _, ferr := cleanNumber(ClassifyCell("abc"), value); ferr == nil {
		t.Fatal("abc parsed as number")
	}
}

func TestCleanNumber_IntegerRejectsFraction(t *testing.T) {
	t.Parallel()

	qty := TargetField{Key: "quantity", Type: FieldInteger, Positive: true}
	v, ferr := cleanNumber(ClassifyCell("12"), qty)
	if ferr != nil {
		t.Fatalf("12 rejected: %v", ferr.message)
	}
	if v.(int64) != 12 {
		t.Fatalf("got %v, want int64(12)", v)
	}
	if _, ferr := cleanNumber(ClassifyCell("12.5"), qty); ferr == nil {
		t.Fatal("12.5 accepted as integer")
	}
}

func TestCleanString_Truncates(t *testing.T) {
	t.Parallel()

	mark := TargetField{Key: "shipping_mark", Type: FieldString, MaxLength: 5}
	v, ferr := cleanString(ClassifyCell("  PM-ACCRA-001  "), mark)
	if ferr != nil {
		t.Fatalf("rejected: %v", ferr.message)
	}
	if v.(string) != "PM-AC" {
		t.Fatalf("got %q, want %q", v, "PM-AC")
	}

	// 截断按字符数而非字节数
	v, _ = cleanString(ClassifyCell("深圳发往加纳特马港"), TargetField{Key: "description", Type: FieldString, MaxLength: 4})
	if v.(string) != "深圳发往" {
		t.Fatalf("got %q, want %q", v, "深圳发往")
	}
}

func TestCleanDate_Layouts(t *testing.T) {
	t.Parallel()

	d := TargetField{Key: "received_date", Type: FieldDate}
	cases := []string{"2025-03-01", "2025/03/01", "01/03/2025", "1 Mar 2025", "Mar 1, 2025"}
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range cases {
		v, ferr := cleanDate(ClassifyCell(in), d)
		if ferr != nil {
			t.Fatalf("%q rejected: %v", in, ferr.message)
		}
		if !v.(time.Time).Equal(want) {
			t.Fatalf("%q -> %v, want %v", in, v, want)
		}
	}

	// 可选日期解析失败：置空且不报错
	v, ferr := cleanDate(ClassifyCell("下周二"), d)
	if ferr != nil || v != nil {
		t.Fatalf("unparsable optional date: v=%v ferr=%v, want nil/nil", v, ferr)
	}
}

func TestCleanRow_RequiredFailureDropsRow(t *testing.T) {
	t.Parallel()

	fields := []TargetField{
		{Key: "quantity", Type: FieldInteger, Required: true, Positive: true},
		{Key: "weight", Type: FieldDecimal, Positive: true},
	}
	raw := RawRow{RowNum: 7, Cells: map[string]Cell{
		"quantity": ClassifyCell(""),
		"weight":   ClassifyCell("abc"),
	}}
	rec, errs, dropped := CleanRow(raw, fields)
	if !dropped {
		t.Fatal("row with missing required field not dropped")
	}
	if rec != nil {
		t.Fatalf("dropped row still produced record %v", rec)
	}
	// 只记第一个必填失败
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	e := errs[0]
	if e.Row != 7 || e.Field != "quantity" || !e.Fatal {
		t.Fatalf("error=%+v, want fatal quantity error on row 7", e)
	}
}

func TestCleanRow_OptionalFailureKeepsRow(t *testing.T) {
	t.Parallel()

	fields := []TargetField{
		{Key: "quantity", Type: FieldInteger, Required: true, Positive: true},
		{Key: "weight", Type: FieldDecimal, Positive: true},
	}
	raw := RawRow{RowNum: 3, Cells: map[string]Cell{
		"quantity": ClassifyCell("5"),
		"weight":   ClassifyCell("abc"),
	}}
	rec, errs, dropped := CleanRow(raw, fields)
	if dropped {
		t.Fatal("row dropped on optional failure")
	}
	if rec["quantity"].(int64) != 5 {
		t.Fatalf("quantity=%v, want 5", rec["quantity"])
	}
	if v, ok := rec["weight"]; !ok || v != nil {
		t.Fatalf("weight=%v present=%v, want nil placeholder", v, ok)
	}
	if len(errs) != 1 || errs[0].Fatal || errs[0].Field != "weight" {
		t.Fatalf("errs=%+v, want one non-fatal weight error", errs)
	}
}
