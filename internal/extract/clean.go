package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type fieldError struct {
	field   string
	message string
}

// CleanRow 按字段声明顺序清洗一行
// 必填字段清洗失败则整行丢弃，且只记第一个必填失败（dropped=true，errs 恰好一条）；
// 只有可选字段失败时行保留，问题字段置空，每个失败追加一条非致命提示。
// 失败的行绝不会带着默认值混进结果里
func CleanRow(raw RawRow, fields []TargetField) (rec Record, errs []RowError, dropped bool) {
	rec = make(Record, len(fields))

	for _, f := range fields {
		value, ferr := cleanField(raw.Cells[f.Key], f)
		if ferr == nil {
			rec[f.Key] = value
			continue
		}

		if f.Required {
			return nil, []RowError{{
				Row:     raw.RowNum,
				Field:   ferr.field,
				Message: ferr.message,
				Fatal:   true,
			}}, true
		}

		rec[f.Key] = nil
		errs = append(errs, RowError{
			Row:     raw.RowNum,
			Field:   ferr.field,
			Message: ferr.message,
		})
	}
	return rec, errs, false
}

// cleanField 按声明类型清洗单个值
func cleanField(cell Cell, f TargetField) (any, *fieldError) {
	switch f.Type {
	case FieldString:
		return cleanString(cell, f)
	case FieldInteger, FieldDecimal:
		return cleanNumber(cell, f)
	case FieldDate:
		return cleanDate(cell, f)
	default:
		return nil, &fieldError{field: f.Key, message: fmt.Sprintf("未知字段类型 %q", f.Type)}
	}
}

func cleanString(cell Cell, f TargetField) (any, *fieldError) {
	s := strings.TrimSpace(cell.Raw)
	if s == "" {
		if f.Required {
			return nil, &fieldError{field: f.Key, message: "缺少必填字段"}
		}
		return nil, nil
	}
	if f.MaxLength > 0 {
		if r := []rune(s); len(r) > f.MaxLength {
			s = string(r[:f.MaxLength])
		}
	}
	return s, nil
}

func cleanNumber(cell Cell, f TargetField) (any, *fieldError) {
	if cell.IsEmpty() {
		if f.Required {
			return nil, &fieldError{field: f.Key, message: "缺少必填字段"}
		}
		return nil, nil
	}

	var n float64
	if cell.Kind == CellNumber {
		n = cell.Number
	} else {
		parsed, err := strconv.ParseFloat(stripNumericNoise(cell.Raw), 64)
		if err != nil {
			return nil, &fieldError{field: f.Key, message: fmt.Sprintf("无效数字: %q", cell.Raw)}
		}
		n = parsed
	}

	if f.Positive && n <= 0 {
		return nil, &fieldError{field: f.Key, message: fmt.Sprintf("超出范围: %v", n)}
	}
	if f.Min != nil && n < *f.Min {
		return nil, &fieldError{field: f.Key, message: fmt.Sprintf("超出范围: %v", n)}
	}
	if f.Max != nil && n > *f.Max {
		return nil, &fieldError{field: f.Key, message: fmt.Sprintf("超出范围: %v", n)}
	}

	if f.Type == FieldInteger {
		i := int64(n)
		if float64(i) != n {
			return nil, &fieldError{field: f.Key, message: fmt.Sprintf("无效整数: %q", cell.Raw)}
		}
		return i, nil
	}
	return n, nil
}

// cleanDate 按既定格式列表依次尝试，第一个解析成功者生效
// 供应商文件的日期格式最不稳定，可选日期解析失败不算错误、直接置空
func cleanDate(cell Cell, f TargetField) (any, *fieldError) {
	if cell.Kind == CellDate {
		return cell.Date, nil
	}
	if cell.IsEmpty() {
		if f.Required {
			return nil, &fieldError{field: f.Key, message: "缺少必填字段"}
		}
		return nil, nil
	}

	s := strings.TrimSpace(cell.Raw)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}

	if f.Required {
		return nil, &fieldError{field: f.Key, message: fmt.Sprintf("无效日期: %q", cell.Raw)}
	}
	return nil, nil
}

// stripNumericNoise 数字解析前去掉货币符号和千分位等噪音
// "$1,250.50" / "￥ 880" / "1 000" 这类写法在供应商清单里很常见
func stripNumericNoise(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ',', ' ', '$', '€', '£', '¥', '￥', '＄':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
