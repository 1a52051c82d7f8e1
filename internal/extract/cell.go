package extract

import (
	"strconv"
	"strings"
	"time"
)

// CellKind 单元格值类型
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell 单元格值的带标签变体
// 供应商表格中的单元格可能是文本、数字或日期，解码时显式分类，
// 后续的规范化/匹配/清洗都基于 Kind 判断，不做隐式转换
type Cell struct {
	Kind   CellKind
	Raw    string    // 原始字符串（所有类型都保留）
	Number float64   // Kind == CellNumber 时有效
	Date   time.Time // Kind == CellDate 时有效
}

// dateLayouts 清洗日期字段时依次尝试的格式，第一个解析成功者生效
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ClassifyCell 将解码器读到的原始字符串分类为 Cell
func ClassifyCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cell{Kind: CellEmpty}
	}

	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Cell{Kind: CellNumber, Raw: trimmed, Number: n}
	}

	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, trimmed); err == nil {
			return Cell{Kind: CellDate, Raw: trimmed, Date: d}
		}
	}

	return Cell{Kind: CellText, Raw: trimmed}
}

// IsEmpty 是否为空单元格
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// Normalize 规范化单元格内容用于列名比较
// 小写、压缩空白为单个空格、去除 [a-z0-9 /&] 之外的字符
// 非文本单元格（数字/日期/空）不可能是列名，规范化为空串
func Normalize(c Cell) string {
	if c.Kind != CellText {
		return ""
	}
	return NormalizeString(c.Raw)
}

// NormalizeString 规范化任意字符串（别名表也走同一条路径）
func NormalizeString(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '/' || r == '&':
			b.WriteRune(r)
			lastSpace = false
		default:
			// 标点等其余字符直接丢弃
		}
	}

	return strings.TrimRight(b.String(), " ")
}
