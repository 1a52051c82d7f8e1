package extract

// LocateHeader 在 sheet 的前 maxSearchRows 行里寻找最像表头的一行
// 逐行规范化单元格、构建列映射、计算匹配率，保留严格最高者；
// 同分保留最靠上的一行——脏文件里真正的表头下方常跟着装饰性的近似表头。
// 全空行直接跳过不评分。没有任何一行产生映射时返回 nil，
// 阈值判断交给 SelectBestSheet，便于上层报告 "最高只匹配到 N%"
func LocateHeader(sheet *SheetGrid, fields []TargetField, maxSearchRows int) *HeaderCandidate {
	limit := maxSearchRows
	if limit > len(sheet.Rows) {
		limit = len(sheet.Rows)
	}

	var best *HeaderCandidate
	for r := 0; r < limit; r++ {
		row := sheet.Rows[r]

		allEmpty := true
		normalized := make([]string, len(row))
		for i, cell := range row {
			if !cell.IsEmpty() {
				allEmpty = false
			}
			normalized[i] = Normalize(cell)
		}
		if allEmpty {
			continue
		}

		mapping := MatchRow(normalized, fields)
		if len(mapping) == 0 {
			continue
		}

		ratio := matchRatio(mapping, fields)
		if best == nil || ratio > best.MatchRatio {
			best = &HeaderCandidate{
				RowIndex:      r,
				ColumnMapping: mapping,
				MatchRatio:    ratio,
				MatchedFields: len(mapping),
			}
		}
	}
	return best
}
