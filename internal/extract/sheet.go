package extract

// SelectBestSheet 对工作簿内每个 sheet 跑表头定位，选出匹配率最高的那个
// 同分取工作簿顺序靠前的 sheet（惯例是主数据表放在最前面）
// 所有 sheet 的最高匹配率都低于阈值时 sheetIdx 为 -1，这是正常的
// "没有可用数据" 结果而不是失败；此时仍返回全簿最佳候选及其匹配率，
// 上层要靠它提示 "识别到了哪些列、最高匹配到多少"
func SelectBestSheet(wb *Workbook, fields []TargetField, maxSearchRows int, threshold float64) (sheetIdx int, cand *HeaderCandidate, bestRatio float64) {
	sheetIdx = -1

	for i := range wb.Sheets {
		c := LocateHeader(&wb.Sheets[i], fields, maxSearchRows)
		if c == nil {
			continue
		}
		if cand == nil || c.MatchRatio > cand.MatchRatio {
			sheetIdx = i
			cand = c
		}
	}

	if cand == nil {
		return -1, nil, 0
	}

	bestRatio = cand.MatchRatio
	if bestRatio < threshold {
		return -1, cand, bestRatio
	}
	return sheetIdx, cand, bestRatio
}
