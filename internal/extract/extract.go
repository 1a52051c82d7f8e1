// Package extract 从第三方制作的表格文件中提取结构化记录
//
// 供应商的清单文件结构不受控：表头位置不固定、列名五花八门、
// 有装饰性空行空列、多个 sheet 里往往只有一个有数据。
// 本包负责定位真实表头、把列名模糊匹配到调用方给定的字段集、
// 选出匹配最好的 sheet，并对每行做类型化清洗，产出记录列表和诊断报告。
// 不落库、不做跨行业务校验、不渲染 UI，这些都属于上层
package extract

// Extract 核心入口：一次调用处理一个内存中的工作簿
// 同步、无共享状态，多个上传并发调用相互完全隔离
//
// 文件级问题（格式不支持/文件损坏/没有 sheet）以 error 返回；
// 没有 sheet 达到阈值属于正常结果，Result.Matched() 为 false，
// BestRatio 告知最高匹配到了多少、ColumnsFound 列出对上了哪些列；
// 行级问题收集在 Result.RowErrors 里
func Extract(data []byte, filename string, fields []TargetField, opts Options) (*Result, error) {
	if opts.MaxHeaderSearchRows <= 0 {
		opts.MaxHeaderSearchRows = DefaultOptions().MaxHeaderSearchRows
	}
	if opts.MinColumnMatchThreshold <= 0 {
		opts.MinColumnMatchThreshold = DefaultOptions().MinColumnMatchThreshold
	}

	wb, err := DecodeWorkbook(data, filename)
	if err != nil {
		return nil, err
	}

	sheetIdx, cand, bestRatio := SelectBestSheet(wb, fields, opts.MaxHeaderSearchRows, opts.MinColumnMatchThreshold)
	if sheetIdx < 0 {
		// 没有可用数据：空结果带诊断，不是错误。落选候选识别到的列
		// 仍然上报，提示能具体到 "找到了 X、Y 两列，但至少要 N%"
		result := &Result{
			Records:   []Record{},
			BestRatio: bestRatio,
		}
		if cand != nil {
			result.ColumnsFound = columnsInOrder(cand.ColumnMapping, fields)
		}
		return result, nil
	}

	sheet := &wb.Sheets[sheetIdx]
	rawRows, scanned := ExtractRows(sheet, cand.RowIndex, cand.ColumnMapping, fields)

	result := &Result{
		Records:          make([]Record, 0, len(rawRows)),
		ColumnsFound:     columnsInOrder(cand.ColumnMapping, fields),
		TotalRowsScanned: scanned,
		SheetName:        sheet.Name,
		HeaderRow:        cand.RowIndex + 1,
		MatchRatio:       cand.MatchRatio,
		BestRatio:        bestRatio,
	}

	for _, raw := range rawRows {
		rec, errs, dropped := CleanRow(raw, fields)
		result.RowErrors = append(result.RowErrors, errs...)
		if !dropped {
			result.Records = append(result.Records, rec)
			result.RowNumbers = append(result.RowNumbers, raw.RowNum)
		}
	}

	return result, nil
}

// columnsInOrder 把列映射里的字段按声明顺序列出
func columnsInOrder(mapping map[string]int, fields []TargetField) []string {
	var out []string
	for _, f := range fields {
		if _, ok := mapping[f.Key]; ok {
			out = append(out, f.Key)
		}
	}
	return out
}
