package extract

// RawRow 从数据区取出的一行原始值
type RawRow struct {
	RowNum int             // sheet 内 1-based 原始行号，错误提示按此行号报
	Cells  map[string]Cell // field key -> 原始单元格，未映射的可选字段为空单元格
}

// ExtractRows 表头与列映射确定后，走完表头之下的所有行
// 所有已映射列都为空的行视为结构性留白，跳过不产出也不计错误
// scanned 计所有走过的行（含跳过的空行，不含表头本身）
func ExtractRows(sheet *SheetGrid, headerRow int, mapping map[string]int, fields []TargetField) (rows []RawRow, scanned int) {
	for r := headerRow + 1; r < len(sheet.Rows); r++ {
		scanned++

		cells := make(map[string]Cell, len(fields))
		allEmpty := true
		for _, f := range fields {
			col, ok := mapping[f.Key]
			if !ok {
				cells[f.Key] = Cell{Kind: CellEmpty}
				continue
			}
			cell := sheet.cellAt(r, col)
			if !cell.IsEmpty() {
				allEmpty = false
			}
			cells[f.Key] = cell
		}
		if allEmpty {
			continue
		}

		rows = append(rows, RawRow{RowNum: r + 1, Cells: cells})
	}
	return rows, scanned
}
