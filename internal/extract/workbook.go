package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// 文件级错误，提取直接中止，不产生部分结果
// 调用方据此区分 "文件坏了" 和 "文件没问题但没有匹配数据"
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrCorruptFile       = errors.New("corrupt or unreadable file")
	ErrNoSheets          = errors.New("workbook contains no sheets")
)

// Workbook 输入文件的只读视图，按顺序持有若干 Sheet
type Workbook struct {
	Sheets []SheetGrid
}

// SheetGrid 一个 sheet 的二维单元格网格，行列可能整片为空（装饰性留白）
type SheetGrid struct {
	Name string
	Rows [][]Cell
}

// DecodeWorkbook 将上传的文件字节解码为 Workbook
// 格式按文件名后缀判定，无后缀时按 zip 魔数嗅探（xlsx 本质是 zip）
// 旧版 .xls 为二进制 BIFF 格式，excelize 不支持，提示转存为 xlsx
func DecodeWorkbook(data []byte, filename string) (*Workbook, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".xlsx", ".xlsm":
		return decodeExcel(data)
	case ".csv":
		return decodeCSV(data, filename)
	case ".xls":
		return nil, fmt.Errorf("%w: 不支持旧版 .xls，请另存为 .xlsx 后重新上传", ErrUnsupportedFormat)
	case "":
		if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
			return decodeExcel(data)
		}
		return decodeCSV(data, filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func decodeExcel(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, ErrNoSheets
	}

	wb := &Workbook{Sheets: make([]SheetGrid, 0, len(sheetList))}
	for _, name := range sheetList {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: 读取 sheet %q 失败: %v", ErrCorruptFile, name, err)
		}
		wb.Sheets = append(wb.Sheets, SheetGrid{Name: name, Rows: classifyRows(rows)})
	}
	return wb, nil
}

// decodeCSV CSV 按单 sheet 工作簿处理
func decodeCSV(data []byte, filename string) (*Workbook, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // 供应商文件行宽经常不一致

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
		}
		rows = append(rows, record)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if name == "" {
		name = "Sheet1"
	}
	return &Workbook{Sheets: []SheetGrid{{Name: name, Rows: classifyRows(rows)}}}, nil
}

func classifyRows(rows [][]string) [][]Cell {
	out := make([][]Cell, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, raw := range row {
			cells[j] = ClassifyCell(raw)
		}
		out[i] = cells
	}
	return out
}

// cellAt 越界位置视为空单元格
func (s *SheetGrid) cellAt(row, col int) Cell {
	if row < 0 || row >= len(s.Rows) {
		return Cell{Kind: CellEmpty}
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return Cell{Kind: CellEmpty}
	}
	return r[col]
}
