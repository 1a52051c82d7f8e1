package store

import (
	"encoding/json"
	"fmt"

	"cargodesk/internal/extract"
	"cargodesk/internal/model"
)

// InsertImportLog 写入一条导入日志
// ColumnsFound 与 RowErrors 以 JSON 存储，前端原样展示
func (s *Store) InsertImportLog(l *model.ImportLog) error {
	columns, err := json.Marshal(l.ColumnsFound)
	if err != nil {
		return fmt.Errorf("failed to marshal columns: %w", err)
	}
	rowErrors, err := json.Marshal(l.RowErrors)
	if err != nil {
		return fmt.Errorf("failed to marshal row errors: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO import_logs (
			id, kind, filename, sheet_name, header_row,
			match_ratio, best_ratio, total_rows, imported_rows, error_rows,
			status, error_message, columns_found, row_errors
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.ID, l.Kind, l.Filename, l.SheetName, l.HeaderRow,
		l.MatchRatio, l.BestRatio, l.TotalRows, l.ImportedRows, l.ErrorRows,
		l.Status, l.ErrorMessage, string(columns), string(rowErrors),
	)
	if err != nil {
		return fmt.Errorf("failed to insert import log: %w", err)
	}
	return nil
}

// ListImportLogs 按时间倒序列出导入日志
func (s *Store) ListImportLogs(limit int) ([]*model.ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, kind, filename, sheet_name, header_row,
		       match_ratio, best_ratio, total_rows, imported_rows, error_rows,
		       status, error_message, columns_found, row_errors, created_at
		FROM import_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}
	defer rows.Close()

	var out []*model.ImportLog
	for rows.Next() {
		l := &model.ImportLog{}
		var columns, rowErrors string
		if err := rows.Scan(
			&l.ID, &l.Kind, &l.Filename, &l.SheetName, &l.HeaderRow,
			&l.MatchRatio, &l.BestRatio, &l.TotalRows, &l.ImportedRows, &l.ErrorRows,
			&l.Status, &l.ErrorMessage, &columns, &rowErrors, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}

		l.ColumnsFound = []string{}
		if err := json.Unmarshal([]byte(columns), &l.ColumnsFound); err != nil {
			l.ColumnsFound = []string{}
		}
		l.RowErrors = []extract.RowError{}
		if err := json.Unmarshal([]byte(rowErrors), &l.RowErrors); err != nil {
			l.RowErrors = []extract.RowError{}
		}

		out = append(out, l)
	}
	return out, rows.Err()
}

// LastImportTime 最近一次导入时间，没有记录时返回空串
func (s *Store) LastImportTime() (string, error) {
	var t string
	err := s.db.QueryRow(`SELECT COALESCE(MAX(created_at), '') FROM import_logs`).Scan(&t)
	return t, err
}
