package store

import (
	"fmt"

	"cargodesk/internal/model"
)

// BatchInsertCargo 批量插入货物明细，同一事务内完成
func (s *Store) BatchInsertCargo(records []*model.CargoItem) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO cargo_items (
			batch_id, tracking_no, shipping_mark, description,
			quantity, cbm, weight, unit_value,
			source_sheet, row_no
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			r.BatchID, r.TrackingNo, r.ShippingMark, r.Description,
			r.Quantity, r.Cbm, r.Weight, r.UnitValue,
			r.SourceSheet, r.RowNo,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cargo row %d: %w", r.RowNo, err)
		}
	}

	return tx.Commit()
}

// CargoQueryOptions 货物明细查询条件
type CargoQueryOptions struct {
	BatchID    string
	TrackingNo string
	Limit      int
	Offset     int
}

// ListCargo 分页查询货物明细
func (s *Store) ListCargo(opts CargoQueryOptions) ([]*model.CargoItem, error) {
	query := `
		SELECT id, batch_id, tracking_no, shipping_mark, description,
		       quantity, cbm, weight, unit_value, source_sheet, row_no, created_at
		FROM cargo_items WHERE 1=1`
	args := []any{}

	if opts.BatchID != "" {
		query += " AND batch_id = ?"
		args = append(args, opts.BatchID)
	}
	if opts.TrackingNo != "" {
		query += " AND tracking_no = ?"
		args = append(args, opts.TrackingNo)
	}

	query += " ORDER BY id"
	if opts.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cargo items: %w", err)
	}
	defer rows.Close()

	var out []*model.CargoItem
	for rows.Next() {
		r := &model.CargoItem{}
		if err := rows.Scan(
			&r.ID, &r.BatchID, &r.TrackingNo, &r.ShippingMark, &r.Description,
			&r.Quantity, &r.Cbm, &r.Weight, &r.UnitValue,
			&r.SourceSheet, &r.RowNo, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cargo item: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountCargo 货物明细总数
func (s *Store) CountCargo() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM cargo_items`).Scan(&n)
	return n, err
}

// DeleteAllCargo 清空货物明细（替换式导入用）
func (s *Store) DeleteAllCargo() error {
	_, err := s.db.Exec(`DELETE FROM cargo_items`)
	return err
}
