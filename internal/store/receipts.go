package store

import (
	"fmt"

	"cargodesk/internal/model"
)

// BatchInsertReceipts 批量插入收货记录，同一事务内完成
func (s *Store) BatchInsertReceipts(records []*model.GoodsReceipt) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO goods_receipts (
			batch_id, shipping_mark, tracking_no, description,
			quantity, weight, cbm, received_date,
			source_sheet, row_no
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			r.BatchID, r.ShippingMark, r.TrackingNo, r.Description,
			r.Quantity, r.Weight, r.Cbm, r.ReceivedDate,
			r.SourceSheet, r.RowNo,
		)
		if err != nil {
			return fmt.Errorf("failed to insert receipt row %d: %w", r.RowNo, err)
		}
	}

	return tx.Commit()
}

// ReceiptQueryOptions 收货记录查询条件
type ReceiptQueryOptions struct {
	BatchID    string
	TrackingNo string
	Limit      int
	Offset     int
}

// ListReceipts 分页查询收货记录
func (s *Store) ListReceipts(opts ReceiptQueryOptions) ([]*model.GoodsReceipt, error) {
	query := `
		SELECT id, batch_id, shipping_mark, tracking_no, description,
		       quantity, weight, cbm, received_date, source_sheet, row_no, created_at
		FROM goods_receipts WHERE 1=1`
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
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	var out []*model.GoodsReceipt
	for rows.Next() {
		r := &model.GoodsReceipt{}
		if err := rows.Scan(
			&r.ID, &r.BatchID, &r.ShippingMark, &r.TrackingNo, &r.Description,
			&r.Quantity, &r.Weight, &r.Cbm, &r.ReceivedDate,
			&r.SourceSheet, &r.RowNo, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountReceipts 收货记录总数
func (s *Store) CountReceipts() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM goods_receipts`).Scan(&n)
	return n, err
}

// DeleteAllReceipts 清空收货记录（替换式导入用）
func (s *Store) DeleteAllReceipts() error {
	_, err := s.db.Exec(`DELETE FROM goods_receipts`)
	return err
}
