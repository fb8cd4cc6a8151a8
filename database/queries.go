package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/billsnap/receipt-ocr-tracker/dto"
)

// SaveReceipt stores a receipt and its line items in one transaction.
func (d *DB) SaveReceipt(ctx context.Context, receipt dto.StoredReceipt, items []dto.LineItem) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (bill_id, user_email, vendor, date, amount, tax, subtotal, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.BillID, receipt.UserEmail, receipt.Vendor, receipt.Date,
		receipt.Amount, receipt.Tax, receipt.Subtotal, receipt.Category,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return dto.ErrDuplicateReceipt
		}
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i, item := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO line_items (bill_id, position, name, quantity, price) VALUES (?, ?, ?, ?, ?)`,
			receipt.BillID, i, item.Name, item.Quantity, item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}
	}

	return tx.Commit()
}

// IsDuplicate checks for an already-stored receipt. A valid-looking bill id
// match is decisive; synthesized ids (BILL- prefix) are skipped and the
// vendor + date + amount fingerprint catches re-uploads where OCR misread
// the id.
func (d *DB) IsDuplicate(ctx context.Context, billID, vendor, date string, amount float64) (bool, error) {
	if len(billID) > 2 && !strings.Contains(billID, dto.BillIDFallbackPrefix) {
		var exists int
		err := d.conn.QueryRowContext(ctx,
			"SELECT 1 FROM receipts WHERE bill_id = ?", billID).Scan(&exists)
		if err == nil {
			return true, nil
		}
		if err != sql.ErrNoRows {
			return false, fmt.Errorf("failed to check bill id: %w", err)
		}
	}

	var exists int
	err := d.conn.QueryRowContext(ctx,
		"SELECT 1 FROM receipts WHERE vendor = ? AND date = ? AND abs(amount - ?) < 0.01",
		vendor, date, amount).Scan(&exists)
	if err == nil {
		return true, nil
	}
	if err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to check fingerprint: %w", err)
	}
	return false, nil
}

// FetchAll returns a user's receipts ordered by date, newest first.
func (d *DB) FetchAll(ctx context.Context, userEmail string) ([]dto.StoredReceipt, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT bill_id, user_email, vendor, date, amount, tax, subtotal, category
		 FROM receipts WHERE user_email = ? ORDER BY date DESC`, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	var receipts []dto.StoredReceipt
	for rows.Next() {
		var r dto.StoredReceipt
		if err := rows.Scan(&r.BillID, &r.UserEmail, &r.Vendor, &r.Date,
			&r.Amount, &r.Tax, &r.Subtotal, &r.Category); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

// GetByBillID fetches one receipt with its line items.
func (d *DB) GetByBillID(ctx context.Context, billID, userEmail string) (*dto.StoredReceipt, []dto.LineItem, error) {
	var r dto.StoredReceipt
	err := d.conn.QueryRowContext(ctx,
		`SELECT bill_id, user_email, vendor, date, amount, tax, subtotal, category
		 FROM receipts WHERE bill_id = ? AND user_email = ?`, billID, userEmail).
		Scan(&r.BillID, &r.UserEmail, &r.Vendor, &r.Date, &r.Amount, &r.Tax, &r.Subtotal, &r.Category)
	if err == sql.ErrNoRows {
		return nil, nil, dto.ErrReceiptNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query receipt: %w", err)
	}

	rows, err := d.conn.QueryContext(ctx,
		`SELECT name, quantity, price FROM line_items WHERE bill_id = ? ORDER BY position`, billID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	var items []dto.LineItem
	for rows.Next() {
		var item dto.LineItem
		if err := rows.Scan(&item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}
	return &r, items, rows.Err()
}

// UpdateCategory applies a caller-side category correction to a stored
// receipt.
func (d *DB) UpdateCategory(ctx context.Context, billID, userEmail, category string) error {
	res, err := d.conn.ExecContext(ctx,
		"UPDATE receipts SET category = ? WHERE bill_id = ? AND user_email = ?",
		category, billID, userEmail)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return dto.ErrReceiptNotFound
	}
	return nil
}

// DeleteReceipt removes a receipt and (via cascade) its line items.
func (d *DB) DeleteReceipt(ctx context.Context, billID, userEmail string) error {
	res, err := d.conn.ExecContext(ctx,
		"DELETE FROM receipts WHERE bill_id = ? AND user_email = ?", billID, userEmail)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return dto.ErrReceiptNotFound
	}
	return nil
}

// RecordUpload writes an audit row for a processed upload and returns its id.
func (d *DB) RecordUpload(ctx context.Context, billID, filename, ocrSource string) (string, error) {
	id := uuid.New().String()
	_, err := d.conn.ExecContext(ctx,
		"INSERT INTO uploads (id, bill_id, filename, ocr_source, created_at) VALUES (?, ?, ?, ?, ?)",
		id, billID, filename, ocrSource, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("failed to record upload: %w", err)
	}
	return id, nil
}
