package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/billtab/internal/models"
)

// CreateBill persists a bill and all of its shares in one transaction,
// generating IDs. All rows exist afterwards or none do.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO bills (id, creator, amount, date, description, discount, created_at, due_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		bill.ID, bill.Creator, bill.Amount, bill.Date, bill.Description,
		boolToInt(bill.Discount), bill.CreatedAt, bill.DueAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i := range bill.Shares {
		share := &bill.Shares[i]
		if share.ID == "" {
			share.ID = uuid.New().String()
		}
		share.BillID = bill.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_shares (id, bill_id, username, share_amount, position, is_paid, paid_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			share.ID, share.BillID, share.Username, share.ShareAmount,
			i, boolToInt(share.IsPaid), share.PaidAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by ID with its shares expanded.
// Returns (nil, nil) if absent.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := s.scanBill(s.db.QueryRowContext(ctx,
		"SELECT id, creator, amount, date, description, discount, created_at, due_at FROM bills WHERE id = ?",
		billID,
	))
	if err != nil || bill == nil {
		return bill, err
	}

	bill.Shares, err = s.sharesForBill(ctx, bill.ID)
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// ListBills returns all bills, newest first, shares expanded.
func (s *SQLiteStore) ListBills(ctx context.Context) ([]models.Bill, error) {
	return s.listBills(ctx,
		"SELECT id, creator, amount, date, description, discount, created_at, due_at FROM bills ORDER BY created_at DESC",
	)
}

// ListBillsForUser returns the bills in which username holds a share,
// newest first, shares expanded.
func (s *SQLiteStore) ListBillsForUser(ctx context.Context, username string) ([]models.Bill, error) {
	return s.listBills(ctx,
		`SELECT id, creator, amount, date, description, discount, created_at, due_at FROM bills
		 WHERE id IN (SELECT bill_id FROM bill_shares WHERE username = ?)
		 ORDER BY created_at DESC`,
		username,
	)
}

// DeleteBill removes a bill and all of its shares in one transaction.
// Deleting an absent bill is not an error.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM bill_shares WHERE bill_id = ?", billID); err != nil {
		return fmt.Errorf("failed to delete shares: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listBills(ctx context.Context, query string, args ...any) ([]models.Bill, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		bill, err := s.scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bills: %w", err)
	}

	for i := range bills {
		bills[i].Shares, err = s.sharesForBill(ctx, bills[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return bills, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanBill(row scanner) (*models.Bill, error) {
	bill := &models.Bill{}
	var discount int
	err := row.Scan(&bill.ID, &bill.Creator, &bill.Amount, &bill.Date,
		&bill.Description, &discount, &bill.CreatedAt, &bill.DueAt)
	if err == sql.ErrNoRows {
		return nil, nil // Bill not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan bill: %w", err)
	}
	bill.Discount = discount != 0
	return bill, nil
}

// sharesForBill returns a bill's shares in distribution order.
func (s *SQLiteStore) sharesForBill(ctx context.Context, billID string) ([]models.Share, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bill_id, username, share_amount, is_paid, paid_at FROM bill_shares WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, *share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shares: %w", err)
	}
	return shares, nil
}
