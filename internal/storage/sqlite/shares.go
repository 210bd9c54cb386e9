package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/billtab/internal/models"
)

// GetShare retrieves the share for a (bill, username) pair.
// Returns (nil, nil) if absent.
func (s *SQLiteStore) GetShare(ctx context.Context, billID, username string) (*models.Share, error) {
	share, err := scanShare(s.db.QueryRowContext(ctx,
		"SELECT id, bill_id, username, share_amount, is_paid, paid_at FROM bill_shares WHERE bill_id = ? AND username = ?",
		billID, username,
	))
	if err != nil {
		return nil, err
	}
	return share, nil
}

// MarkSharePaid transitions the share from unpaid to paid, stamping paidAt.
// The is_paid guard in the WHERE clause makes the transition one-shot: of
// two concurrent callers exactly one updates a row and observes true.
func (s *SQLiteStore) MarkSharePaid(ctx context.Context, billID, username string, paidAt int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bill_shares SET is_paid = 1, paid_at = ? WHERE bill_id = ? AND username = ? AND is_paid = 0",
		paidAt, billID, username,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark share paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func scanShare(row scanner) (*models.Share, error) {
	share := &models.Share{}
	var isPaid int
	var paidAt sql.NullInt64
	err := row.Scan(&share.ID, &share.BillID, &share.Username, &share.ShareAmount, &isPaid, &paidAt)
	if err == sql.ErrNoRows {
		return nil, nil // Share not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan share: %w", err)
	}
	share.IsPaid = isPaid != 0
	if paidAt.Valid {
		share.PaidAt = &paidAt.Int64
	}
	return share, nil
}
