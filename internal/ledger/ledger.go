// Package ledger implements the bill/share lifecycle and the authorization
// rules layered over storage: bill creation via the split distributor,
// visibility filtering, the one-shot payment transition, and the admin-gated
// roster and deletion operations.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/mmynk/billtab/internal/metrics"
	"github.com/mmynk/billtab/internal/models"
	"github.com/mmynk/billtab/internal/split"
	"github.com/mmynk/billtab/internal/storage"
)

// dueAfter is how far past creation a bill's informational due time lies.
const dueAfter = 24 * time.Hour

// Ledger coordinates all bill and roster operations against a Store.
// It holds no state of its own; concurrent callers are serialized by the
// store's transaction discipline.
type Ledger struct {
	store storage.Store

	// adminUsername is the configured bootstrap admin, the one user that
	// can never be deleted.
	adminUsername string

	now func() time.Time
}

// New creates a Ledger over the given store. adminUsername names the
// bootstrap admin the store seeded; DeleteUser refuses to remove it.
func New(store storage.Store, adminUsername string) *Ledger {
	return &Ledger{
		store:         store,
		adminUsername: adminUsername,
		now:           time.Now,
	}
}

// CreateBillInput carries the caller-supplied fields of a new bill.
// Date and Description are opaque and stored verbatim.
type CreateBillInput struct {
	Creator      string
	Amount       float64
	Date         string
	Description  string
	Participants []string
	Discount     bool
}

// Authenticate verifies a username/credential pair and returns the matched
// user. Credentials are opaque strings compared verbatim.
func (l *Ledger) Authenticate(ctx context.Context, username, credential string) (*models.User, error) {
	if username == "" || credential == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrInvalidInput)
	}

	user, err := l.store.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.Password != credential {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// AddUser creates a non-admin user. Only admins may call it.
func (l *Ledger) AddUser(ctx context.Context, admin, username, credential string) error {
	if admin == "" || username == "" || credential == "" {
		return fmt.Errorf("%w: admin, username and password required", ErrInvalidInput)
	}
	if err := l.requireAdmin(ctx, admin); err != nil {
		return err
	}

	existing, err := l.store.GetUser(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return ErrConflict
	}

	user := &models.User{Username: username, Password: credential}
	if err := l.store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User created", "username", username, "by", admin)
	return nil
}

// DeleteUser removes a user from the roster. Only admins may call it, and
// the bootstrap admin itself is protected: one undeletable admin always
// exists. Bills and shares referencing the deleted username survive as
// historical records.
func (l *Ledger) DeleteUser(ctx context.Context, admin, username string) error {
	if admin == "" || username == "" {
		return fmt.Errorf("%w: admin and username required", ErrInvalidInput)
	}
	if username == l.adminUsername {
		return fmt.Errorf("%w: cannot delete admin", ErrInvalidInput)
	}
	if err := l.requireAdmin(ctx, admin); err != nil {
		return err
	}

	if err := l.store.DeleteUser(ctx, username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("User deleted", "username", username, "by", admin)
	return nil
}

// ListUsers returns every username in lexical order.
func (l *Ledger) ListUsers(ctx context.Context) ([]string, error) {
	usernames, err := l.store.ListUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return usernames, nil
}

// CreateBill validates the input, filters admin users out of the participant
// list, runs the share distributor, and persists the bill with all of its
// shares atomically. Returns the new bill's ID.
func (l *Ledger) CreateBill(ctx context.Context, in CreateBillInput) (string, error) {
	if in.Creator == "" {
		return "", fmt.Errorf("%w: creator required", ErrInvalidInput)
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return "", fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	}

	// Admins pay for nothing: drop them from the split.
	participants := make([]string, 0, len(in.Participants))
	for _, p := range in.Participants {
		isAdmin, err := l.store.IsAdmin(ctx, p)
		if err != nil {
			return "", fmt.Errorf("failed to check participant: %w", err)
		}
		if !isAdmin {
			participants = append(participants, p)
		}
	}

	now := l.now().UTC()
	allocs, err := split.Distribute(in.Amount, participants, in.Creator, in.Discount, now)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bill := &models.Bill{
		Creator:     in.Creator,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		Discount:    in.Discount,
		CreatedAt:   now.Unix(),
		DueAt:       now.Add(dueAfter).Unix(),
		Shares:      make([]models.Share, len(allocs)),
	}
	for i, a := range allocs {
		bill.Shares[i] = models.Share{
			Username:    a.Username,
			ShareAmount: a.Amount,
			IsPaid:      a.Paid,
			PaidAt:      a.PaidAt,
		}
	}

	if err := l.store.CreateBill(ctx, bill); err != nil {
		return "", fmt.Errorf("failed to create bill: %w", err)
	}

	metrics.BillsCreatedTotal.WithLabelValues(strconv.FormatBool(in.Discount)).Inc()
	slog.Info("Bill created",
		"bill_id", bill.ID,
		"creator", bill.Creator,
		"amount", bill.Amount,
		"participants", len(bill.Shares),
		"discount", bill.Discount,
	)
	return bill.ID, nil
}

// ListBills returns bills visible to username, newest first, shares
// expanded. Admins see everything; other users only bills they hold a share
// in. An empty username also returns everything — the historical
// unauthenticated default, kept as-is (a latent authorization gap, neither
// tightened nor loosened here).
func (l *Ledger) ListBills(ctx context.Context, username string) ([]models.Bill, error) {
	admin := username == ""
	if !admin {
		var err error
		admin, err = l.store.IsAdmin(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to check admin flag: %w", err)
		}
	}

	var (
		bills []models.Bill
		err   error
	)
	if admin {
		bills, err = l.store.ListBills(ctx)
	} else {
		bills, err = l.store.ListBillsForUser(ctx, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

// GetBill returns a single bill with its shares expanded.
func (l *Ledger) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := l.store.GetBill(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if bill == nil {
		return nil, ErrNotFound
	}
	return bill, nil
}

// PayShare settles username's share of a bill. The transition is one-shot
// and one-directional: a second call fails with ErrAlreadyPaid, and under
// concurrent calls the store's guarded update lets exactly one succeed.
func (l *Ledger) PayShare(ctx context.Context, billID, username string) error {
	if username == "" {
		return fmt.Errorf("%w: username required", ErrInvalidInput)
	}

	share, err := l.store.GetShare(ctx, billID, username)
	if err != nil {
		return fmt.Errorf("failed to get share: %w", err)
	}
	if share == nil {
		return fmt.Errorf("share %w", ErrNotFound)
	}
	if share.IsPaid {
		return ErrAlreadyPaid
	}

	updated, err := l.store.MarkSharePaid(ctx, billID, username, l.now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("failed to mark share paid: %w", err)
	}
	if !updated {
		// Lost the race against a concurrent payment.
		return ErrAlreadyPaid
	}

	metrics.SharesPaidTotal.Inc()
	slog.Info("Share paid", "bill_id", billID, "username", username)
	return nil
}

// DeleteBill removes a bill and all of its shares. Only admins may call it.
func (l *Ledger) DeleteBill(ctx context.Context, admin, billID string) error {
	if admin == "" || billID == "" {
		return fmt.Errorf("%w: admin and bill_id required", ErrInvalidInput)
	}
	if err := l.requireAdmin(ctx, admin); err != nil {
		return err
	}

	if err := l.store.DeleteBill(ctx, billID); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}

	metrics.BillsDeletedTotal.Inc()
	slog.Info("Bill deleted", "bill_id", billID, "by", admin)
	return nil
}

// requireAdmin fails with ErrUnauthorized unless username currently has the
// admin flag.
func (l *Ledger) requireAdmin(ctx context.Context, username string) error {
	isAdmin, err := l.store.IsAdmin(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check admin flag: %w", err)
	}
	if !isAdmin {
		return ErrUnauthorized
	}
	return nil
}
