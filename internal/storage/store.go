// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/billtab/internal/models"
)

// Store defines the interface for user, bill, and share persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger layer.
//
// Getters return (nil, nil) when the requested row does not exist; callers
// decide whether absence is an error.
type Store interface {
	// CreateUser inserts a new user. Fails if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by username.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// DeleteUser removes a user by username. Deleting an absent user is
	// not an error. Bills and shares referencing the username are left
	// untouched as historical records.
	DeleteUser(ctx context.Context, username string) error

	// ListUsernames returns all usernames in lexical order.
	ListUsernames(ctx context.Context) ([]string, error)

	// IsAdmin reports whether the username belongs to an admin user.
	// Unknown usernames are not admins.
	IsAdmin(ctx context.Context, username string) (bool, error)

	// CreateBill persists a bill together with all of its shares as a
	// single atomic unit, assigning IDs. Either every row exists
	// afterwards or none do.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by ID with its shares expanded, in
	// distribution order.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBills returns all bills, newest first, shares expanded.
	ListBills(ctx context.Context) ([]models.Bill, error)

	// ListBillsForUser returns the bills in which username holds a
	// share, newest first, shares expanded.
	ListBillsForUser(ctx context.Context, username string) ([]models.Bill, error)

	// DeleteBill removes a bill and all of its shares together.
	// Deleting an absent bill is not an error.
	DeleteBill(ctx context.Context, billID string) error

	// GetShare retrieves the share for a (bill, username) pair.
	GetShare(ctx context.Context, billID, username string) (*models.Share, error)

	// MarkSharePaid transitions the share for (bill, username) from
	// unpaid to paid, stamping paidAt. It reports whether a row was
	// transitioned: false means the share is absent or already paid, so
	// of two concurrent callers exactly one observes true.
	MarkSharePaid(ctx context.Context, billID, username string, paidAt int64) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
