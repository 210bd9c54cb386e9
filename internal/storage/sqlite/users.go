package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/billtab/internal/models"
)

// CreateUser inserts a new user into the database.
// The username is the primary key, so inserting a taken name fails.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password, is_admin) VALUES (?, ?, ?)",
		user.Username, user.Password, boolToInt(user.IsAdmin),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by username. Returns (nil, nil) if absent.
func (s *SQLiteStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	var isAdmin int
	err := s.db.QueryRowContext(ctx,
		"SELECT username, password, is_admin FROM users WHERE username = ?",
		username,
	).Scan(&user.Username, &user.Password, &isAdmin)
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.IsAdmin = isAdmin != 0
	return user, nil
}

// DeleteUser removes a user by username. Shares and bills referencing the
// username are intentionally left in place as historical records.
func (s *SQLiteStore) DeleteUser(ctx context.Context, username string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ListUsernames returns all usernames in lexical order.
func (s *SQLiteStore) ListUsernames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT username FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		usernames = append(usernames, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return usernames, nil
}

// IsAdmin reports whether username belongs to an admin user.
// Unknown usernames are not admins.
func (s *SQLiteStore) IsAdmin(ctx context.Context, username string) (bool, error) {
	var isAdmin int
	err := s.db.QueryRowContext(ctx,
		"SELECT is_admin FROM users WHERE username = ?", username,
	).Scan(&isAdmin)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check admin flag: %w", err)
	}
	return isAdmin != 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
