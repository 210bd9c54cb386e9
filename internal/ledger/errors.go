package ledger

import "errors"

// Failure kinds returned by ledger operations. Every error a Ledger method
// returns wraps exactly one of these, so callers classify with errors.Is and
// render the message as-is.
var (
	// ErrInvalidInput marks malformed or missing caller data, including a
	// split that ends up with zero participants.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned by Authenticate when the
	// username/credential pair matches no user.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized marks a non-admin attempting an admin operation.
	ErrUnauthorized = errors.New("not authorized")

	// ErrConflict marks a duplicate username on user creation.
	ErrConflict = errors.New("user exists")

	// ErrNotFound marks an unknown bill or share.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyPaid marks a repeated payment of a settled share.
	ErrAlreadyPaid = errors.New("already paid")
)
