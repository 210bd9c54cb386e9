package models

// User represents an entry in the process-wide user roster.
//
// Credentials are opaque strings compared verbatim; there is no hashing and
// no password policy. The roster is mutated only through admin-gated
// operations, plus the bootstrap admin seeded at startup.
type User struct {
	// Username is the unique identifier for the user.
	Username string `json:"username"`

	// Password is the opaque credential used for login.
	// Never serialized in API responses.
	Password string `json:"-"`

	// IsAdmin marks administrators, who manage the roster and may see
	// and delete all bills.
	IsAdmin bool `json:"is_admin"`
}
