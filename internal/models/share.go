package models

// Share is one participant's portion of a Bill. Exactly one Share exists per
// (bill, username) pair, the creator always among them, and the share
// amounts of a bill sum to the bill total at cent precision.
//
// IsPaid/PaidAt are the only mutable fields in the system, and the
// transition is one-way: unpaid shares become paid, never the reverse.
// The creator's share is created already paid.
type Share struct {
	// ID is the unique identifier for the share (UUID format).
	ID string `json:"-"`

	// BillID is the owning bill.
	BillID string `json:"-"`

	// Username identifies the participant who owes this share.
	Username string `json:"username"`

	// ShareAmount is this participant's portion of the bill total.
	ShareAmount float64 `json:"share_amount"`

	// IsPaid reports whether the share has been settled.
	IsPaid bool `json:"is_paid"`

	// PaidAt is the Unix timestamp of settlement, nil while unpaid.
	PaidAt *int64 `json:"paid_at"`
}
