package models

// Bill represents a single amount owed, created by one user and split into
// per-participant Shares. All fields are fixed at creation; the only way a
// bill changes afterwards is administrative deletion.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format), assigned
	// by the store on creation.
	ID string `json:"id"`

	// Creator is the username of the user who created the bill.
	// A weak reference: the user may have been deleted since.
	Creator string `json:"creator"`

	// Amount is the total billed amount split across the shares.
	Amount float64 `json:"amount"`

	// Date is caller-supplied metadata, stored and returned verbatim.
	Date string `json:"date"`

	// Description is caller-supplied metadata, stored and returned verbatim.
	Description string `json:"description"`

	// Discount records whether the creator-discount split policy was used.
	Discount bool `json:"discount"`

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64 `json:"created_at"`

	// DueAt is CreatedAt + 24h. Informational only; nothing is triggered
	// when it passes.
	DueAt int64 `json:"due_at"`

	// Shares is the full share list for the bill, in distribution order.
	Shares []Share `json:"shares"`
}
