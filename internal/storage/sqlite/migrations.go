package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database tables.
// These run on startup to ensure tables exist.
//
// Shares reference bills by ID without a storage-enforced foreign key;
// cascade deletion is the store's responsibility (see DeleteBill). Likewise
// creator/username columns weakly reference users so that deleting a user
// keeps their bill history intact.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    username TEXT PRIMARY KEY,
    password TEXT NOT NULL,
    is_admin INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS bills (
    id TEXT PRIMARY KEY,
    creator TEXT NOT NULL,
    amount REAL NOT NULL,
    date TEXT NOT NULL,
    description TEXT NOT NULL,
    discount INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    due_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bill_shares (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    username TEXT NOT NULL,
    share_amount REAL NOT NULL,
    position INTEGER NOT NULL,
    is_paid INTEGER NOT NULL DEFAULT 0,
    paid_at INTEGER,
    UNIQUE (bill_id, username)
);

CREATE INDEX IF NOT EXISTS idx_bill_shares_bill_id ON bill_shares(bill_id);
CREATE INDEX IF NOT EXISTS idx_bill_shares_username ON bill_shares(username);
CREATE INDEX IF NOT EXISTS idx_bills_created_at ON bills(created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
