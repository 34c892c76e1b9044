package domain

import (
	"context"
	"time"
)

// AccountRow represents an account record scoped to one user.
type AccountRow struct {
	UserID  int64
	Balance float64
}

// TransactionRow represents a single ledger entry. Amount is signed:
// negative for debits, positive for credits.
type TransactionRow struct {
	ID          int64
	Date        time.Time
	Description string
	Amount      float64
}

// AccountRepository defines the data-access contract for the read-only
// account views. Both lookups are scoped strictly by user id; callers must
// pass the authenticated identity, never client-supplied input.
type AccountRepository interface {
	// GetAccount returns the account owned by the given user.
	// Returns (nil, nil) when the user has no account row.
	GetAccount(ctx context.Context, userID int64) (*AccountRow, error)

	// ListTransactions returns at most limit transactions for the given
	// user, newest first (date descending, then id descending so equal
	// dates order deterministically).
	ListTransactions(ctx context.Context, userID int64, limit int) ([]TransactionRow, error)
}
