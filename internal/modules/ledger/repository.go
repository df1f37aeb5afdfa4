package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Store is a transaction-scoped view of point balances. LockBalance must hold the
// profile row until the enclosing transaction commits or rolls back.
type Store interface {
	// LockBalance returns the current balance and locks the profile for update.
	LockBalance(ctx context.Context, profileID uuid.UUID) (int64, error)

	// SetBalance overwrites the balance of a profile locked in this transaction.
	SetBalance(ctx context.Context, profileID uuid.UUID, balance int64) error

	// AppendEntry records a journal row.
	AppendEntry(ctx context.Context, e *Entry) error
}

// Repository opens ledger transactions and reads the journal.
type Repository interface {
	// WithinTx runs fn in one transaction; any error rolls everything back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error

	// ListEntries returns a profile's journal, newest first.
	ListEntries(ctx context.Context, profileID uuid.UUID) ([]*Entry, error)
}
