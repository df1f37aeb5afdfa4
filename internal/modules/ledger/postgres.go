package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const foreignKeyViolation = "23503"

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a ledger repository over profiles.points_balance
// and the ledger_entries journal.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(ctx, NewTxStore(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) ListEntries(ctx context.Context, profileID uuid.UUID) ([]*Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, profile_id, order_id, kind, delta, balance_after, reason, created_at
		FROM ledger_entries WHERE profile_id=$1 ORDER BY created_at DESC, id`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		var orderID uuid.NullUUID
		var reason sql.NullString
		if err := rows.Scan(&e.ID, &e.ProfileID, &orderID, &e.Kind, &e.Delta,
			&e.BalanceAfter, &reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		if orderID.Valid {
			id := orderID.UUID
			e.OrderID = &id
		}
		e.Reason = reason.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TxStore is a Store bound to an open transaction. Other modules embed it so
// balance changes commit together with their own writes.
type TxStore struct{ tx *sql.Tx }

// NewTxStore wraps tx.
func NewTxStore(tx *sql.Tx) *TxStore { return &TxStore{tx: tx} }

func (s *TxStore) LockBalance(ctx context.Context, profileID uuid.UUID) (int64, error) {
	var balance int64
	err := s.tx.QueryRowContext(ctx,
		`SELECT points_balance FROM profiles WHERE id=$1 FOR UPDATE`, profileID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errs.New(errs.KindNotFound, "profile %s not found", profileID)
	}
	if err != nil {
		return 0, fmt.Errorf("lock balance: %w", err)
	}
	return balance, nil
}

func (s *TxStore) SetBalance(ctx context.Context, profileID uuid.UUID, balance int64) error {
	_, err := s.tx.ExecContext(ctx,
		`UPDATE profiles SET points_balance=$1, updated_at=$2 WHERE id=$3`,
		balance, time.Now(), profileID)
	return err
}

func (s *TxStore) AppendEntry(ctx context.Context, e *Entry) error {
	_, err := s.tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, profile_id, order_id, kind, delta, balance_after, reason, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		e.ID, e.ProfileID, e.OrderID, e.Kind, e.Delta, e.BalanceAfter, e.Reason, e.CreatedAt)
	return appendErr(err, e)
}

// appendErr turns a journal row pointing at a missing order into not_found.
func appendErr(err error, e *Entry) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation && e.OrderID != nil {
		return errs.New(errs.KindNotFound, "order %s not found", e.OrderID)
	}
	return err
}
