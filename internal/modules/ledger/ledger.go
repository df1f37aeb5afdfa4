// Package ledger owns customer point balances. Balances only move through Debit,
// Credit and Adjust, each of which locks the profile, journals the change and
// never lets the balance drop below zero.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/google/uuid"
)

// Debit removes amount points from the profile. It fails with insufficient_points
// when the balance cannot cover it.
func Debit(ctx context.Context, s Store, profileID uuid.UUID, amount int64, orderID *uuid.UUID, reason string) (*Entry, error) {
	if amount < 0 {
		return nil, errs.New(errs.KindInvalidInput, "debit amount must not be negative, got %d", amount)
	}
	return apply(ctx, s, profileID, EntryDebit, -amount, orderID, reason)
}

// Credit adds amount points to the profile. Per-order idempotence is the caller's
// job: it must check and set the order's credited flag in the same transaction.
func Credit(ctx context.Context, s Store, profileID uuid.UUID, amount int64, orderID *uuid.UUID, reason string) (*Entry, error) {
	if amount < 0 {
		return nil, errs.New(errs.KindInvalidInput, "credit amount must not be negative, got %d", amount)
	}
	return apply(ctx, s, profileID, EntryCredit, amount, orderID, reason)
}

// Adjust applies a signed manual correction.
func Adjust(ctx context.Context, s Store, profileID uuid.UUID, delta int64, orderID *uuid.UUID, reason string) (*Entry, error) {
	if delta == 0 {
		return nil, errs.New(errs.KindInvalidInput, "adjustment must not be zero")
	}
	if reason == "" {
		return nil, errs.New(errs.KindInvalidInput, "adjustment reason is required")
	}
	return apply(ctx, s, profileID, EntryAdjustment, delta, orderID, reason)
}

func apply(ctx context.Context, s Store, profileID uuid.UUID, kind EntryKind, delta int64, orderID *uuid.UUID, reason string) (*Entry, error) {
	balance, err := s.LockBalance(ctx, profileID)
	if err != nil {
		return nil, err
	}
	// a zero delta still locks but leaves nothing to journal
	if delta == 0 {
		return &Entry{ProfileID: profileID, OrderID: orderID, Kind: kind, BalanceAfter: balance, Reason: reason}, nil
	}

	next := balance + delta
	if next < 0 {
		return nil, errs.New(errs.KindInsufficientPoints, "insufficient points: have %d, need %d", balance, -delta)
	}
	if err := s.SetBalance(ctx, profileID, next); err != nil {
		return nil, fmt.Errorf("set balance: %w", err)
	}

	e := &Entry{
		ID:           uuid.New(),
		ProfileID:    profileID,
		OrderID:      orderID,
		Kind:         kind,
		Delta:        delta,
		BalanceAfter: next,
		Reason:       reason,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.AppendEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}
	return e, nil
}
