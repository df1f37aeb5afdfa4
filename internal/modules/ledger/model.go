package ledger

import (
	"time"

	"github.com/google/uuid"
)

// EntryKind says why a balance moved.
type EntryKind string

const (
	EntryDebit      EntryKind = "debit"      // points spent on an order discount
	EntryCredit     EntryKind = "credit"     // points earned on delivery
	EntryAdjustment EntryKind = "adjustment" // manual staff correction
)

// Entry is one immutable row of a customer's points journal.
type Entry struct {
	ID           uuid.UUID  `json:"id"`
	ProfileID    uuid.UUID  `json:"profile_id"`
	OrderID      *uuid.UUID `json:"order_id,omitempty"`
	Kind         EntryKind  `json:"kind"`
	Delta        int64      `json:"delta"`
	BalanceAfter int64      `json:"balance_after"`
	Reason       string     `json:"reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AdjustRequest is the staff payload for a manual balance correction.
type AdjustRequest struct {
	Delta   int64  `json:"delta"`
	Reason  string `json:"reason"`
	OrderID string `json:"order_id,omitempty"`
}
