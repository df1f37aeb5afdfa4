// Package notify fans order status changes out to customers. Delivery is best
// effort and never holds up or rolls back the change that triggered it.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Change is one committed order status transition.
type Change struct {
	OrderID      uuid.UUID `json:"order_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	OldStatus    string    `json:"old_status"`
	NewStatus    string    `json:"new_status"`
	TrackingNote string    `json:"tracking_note,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Notifier accepts committed changes. Implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, c Change)
}

// Sink delivers a change to one channel.
type Sink interface {
	Send(ctx context.Context, c Change) error
}

// Nop discards every change.
type Nop struct{}

func (Nop) Notify(context.Context, Change) {}
