package order

import (
	"context"

	"github.com/georgemunganga/dalin-backend/internal/modules/ledger"
	"github.com/google/uuid"
)

// Repository defines the interface for order data persistence.
type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// ListOrdersByCustomer returns the customer's orders newest first, either
	// drafts only or submitted orders only.
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, drafts bool) ([]*Order, error)
	// ListOrders returns submitted orders, optionally filtered by status.
	ListOrders(ctx context.Context, status Status) ([]*Order, error)
	// WithinTx runs fn in one transaction; any error rolls everything back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is a transaction-scoped view of orders and point balances, so an order
// write and its ledger movement commit together.
type Tx interface {
	ledger.Store

	// LockOrder loads the order with its items and holds it until the
	// transaction ends.
	LockOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	SaveOrder(ctx context.Context, o *Order) error
	ReplaceItems(ctx context.Context, orderID uuid.UUID, items []*LineItem) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}
