package report

import (
	"time"

	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/google/uuid"
)

// OrderRow is the per-order slice of data the dashboard aggregates.
type OrderRow struct {
	ID             uuid.UUID
	CustomerID     uuid.UUID
	CustomerEmail  string
	Status         string
	TotalPayable   pricing.IQD
	ActualCost     *pricing.USD
	FirstItemPrice *pricing.USD
	CreatedAt      time.Time
}

// Counts groups orders by where they are in fulfillment.
type Counts struct {
	Draft           int `json:"draft"`
	Pending         int `json:"pending"`
	Active          int `json:"active"`
	Delivered       int `json:"delivered"`
	CancelRequested int `json:"cancel_requested"`
	Cancelled       int `json:"cancelled"`
}

type CustomerSpend struct {
	CustomerID uuid.UUID   `json:"customer_id"`
	Email      string      `json:"email"`
	TotalSpent pricing.IQD `json:"total_spent"`
}

type RecentOrder struct {
	ID           uuid.UUID   `json:"id"`
	CustomerID   uuid.UUID   `json:"customer_id"`
	Status       string      `json:"status"`
	TotalPayable pricing.IQD `json:"total_payable"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Dashboard is the staff overview.
type Dashboard struct {
	Revenue         pricing.IQD     `json:"revenue"`
	RealCost        pricing.IQD     `json:"real_cost"`
	NetProfit       pricing.IQD     `json:"net_profit"`
	Counts          Counts          `json:"counts"`
	TopCustomers    []CustomerSpend `json:"top_customers"`
	RecentOrders    []RecentOrder   `json:"recent_orders"`
	PointsLiability int64           `json:"points_liability"`
	GeneratedAt     time.Time       `json:"generated_at"`
}
