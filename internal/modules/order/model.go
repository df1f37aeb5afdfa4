package order

import (
	"time"

	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/google/uuid"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusDraft               Status = "draft"
	StatusPending             Status = "pending"
	StatusApproved            Status = "approved"
	StatusInTransitIntl       Status = "in_transit_intl"
	StatusArrivedAtHub        Status = "arrived_at_hub"
	StatusOutForLocalDelivery Status = "out_for_local_delivery"
	StatusDelivered           Status = "delivered"
	StatusCancelRequested     Status = "cancel_requested"
	StatusCancelled           Status = "cancelled"
)

// Order is a customer's request to buy a set of externally listed items.
// Pricing fields are stamped once at confirmation and never change afterwards.
type Order struct {
	ID                  uuid.UUID    `json:"id"`
	CustomerID          uuid.UUID    `json:"customer_id"`
	Status              Status       `json:"status"`
	Items               []*LineItem  `json:"items"`
	Screenshots         []string     `json:"screenshots"`
	WantsPointsDiscount bool         `json:"wants_points_discount"`
	PointsSpent         int64        `json:"points_spent"`
	DiscountAmount      pricing.IQD  `json:"discount_amount"`
	PointsToEarn        int64        `json:"points_to_earn"`
	PointsCredited      bool         `json:"points_credited"`
	TotalPayable        pricing.IQD  `json:"total_payable"`
	ActualCost          *pricing.USD `json:"actual_cost,omitempty"`
	CancelReason        string       `json:"cancel_reason,omitempty"`
	TrackingNote        string       `json:"tracking_note,omitempty"`
	ConfirmedAt         *time.Time   `json:"confirmed_at,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// LineItem is one externally listed product the customer wants bought.
type LineItem struct {
	ID          uuid.UUID   `json:"id"`
	OrderID     uuid.UUID   `json:"order_id"`
	Position    int         `json:"position"`
	ExternalRef string      `json:"external_ref"`
	UnitPrice   pricing.USD `json:"unit_price"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ItemInput is a line item as submitted by the customer.
type ItemInput struct {
	ExternalRef string      `json:"external_ref"`
	UnitPrice   pricing.USD `json:"unit_price"`
}

// DraftRequest is the payload for creating or re-editing a draft. Items replace
// the previous set entirely; screenshots are appended.
type DraftRequest struct {
	Items               []ItemInput `json:"items"`
	WantsPointsDiscount bool        `json:"wants_points_discount"`
	Screenshots         []string    `json:"screenshots,omitempty"`
}

// PointsPreferenceRequest toggles the use of points on a draft.
type PointsPreferenceRequest struct {
	UsePoints bool `json:"use_points"`
}

// ScreenshotsRequest appends blob references to a draft.
type ScreenshotsRequest struct {
	Screenshots []string `json:"screenshots"`
}

// CancelRequest is the customer's cancellation request.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// AdvanceRequest moves an order forward along the fulfillment pipeline.
type AdvanceRequest struct {
	Status       string `json:"status"`
	TrackingNote string `json:"tracking_note,omitempty"`
}

// StaffFieldsRequest updates staff-only bookkeeping fields. Nil fields are left as is.
type StaffFieldsRequest struct {
	ActualCost   *pricing.USD `json:"actual_cost,omitempty"`
	TrackingNote *string      `json:"tracking_note,omitempty"`
}
