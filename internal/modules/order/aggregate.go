package order

import (
	"net/url"
	"strings"
	"time"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/google/uuid"
)

// NewDraft builds a draft order for customerID. Items are validated by the caller
// through NewLineItems.
func NewDraft(customerID uuid.UUID, items []*LineItem, wantsPoints bool, screenshots []string) *Order {
	now := time.Now().UTC()
	o := &Order{
		ID:                  uuid.New(),
		CustomerID:          customerID,
		Status:              StatusDraft,
		WantsPointsDiscount: wantsPoints,
		Screenshots:         []string{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	o.setItems(items)
	o.Screenshots = append(o.Screenshots, screenshots...)
	return o
}

// NewLineItems validates customer input and turns it into line items in the
// submitted order.
func NewLineItems(inputs []ItemInput) ([]*LineItem, error) {
	if len(inputs) == 0 {
		return nil, errs.New(errs.KindEmptyOrder, "an order needs at least one item")
	}
	items := make([]*LineItem, 0, len(inputs))
	now := time.Now().UTC()
	for i, in := range inputs {
		ref := strings.TrimSpace(in.ExternalRef)
		if !looksLikeURL(ref) {
			return nil, errs.New(errs.KindInvalidInput, "item %d: external_ref must be an http(s) link", i+1)
		}
		if err := pricing.ValidatePrice(in.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, &LineItem{
			ID:          uuid.New(),
			Position:    i,
			ExternalRef: ref,
			UnitPrice:   in.UnitPrice,
			CreatedAt:   now,
		})
	}
	return items, nil
}

func looksLikeURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Prices returns the unit prices of the items in order.
func (o *Order) Prices() []pricing.USD {
	prices := make([]pricing.USD, len(o.Items))
	for i, it := range o.Items {
		prices[i] = it.UnitPrice
	}
	return prices
}

// ReplaceItems swaps the whole item set of a draft.
func (o *Order) ReplaceItems(items []*LineItem) error {
	if err := o.requireDraft("edit items"); err != nil {
		return err
	}
	o.setItems(items)
	o.touch()
	return nil
}

// AttachScreenshots appends blob references to a draft.
func (o *Order) AttachScreenshots(refs []string) error {
	if err := o.requireDraft("attach screenshots"); err != nil {
		return err
	}
	for _, ref := range refs {
		if ref = strings.TrimSpace(ref); ref != "" {
			o.Screenshots = append(o.Screenshots, ref)
		}
	}
	o.touch()
	return nil
}

// SetPointsPreference toggles whether confirmation spends points.
func (o *Order) SetPointsPreference(use bool) error {
	if err := o.requireDraft("change points preference"); err != nil {
		return err
	}
	o.WantsPointsDiscount = use
	o.touch()
	return nil
}

// Confirm stamps the quote onto the order and submits it.
func (o *Order) Confirm(q pricing.Quote) error {
	if err := o.Can(StatusPending); err != nil {
		return err
	}
	now := time.Now().UTC()
	o.PointsSpent = q.PointsSpent
	o.DiscountAmount = q.DiscountAmount
	o.TotalPayable = q.FinalPrice
	o.PointsToEarn = q.PointsToEarn
	o.ConfirmedAt = &now
	o.Status = StatusPending
	o.touch()
	return nil
}

// Advance moves the order forward to a fulfillment stage. A non-empty note
// replaces the tracking note.
func (o *Order) Advance(to Status, note string) error {
	if !stages[to] {
		return errs.New(errs.KindInvalidInput, "%q is not a fulfillment stage", to)
	}
	if err := o.Can(to); err != nil {
		return err
	}
	o.Status = to
	if note = strings.TrimSpace(note); note != "" {
		o.TrackingNote = note
	}
	o.touch()
	return nil
}

// RequestCancel records the customer's reason. Only pending orders qualify.
func (o *Order) RequestCancel(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.New(errs.KindInvalidInput, "a cancellation reason is required")
	}
	if err := o.Can(StatusCancelRequested); err != nil {
		return err
	}
	o.Status = StatusCancelRequested
	o.CancelReason = reason
	o.touch()
	return nil
}

// ApproveCancel closes a cancellation request.
func (o *Order) ApproveCancel() error {
	if err := o.Can(StatusCancelled); err != nil {
		return err
	}
	o.Status = StatusCancelled
	o.touch()
	return nil
}

// Deliver marks the order delivered. Crediting earned points is separate.
func (o *Order) Deliver() error {
	if err := o.Can(StatusDelivered); err != nil {
		return err
	}
	o.Status = StatusDelivered
	o.touch()
	return nil
}

// MarkPointsCredited flips the one-shot credit flag.
func (o *Order) MarkPointsCredited() error {
	if o.Status != StatusDelivered {
		return errs.New(errs.KindIllegalTransition, "points are credited on delivery, order is %s", o.Status)
	}
	if o.PointsCredited {
		return errs.New(errs.KindAlreadyCredited, "points for order %s were already credited", o.ID)
	}
	o.PointsCredited = true
	o.touch()
	return nil
}

// SetStaffFields updates bookkeeping fields on a submitted order.
func (o *Order) SetStaffFields(actualCost *pricing.USD, note *string) error {
	if o.Status == StatusDraft {
		return errs.New(errs.KindIllegalTransition, "draft orders have no fulfillment details")
	}
	if actualCost != nil {
		if actualCost.IsNegative() {
			return errs.New(errs.KindInvalidInput, "actual_cost must not be negative")
		}
		if actualCost.Exceeds(pricing.MaxUSD) {
			return errs.New(errs.KindInvalidInput, "actual_cost must not exceed %s", pricing.MaxUSD)
		}
		c := *actualCost
		o.ActualCost = &c
	}
	if note != nil {
		o.TrackingNote = strings.TrimSpace(*note)
	}
	o.touch()
	return nil
}

// Can reports whether the order may move to next.
func (o *Order) Can(next Status) error {
	if !CanTransition(o.Status, next) {
		return errs.New(errs.KindIllegalTransition, "cannot move order from %s to %s", o.Status, next)
	}
	return nil
}

func (o *Order) requireDraft(action string) error {
	if o.Status != StatusDraft {
		return errs.New(errs.KindIllegalTransition, "cannot %s on a %s order", action, o.Status)
	}
	return nil
}

func (o *Order) setItems(items []*LineItem) {
	for i, it := range items {
		it.OrderID = o.ID
		it.Position = i
	}
	o.Items = items
}

func (o *Order) touch() { o.UpdatedAt = time.Now().UTC() }
