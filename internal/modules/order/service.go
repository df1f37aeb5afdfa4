package order

import (
	"context"
	"time"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/georgemunganga/dalin-backend/internal/modules/ledger"
	"github.com/georgemunganga/dalin-backend/internal/modules/notify"
	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/georgemunganga/dalin-backend/internal/modules/profile"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the order management business logic. Customer operations take
// the caller's id and treat orders owned by someone else as not found.
type Service interface {
	// CreateDraft stores a new editable order for the caller.
	CreateDraft(ctx context.Context, caller uuid.UUID, req DraftRequest) (*Order, error)

	// EditDraft replaces a draft's items and points preference and appends screenshots.
	EditDraft(ctx context.Context, caller uuid.UUID, id string, req DraftRequest) (*Order, error)

	SetPointsPreference(ctx context.Context, caller uuid.UUID, id string, use bool) (*Order, error)
	AttachScreenshots(ctx context.Context, caller uuid.UUID, id string, refs []string) (*Order, error)

	// DiscardDraft deletes a draft that was never submitted.
	DiscardDraft(ctx context.Context, caller uuid.UUID, id string) error

	// Quote previews the price of a draft against the caller's current balance.
	Quote(ctx context.Context, caller uuid.UUID, id string) (*pricing.Quote, error)

	// Confirm prices the draft, debits any points spent and submits it, atomically.
	Confirm(ctx context.Context, caller uuid.UUID, id string) (*Order, error)

	RequestCancel(ctx context.Context, caller uuid.UUID, id string, req CancelRequest) (*Order, error)
	GetOrder(ctx context.Context, caller uuid.UUID, id string) (*Order, error)
	ListCustomerOrders(ctx context.Context, caller uuid.UUID) ([]*Order, error)
	ListCustomerDrafts(ctx context.Context, caller uuid.UUID) ([]*Order, error)

	// Staff operations.
	GetAnyOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, status string) ([]*Order, error)
	Advance(ctx context.Context, id string, req AdvanceRequest) (*Order, error)

	// Deliver marks the order delivered and credits earned points exactly once.
	Deliver(ctx context.Context, id string) (*Order, error)

	ApproveCancel(ctx context.Context, id string) (*Order, error)
	UpdateStaffFields(ctx context.Context, id string, req StaffFieldsRequest) (*Order, error)
}

// ProfileReader is the slice of the profile repository confirmation needs.
type ProfileReader interface {
	GetProfileByID(ctx context.Context, id string) (*profile.Profile, error)
}

type service struct {
	repo     Repository
	profiles ProfileReader
	rates    pricing.RateSource
	notifier notify.Notifier
	log      *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, profiles ProfileReader, rates pricing.RateSource, notifier notify.Notifier, log *zap.Logger) Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &service{repo: repo, profiles: profiles, rates: rates, notifier: notifier, log: log}
}

func (s *service) CreateDraft(ctx context.Context, caller uuid.UUID, req DraftRequest) (*Order, error) {
	items, err := NewLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	o := NewDraft(caller, items, req.WantsPointsDiscount, nil)
	if err := o.AttachScreenshots(req.Screenshots); err != nil {
		return nil, err
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info("draft created", zap.String("order_id", o.ID.String()), zap.Int("items", len(o.Items)))
	return o, nil
}

func (s *service) EditDraft(ctx context.Context, caller uuid.UUID, id string, req DraftRequest) (*Order, error) {
	items, err := NewLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	return s.mutateOwned(ctx, caller, id, func(ctx context.Context, tx Tx, o *Order) error {
		if err := o.ReplaceItems(items); err != nil {
			return err
		}
		if err := o.SetPointsPreference(req.WantsPointsDiscount); err != nil {
			return err
		}
		if err := o.AttachScreenshots(req.Screenshots); err != nil {
			return err
		}
		return tx.ReplaceItems(ctx, o.ID, o.Items)
	})
}

func (s *service) SetPointsPreference(ctx context.Context, caller uuid.UUID, id string, use bool) (*Order, error) {
	return s.mutateOwned(ctx, caller, id, func(_ context.Context, _ Tx, o *Order) error {
		return o.SetPointsPreference(use)
	})
}

func (s *service) AttachScreenshots(ctx context.Context, caller uuid.UUID, id string, refs []string) (*Order, error) {
	return s.mutateOwned(ctx, caller, id, func(_ context.Context, _ Tx, o *Order) error {
		return o.AttachScreenshots(refs)
	})
}

func (s *service) DiscardDraft(ctx context.Context, caller uuid.UUID, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		o, err := lockOwned(ctx, tx, caller, oid)
		if err != nil {
			return err
		}
		if err := o.requireDraft("discard"); err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, o.ID)
	})
}

func (s *service) Quote(ctx context.Context, caller uuid.UUID, id string) (*pricing.Quote, error) {
	o, err := s.GetOrder(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := o.requireDraft("quote"); err != nil {
		return nil, err
	}
	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return nil, err
	}
	var available int64
	if o.WantsPointsDiscount {
		p, err := s.profiles.GetProfileByID(ctx, caller.String())
		if err != nil {
			return nil, err
		}
		available = p.PointsBalance
	}
	q, err := pricing.Compute(o.Prices(), available, o.WantsPointsDiscount, rates)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *service) Confirm(ctx context.Context, caller uuid.UUID, id string) (*Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.GetProfileByID(ctx, caller.String())
	if err != nil {
		return nil, err
	}
	if !p.HasDeliveryDetails() {
		return nil, errs.New(errs.KindInvalidInput, "add a phone number, city and address before confirming")
	}
	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return nil, err
	}

	var confirmed *Order
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		o, err := lockOwned(ctx, tx, caller, oid)
		if err != nil {
			return err
		}
		if err := o.Can(StatusPending); err != nil {
			return err
		}

		var available int64
		if o.WantsPointsDiscount {
			if available, err = tx.LockBalance(ctx, o.CustomerID); err != nil {
				return err
			}
		}
		q, err := pricing.Compute(o.Prices(), available, o.WantsPointsDiscount, rates)
		if err != nil {
			return err
		}
		if q.PointsSpent > 0 {
			if _, err := ledger.Debit(ctx, tx, o.CustomerID, q.PointsSpent, &o.ID, "order discount"); err != nil {
				return err
			}
		}
		if err := o.Confirm(q); err != nil {
			return err
		}
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}
		confirmed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order confirmed",
		zap.String("order_id", confirmed.ID.String()),
		zap.String("total_payable", confirmed.TotalPayable.String()),
		zap.Int64("points_spent", confirmed.PointsSpent))
	s.publish(ctx, confirmed, StatusDraft)
	return confirmed, nil
}

func (s *service) RequestCancel(ctx context.Context, caller uuid.UUID, id string, req CancelRequest) (*Order, error) {
	return s.transitionOwned(ctx, caller, id, func(o *Order) error {
		return o.RequestCancel(req.Reason)
	})
}

func (s *service) GetOrder(ctx context.Context, caller uuid.UUID, id string) (*Order, error) {
	o, err := s.GetAnyOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != caller {
		return nil, notFound(id)
	}
	return o, nil
}

func (s *service) ListCustomerOrders(ctx context.Context, caller uuid.UUID) ([]*Order, error) {
	return s.repo.ListOrdersByCustomer(ctx, caller, false)
}

func (s *service) ListCustomerDrafts(ctx context.Context, caller uuid.UUID) ([]*Order, error) {
	return s.repo.ListOrdersByCustomer(ctx, caller, true)
}

func (s *service) GetAnyOrder(ctx context.Context, id string) (*Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, oid)
}

func (s *service) ListOrders(ctx context.Context, status string) ([]*Order, error) {
	st := Status(status)
	if st != "" && !st.Valid() {
		return nil, errs.New(errs.KindInvalidInput, "unknown status %q", status)
	}
	return s.repo.ListOrders(ctx, st)
}

func (s *service) Advance(ctx context.Context, id string, req AdvanceRequest) (*Order, error) {
	return s.transitionAny(ctx, id, func(_ context.Context, _ Tx, o *Order) error {
		return o.Advance(Status(req.Status), req.TrackingNote)
	})
}

func (s *service) Deliver(ctx context.Context, id string) (*Order, error) {
	return s.transitionAny(ctx, id, func(ctx context.Context, tx Tx, o *Order) error {
		if err := o.Deliver(); err != nil {
			return err
		}
		if o.PointsCredited {
			return nil
		}
		if o.PointsToEarn > 0 {
			if _, err := ledger.Credit(ctx, tx, o.CustomerID, o.PointsToEarn, &o.ID, "order delivered"); err != nil {
				return err
			}
		}
		return o.MarkPointsCredited()
	})
}

func (s *service) ApproveCancel(ctx context.Context, id string) (*Order, error) {
	return s.transitionAny(ctx, id, func(_ context.Context, _ Tx, o *Order) error {
		return o.ApproveCancel()
	})
}

func (s *service) UpdateStaffFields(ctx context.Context, id string, req StaffFieldsRequest) (*Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var updated *Order
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		o, err := tx.LockOrder(ctx, oid)
		if err != nil {
			return err
		}
		if err := o.SetStaffFields(req.ActualCost, req.TrackingNote); err != nil {
			return err
		}
		updated = o
		return tx.SaveOrder(ctx, o)
	})
	return updated, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

// mutateOwned applies a draft edit that does not change status.
func (s *service) mutateOwned(ctx context.Context, caller uuid.UUID, id string, fn func(ctx context.Context, tx Tx, o *Order) error) (*Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var updated *Order
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		o, err := lockOwned(ctx, tx, caller, oid)
		if err != nil {
			return err
		}
		if err := fn(ctx, tx, o); err != nil {
			return err
		}
		updated = o
		return tx.SaveOrder(ctx, o)
	})
	return updated, err
}

func (s *service) transitionOwned(ctx context.Context, caller uuid.UUID, id string, fn func(o *Order) error) (*Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, oid, func(ctx context.Context, tx Tx) (*Order, error) {
		return lockOwned(ctx, tx, caller, oid)
	}, func(_ context.Context, _ Tx, o *Order) error { return fn(o) })
}

func (s *service) transitionAny(ctx context.Context, id string, fn func(ctx context.Context, tx Tx, o *Order) error) (*Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, oid, func(ctx context.Context, tx Tx) (*Order, error) {
		return tx.LockOrder(ctx, oid)
	}, fn)
}

// transition locks the order, applies fn, saves, and publishes the status change
// once the transaction has committed.
func (s *service) transition(ctx context.Context, oid uuid.UUID,
	load func(ctx context.Context, tx Tx) (*Order, error),
	fn func(ctx context.Context, tx Tx, o *Order) error,
) (*Order, error) {
	var (
		updated *Order
		old     Status
	)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		o, err := load(ctx, tx)
		if err != nil {
			return err
		}
		old = o.Status
		if err := fn(ctx, tx, o); err != nil {
			return err
		}
		updated = o
		return tx.SaveOrder(ctx, o)
	})
	if err != nil {
		s.log.Debug("order transition rejected", zap.String("order_id", oid.String()), zap.Error(err))
		return nil, err
	}

	s.log.Info("order status changed",
		zap.String("order_id", updated.ID.String()),
		zap.String("from", string(old)),
		zap.String("to", string(updated.Status)))
	s.publish(ctx, updated, old)
	return updated, nil
}

func (s *service) publish(ctx context.Context, o *Order, old Status) {
	if old == o.Status {
		return
	}
	s.notifier.Notify(ctx, notify.Change{
		OrderID:      o.ID,
		CustomerID:   o.CustomerID,
		OldStatus:    string(old),
		NewStatus:    string(o.Status),
		TrackingNote: o.TrackingNote,
		OccurredAt:   time.Now().UTC(),
	})
}

func lockOwned(ctx context.Context, tx Tx, caller, id uuid.UUID) (*Order, error) {
	o, err := tx.LockOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != caller {
		return nil, notFound(id.String())
	}
	return o, nil
}

func parseID(id string) (uuid.UUID, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, notFound(id)
	}
	return oid, nil
}

func notFound(id string) error {
	return errs.New(errs.KindNotFound, "order %s not found", id)
}
