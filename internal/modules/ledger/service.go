package ledger

import (
	"context"
	"strings"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service exposes staff corrections and journal reads.
type Service interface {
	Adjust(ctx context.Context, profileID string, req AdjustRequest) (*Entry, error)
	History(ctx context.Context, profileID string) ([]*Entry, error)
}

type service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a new ledger service.
func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Adjust(ctx context.Context, profileID string, req AdjustRequest) (*Entry, error) {
	pid, err := uuid.Parse(profileID)
	if err != nil {
		return nil, errs.New(errs.KindNotFound, "profile %q not found", profileID)
	}
	var orderID *uuid.UUID
	if req.OrderID != "" {
		oid, err := uuid.Parse(req.OrderID)
		if err != nil {
			return nil, errs.New(errs.KindInvalidInput, "order_id %q is not a valid id", req.OrderID)
		}
		orderID = &oid
	}

	var entry *Entry
	err = s.repo.WithinTx(ctx, func(ctx context.Context, st Store) error {
		var err error
		entry, err = Adjust(ctx, st, pid, req.Delta, orderID, strings.TrimSpace(req.Reason))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("points adjusted",
		zap.String("profile_id", pid.String()),
		zap.Int64("delta", entry.Delta),
		zap.Int64("balance_after", entry.BalanceAfter),
		zap.String("reason", entry.Reason))
	return entry, nil
}

func (s *service) History(ctx context.Context, profileID string) ([]*Entry, error) {
	pid, err := uuid.Parse(profileID)
	if err != nil {
		return nil, errs.New(errs.KindNotFound, "profile %q not found", profileID)
	}
	return s.repo.ListEntries(ctx, pid)
}
