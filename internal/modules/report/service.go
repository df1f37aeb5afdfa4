package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Service defines the dashboard read model.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type service struct {
	repo     Repository
	realRate decimal.Decimal
}

// NewService creates a dashboard service costing purchases at realRate IQD per USD.
func NewService(repo Repository, realRate decimal.Decimal) Service {
	return &service{repo: repo, realRate: realRate}
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	rows, err := s.repo.ListOrderRows(ctx)
	if err != nil {
		return nil, err
	}
	liability, err := s.repo.PointsLiability(ctx)
	if err != nil {
		return nil, err
	}
	d := Build(rows, liability, s.realRate, time.Now().UTC())
	return &d, nil
}
