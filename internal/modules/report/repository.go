package report

import "context"

// Repository reads the raw figures behind the dashboard.
type Repository interface {
	ListOrderRows(ctx context.Context) ([]OrderRow, error)
	PointsLiability(ctx context.Context) (int64, error)
}
