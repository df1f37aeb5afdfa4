package report

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) ListOrderRows(ctx context.Context) ([]OrderRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.customer_id, p.email, o.status, o.total_payable, o.actual_cost_usd,
		       (SELECT i.unit_price_usd FROM order_items i
		        WHERE i.order_id = o.id ORDER BY i.position LIMIT 1),
		       o.created_at
		FROM orders o
		JOIN profiles p ON p.id = o.customer_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRow
	for rows.Next() {
		var row OrderRow
		var actual, first sql.NullString
		if err := rows.Scan(&row.ID, &row.CustomerID, &row.CustomerEmail, &row.Status,
			&row.TotalPayable, &actual, &first, &row.CreatedAt); err != nil {
			return nil, err
		}
		if row.ActualCost, err = nullUSD(actual); err != nil {
			return nil, err
		}
		if row.FirstItemPrice, err = nullUSD(first); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *postgresRepo) PointsLiability(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(points_balance), 0) FROM profiles`).Scan(&total)
	return total, err
}

func nullUSD(s sql.NullString) (*pricing.USD, error) {
	if !s.Valid {
		return nil, nil
	}
	v, err := pricing.USDFromString(s.String)
	if err != nil {
		return nil, fmt.Errorf("scan usd amount: %w", err)
	}
	return &v, nil
}
