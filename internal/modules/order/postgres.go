package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/georgemunganga/dalin-backend/internal/modules/ledger"
	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, customer_id, status, screenshots, wants_points_discount,
	points_spent, discount_amount, points_to_earn, points_credited, total_payable,
	actual_cost_usd, cancel_reason, tracking_note, confirmed_at, created_at, updated_at`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		o.ID, o.CustomerID, o.Status, pq.Array(o.Screenshots), o.WantsPointsDiscount,
		o.PointsSpent, o.DiscountAmount, o.PointsToEarn, o.PointsCredited, o.TotalPayable,
		o.ActualCost, nullString(o.CancelReason), nullString(o.TrackingNote), o.ConfirmedAt,
		o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if err := insertItems(ctx, tx, o.ID, o.Items); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	o.Items, err = listItems(ctx, r.db, o.ID)
	return o, err
}

func (r *postgresRepo) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, drafts bool) ([]*Order, error) {
	cmp := "<>"
	if drafts {
		cmp = "="
	}
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE customer_id=$1 AND status `+cmp+` 'draft'
		ORDER BY created_at DESC`, customerID)
}

func (r *postgresRepo) ListOrders(ctx context.Context, status Status) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status <> 'draft'`
	args := []interface{}{}
	if status != "" {
		query += ` AND status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, args...)
}

func (r *postgresRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(ctx, &pgTx{TxStore: ledger.NewTxStore(tx), tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// pgTx locks orders with SELECT ... FOR UPDATE and reuses the ledger's
// statements for balances.
type pgTx struct {
	*ledger.TxStore
	tx *sql.Tx
}

func (t *pgTx) LockOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(t.tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	o.Items, err = listItems(ctx, t.tx, o.ID)
	return o, err
}

func (t *pgTx) SaveOrder(ctx context.Context, o *Order) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE orders SET
		  status=$1, screenshots=$2, wants_points_discount=$3, points_spent=$4,
		  discount_amount=$5, points_to_earn=$6, points_credited=$7, total_payable=$8,
		  actual_cost_usd=$9, cancel_reason=$10, tracking_note=$11, confirmed_at=$12, updated_at=$13
		WHERE id=$14`,
		o.Status, pq.Array(o.Screenshots), o.WantsPointsDiscount, o.PointsSpent,
		o.DiscountAmount, o.PointsToEarn, o.PointsCredited, o.TotalPayable,
		o.ActualCost, nullString(o.CancelReason), nullString(o.TrackingNote), o.ConfirmedAt, o.UpdatedAt,
		o.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

func (t *pgTx) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []*LineItem) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id=$1`, orderID); err != nil {
		return fmt.Errorf("clear order_items: %w", err)
	}
	return insertItems(ctx, t.tx, orderID, items)
}

func (t *pgTx) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM orders WHERE id=$1`, id)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func insertItems(ctx context.Context, q queryer, orderID uuid.UUID, items []*LineItem) error {
	for _, item := range items {
		_, err := q.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, position, external_ref, unit_price_usd, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			item.ID, orderID, item.Position, item.ExternalRef, item.UnitPrice, item.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}
	return nil
}

func listItems(ctx context.Context, q queryer, orderID uuid.UUID) ([]*LineItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, order_id, position, external_ref, unit_price_usd, created_at
		FROM order_items WHERE order_id=$1 ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*LineItem
	for rows.Next() {
		it := &LineItem{}
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Position, &it.ExternalRef,
			&it.UnitPrice, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.Items, err = listItems(ctx, r.db, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row scanner) (*Order, error) {
	o := &Order{}
	var screenshots pq.StringArray
	var actualCost sql.NullString
	var cancelReason, trackingNote sql.NullString
	var confirmedAt sql.NullTime
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Status, &screenshots, &o.WantsPointsDiscount,
		&o.PointsSpent, &o.DiscountAmount, &o.PointsToEarn, &o.PointsCredited, &o.TotalPayable,
		&actualCost, &cancelReason, &trackingNote, &confirmedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.KindNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}

	o.Screenshots = []string(screenshots)
	if o.Screenshots == nil {
		o.Screenshots = []string{}
	}
	if actualCost.Valid {
		c, err := pricing.USDFromString(actualCost.String)
		if err != nil {
			return nil, fmt.Errorf("scan actual cost: %w", err)
		}
		o.ActualCost = &c
	}
	o.CancelReason, o.TrackingNote = cancelReason.String, trackingNote.String
	if confirmedAt.Valid {
		t := confirmedAt.Time
		o.ConfirmedAt = &t
	}
	return o, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
