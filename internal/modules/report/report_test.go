package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(s string) *pricing.USD {
	v := pricing.MustUSD(s)
	return &v
}

func row(customer uuid.UUID, status string, total int64, ageMinutes int) OrderRow {
	return OrderRow{
		ID:             uuid.New(),
		CustomerID:     customer,
		CustomerEmail:  customer.String()[:8] + "@example.com",
		Status:         status,
		TotalPayable:   pricing.IQDFromInt(total),
		FirstItemPrice: usd("10.00"),
		CreatedAt:      time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC).Add(-time.Duration(ageMinutes) * time.Minute),
	}
}

func TestBuild(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	withCost := row(alice, "delivered", 23000, 1)
	withCost.ActualCost = usd("8.00")

	rows := []OrderRow{
		row(alice, "draft", 0, 0),
		row(alice, "pending", 20000, 2),
		withCost,
		row(bob, "delivered", 30000, 3),
		row(bob, "in_transit_intl", 10000, 4),
		row(bob, "cancelled", 99000, 5),
		row(bob, "cancel_requested", 50000, 6),
	}

	d := Build(rows, 1200, decimal.NewFromInt(1450), time.Now())

	// 20000 + 23000 + 30000 + 10000
	assert.Equal(t, "83000", d.Revenue.String())
	// 8*1450 + 3 * 10*1450
	assert.Equal(t, "55100", d.RealCost.String())
	assert.Equal(t, "27900", d.NetProfit.String())

	assert.Equal(t, Counts{Draft: 1, Pending: 1, Active: 1, Delivered: 2, CancelRequested: 1, Cancelled: 1}, d.Counts)

	require.Len(t, d.TopCustomers, 2)
	assert.Equal(t, bob, d.TopCustomers[0].CustomerID)
	assert.Equal(t, "30000", d.TopCustomers[0].TotalSpent.String())
	assert.Equal(t, "23000", d.TopCustomers[1].TotalSpent.String())

	require.Len(t, d.RecentOrders, 5)
	assert.Equal(t, withCost.ID, d.RecentOrders[0].ID)
	for _, r := range d.RecentOrders {
		assert.NotEqual(t, "draft", r.Status)
	}
	assert.Equal(t, int64(1200), d.PointsLiability)
}

func TestBuild_ZeroActualCostUsesFirstItem(t *testing.T) {
	o := row(uuid.New(), "delivered", 23000, 1)
	o.ActualCost = usd("0")

	d := Build([]OrderRow{o}, 0, decimal.NewFromInt(1450), time.Now())
	// 10.00 * 1450
	assert.Equal(t, "14500", d.RealCost.String())
	assert.Equal(t, "8500", d.NetProfit.String())
}

func TestBuild_Empty(t *testing.T) {
	d := Build(nil, 0, decimal.NewFromInt(1450), time.Now())
	assert.True(t, d.Revenue.IsZero())
	assert.True(t, d.NetProfit.IsZero())
	assert.Empty(t, d.TopCustomers)
	assert.NotNil(t, d.RecentOrders)
}

func TestBuild_TopCustomersCapped(t *testing.T) {
	var rows []OrderRow
	for i := 0; i < 8; i++ {
		rows = append(rows, row(uuid.New(), "delivered", int64(1000*(i+1)), i))
	}
	d := Build(rows, 0, decimal.NewFromInt(1450), time.Now())
	require.Len(t, d.TopCustomers, 5)
	assert.Equal(t, "8000", d.TopCustomers[0].TotalSpent.String())
	assert.Equal(t, "4000", d.TopCustomers[4].TotalSpent.String())
}

type stubRepo struct {
	rows      []OrderRow
	liability int64
	err       error
}

func (s stubRepo) ListOrderRows(context.Context) ([]OrderRow, error) { return s.rows, s.err }
func (s stubRepo) PointsLiability(context.Context) (int64, error)    { return s.liability, nil }

func TestService(t *testing.T) {
	svc := NewService(stubRepo{rows: []OrderRow{row(uuid.New(), "pending", 5000, 0)}, liability: 7}, decimal.NewFromInt(1450))
	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5000", d.Revenue.String())
	assert.Equal(t, int64(7), d.PointsLiability)

	_, err = NewService(stubRepo{err: errors.New("db gone")}, decimal.NewFromInt(1450)).Dashboard(context.Background())
	assert.Error(t, err)
}
