// Package report builds the read-only staff dashboard from committed orders.
package report

import (
	"sort"
	"time"

	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const listSize = 5

// excluded from revenue and cost
var notEarning = map[string]bool{
	"draft":            true,
	"cancel_requested": true,
	"cancelled":        true,
}

// Build aggregates rows into a Dashboard. realRate converts dollar costs into
// dinars; an order's cost is its actual cost when staff recorded one, otherwise
// the price of its first item.
func Build(rows []OrderRow, pointsLiability int64, realRate decimal.Decimal, now time.Time) Dashboard {
	d := Dashboard{
		Revenue:         pricing.IQDFromInt(0),
		RealCost:        pricing.IQDFromInt(0),
		TopCustomers:    []CustomerSpend{},
		RecentOrders:    []RecentOrder{},
		PointsLiability: pointsLiability,
		GeneratedAt:     now,
	}

	spend := make(map[uuid.UUID]*CustomerSpend)
	var recent []OrderRow

	for _, row := range rows {
		countStatus(&d.Counts, row.Status)
		if row.Status != "draft" {
			recent = append(recent, row)
		}
		if row.Status == "delivered" {
			cs, ok := spend[row.CustomerID]
			if !ok {
				cs = &CustomerSpend{CustomerID: row.CustomerID, Email: row.CustomerEmail, TotalSpent: pricing.IQDFromInt(0)}
				spend[row.CustomerID] = cs
			}
			cs.TotalSpent = cs.TotalSpent.Add(row.TotalPayable)
		}
		if notEarning[row.Status] {
			continue
		}
		d.Revenue = d.Revenue.Add(row.TotalPayable)
		// an actual cost of zero counts as not entered
		if cost := row.ActualCost; cost != nil && !cost.IsZero() {
			d.RealCost = d.RealCost.Add(toIQD(*cost, realRate))
		} else if first := row.FirstItemPrice; first != nil {
			d.RealCost = d.RealCost.Add(toIQD(*first, realRate))
		}
	}
	d.NetProfit = d.Revenue.Sub(d.RealCost)

	for _, cs := range spend {
		d.TopCustomers = append(d.TopCustomers, *cs)
	}
	sort.Slice(d.TopCustomers, func(i, j int) bool {
		if c := d.TopCustomers[i].TotalSpent.Cmp(d.TopCustomers[j].TotalSpent); c != 0 {
			return c > 0
		}
		return d.TopCustomers[i].Email < d.TopCustomers[j].Email
	})
	if len(d.TopCustomers) > listSize {
		d.TopCustomers = d.TopCustomers[:listSize]
	}

	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	for i, row := range recent {
		if i == listSize {
			break
		}
		d.RecentOrders = append(d.RecentOrders, RecentOrder{
			ID:           row.ID,
			CustomerID:   row.CustomerID,
			Status:       row.Status,
			TotalPayable: row.TotalPayable,
			CreatedAt:    row.CreatedAt,
		})
	}
	return d
}

func countStatus(c *Counts, status string) {
	switch status {
	case "draft":
		c.Draft++
	case "pending":
		c.Pending++
	case "approved", "in_transit_intl", "arrived_at_hub", "out_for_local_delivery":
		c.Active++
	case "delivered":
		c.Delivered++
	case "cancel_requested":
		c.CancelRequested++
	case "cancelled":
		c.Cancelled++
	}
}

func toIQD(amount pricing.USD, rate decimal.Decimal) pricing.IQD {
	return pricing.NewIQD(amount.Decimal().Mul(rate).Round(0))
}
