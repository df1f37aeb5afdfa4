// Package pricing converts dollar line-item prices into dinar amounts and works
// out the loyalty-points discount and earnings. Every function here is pure.
package pricing

import (
	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/shopspring/decimal"
)

// Breakdown is the pre-discount pricing of a set of line items.
type Breakdown struct {
	ItemsTotal            USD `json:"items_total"`
	MarketTotal           IQD `json:"market_total"`
	ServiceTotal          IQD `json:"service_total"`
	ShippingFee           IQD `json:"shipping_fee"`
	PayableBeforeDiscount IQD `json:"payable_before_discount"`
}

// Discount is the outcome of spending points against a payable amount.
type Discount struct {
	PointsSpent    int64 `json:"points_spent"`
	DiscountAmount IQD   `json:"discount_amount"`
	FinalPrice     IQD   `json:"final_price"`
}

// Quote is the full pricing of an order as it would be stamped at confirmation.
type Quote struct {
	Breakdown
	Discount
	PointsToEarn int64 `json:"points_to_earn"`
}

// ValidatePrice checks a single unit price: positive, at most MaxUSD, with at
// most two decimals.
func ValidatePrice(p USD) error {
	if !p.IsPositive() {
		return errs.New(errs.KindInvalidPrice, "price must be greater than zero, got %s", p.Decimal())
	}
	if p.Exceeds(MaxUSD) {
		return errs.New(errs.KindInvalidPrice, "price %s exceeds the maximum of %s", p.Decimal(), MaxUSD)
	}
	if !p.HasCents() {
		return errs.New(errs.KindInvalidPrice, "price %s has more than two decimal places", p.Decimal())
	}
	return nil
}

// ValidatePrices checks a full line-item price list.
func ValidatePrices(prices []USD) error {
	if len(prices) == 0 {
		return errs.New(errs.KindEmptyOrder, "order must contain at least one item")
	}
	for _, p := range prices {
		if err := ValidatePrice(p); err != nil {
			return err
		}
	}
	return nil
}

// Price sums the dollar prices and converts the total at both rates.
// payableBeforeDiscount is the service total plus the shipping fee.
func Price(prices []USD, marketRate, serviceRate decimal.Decimal, shippingFee IQD) (Breakdown, error) {
	if err := ValidatePrices(prices); err != nil {
		return Breakdown{}, err
	}
	total := NewUSD(decimal.Zero)
	for _, p := range prices {
		total = total.Add(p)
	}
	service := convert(total, serviceRate)
	return Breakdown{
		ItemsTotal:            total,
		MarketTotal:           convert(total, marketRate),
		ServiceTotal:          service,
		ShippingFee:           shippingFee,
		PayableBeforeDiscount: service.Add(shippingFee),
	}, nil
}

// ApplyPointsDiscount spends up to availablePoints, capped so the discount never
// exceeds payable: spent = min(available, floor(payable / pointValue)).
func ApplyPointsDiscount(payable IQD, availablePoints int64, pointValue IQD) Discount {
	if availablePoints <= 0 || !pointValue.IsPositive() || !payable.IsPositive() {
		return Discount{DiscountAmount: IQDFromInt(0), FinalPrice: payable}
	}
	spent := availablePoints
	if limit := payable.FloorDiv(pointValue); spent > limit {
		spent = limit
	}
	discount := pointValue.Times(spent)
	return Discount{
		PointsSpent:    spent,
		DiscountAmount: discount,
		FinalPrice:     payable.Sub(discount),
	}
}

// PointsEarned is floor(finalPrice / earnRate), never negative.
func PointsEarned(finalPrice IQD, earnRate IQD) int64 {
	if !earnRate.IsPositive() || !finalPrice.IsPositive() {
		return 0
	}
	return finalPrice.FloorDiv(earnRate)
}

// Compute prices the line items under r. Points are only spent when usePoints is set.
func Compute(prices []USD, availablePoints int64, usePoints bool, r Rates) (Quote, error) {
	b, err := Price(prices, r.MarketRate, r.ServiceRate, r.ShippingFee)
	if err != nil {
		return Quote{}, err
	}
	if !usePoints {
		availablePoints = 0
	}
	d := ApplyPointsDiscount(b.PayableBeforeDiscount, availablePoints, r.PointValue)
	return Quote{
		Breakdown:    b,
		Discount:     d,
		PointsToEarn: PointsEarned(d.FinalPrice, r.PointEarnRate),
	}, nil
}

// convert is the only place dollars become dinars. Results are whole dinars.
func convert(amount USD, rate decimal.Decimal) IQD {
	return IQD{amount: amount.amount.Mul(rate).Round(0)}
}
