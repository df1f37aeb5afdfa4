package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Rates are the externally configured pricing parameters. They are read at
// confirmation time only; an already confirmed order keeps the amounts it was
// stamped with.
type Rates struct {
	MarketRate    decimal.Decimal `json:"market_rate"`  // IQD per USD, shown for comparison only
	ServiceRate   decimal.Decimal `json:"service_rate"` // IQD per USD actually charged
	ShippingFee   IQD             `json:"shipping_fee"`
	PointValue    IQD             `json:"point_value"`     // IQD discount per point spent
	PointEarnRate IQD             `json:"point_earn_rate"` // IQD paid per point earned
}

// Validate rejects non-positive parameters.
func (r Rates) Validate() error {
	if !r.MarketRate.IsPositive() {
		return fmt.Errorf("market rate must be positive, got %s", r.MarketRate)
	}
	if !r.ServiceRate.IsPositive() {
		return fmt.Errorf("service rate must be positive, got %s", r.ServiceRate)
	}
	if !r.ShippingFee.IsPositive() {
		return fmt.Errorf("shipping fee must be positive, got %s", r.ShippingFee)
	}
	if !r.PointValue.IsPositive() {
		return fmt.Errorf("point value must be positive, got %s", r.PointValue)
	}
	if !r.PointEarnRate.IsPositive() {
		return fmt.Errorf("point earn rate must be positive, got %s", r.PointEarnRate)
	}
	return nil
}

// RateSource supplies the rates in force at the moment of the call.
type RateSource interface {
	Rates(ctx context.Context) (Rates, error)
}

// StaticRates is a RateSource backed by a fixed configuration.
type StaticRates Rates

func (s StaticRates) Rates(ctx context.Context) (Rates, error) {
	r := Rates(s)
	if err := r.Validate(); err != nil {
		return Rates{}, err
	}
	return r, nil
}
