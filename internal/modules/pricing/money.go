package pricing

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// USD is an amount in US dollars, the unit customers enter line-item prices in.
type USD struct{ amount decimal.Decimal }

// IQD is an amount in Iraqi dinars, the settlement unit. Values produced by the
// calculator are whole dinars.
type IQD struct{ amount decimal.Decimal }

// MaxUSD is the largest dollar amount a NUMERIC(10,2) column stores.
var MaxUSD = USD{amount: decimal.RequireFromString("99999999.99")}

func NewUSD(d decimal.Decimal) USD { return USD{amount: d} }

// USDFromString parses a dollar amount such as "52.40".
func USDFromString(s string) (USD, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return USD{}, err
	}
	return USD{amount: d}, nil
}

// MustUSD parses s and panics on failure. Intended for constants and tests.
func MustUSD(s string) USD {
	u, err := USDFromString(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u USD) Decimal() decimal.Decimal { return u.amount }
func (u USD) Add(o USD) USD            { return USD{amount: u.amount.Add(o.amount)} }
func (u USD) IsPositive() bool         { return u.amount.IsPositive() }
func (u USD) IsNegative() bool         { return u.amount.IsNegative() }
func (u USD) IsZero() bool             { return u.amount.IsZero() }
func (u USD) Equal(o USD) bool         { return u.amount.Equal(o.amount) }
func (u USD) Exceeds(o USD) bool       { return u.amount.GreaterThan(o.amount) }
func (u USD) String() string           { return u.amount.StringFixed(2) }

// HasCents reports whether u fits two-decimal precision.
func (u USD) HasCents() bool { return u.amount.Equal(u.amount.Round(2)) }

func (u USD) MarshalJSON() ([]byte, error)     { return u.amount.MarshalJSON() }
func (u *USD) UnmarshalJSON(data []byte) error { return u.amount.UnmarshalJSON(data) }
func (u USD) Value() (driver.Value, error)     { return u.amount.Value() }
func (u *USD) Scan(value interface{}) error    { return u.amount.Scan(value) }

func NewIQD(d decimal.Decimal) IQD { return IQD{amount: d} }
func IQDFromInt(v int64) IQD       { return IQD{amount: decimal.NewFromInt(v)} }

// IQDFromString parses a dinar amount such as "5000".
func IQDFromString(s string) (IQD, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return IQD{}, err
	}
	return IQD{amount: d}, nil
}

func (q IQD) Decimal() decimal.Decimal { return q.amount }
func (q IQD) Add(o IQD) IQD            { return IQD{amount: q.amount.Add(o.amount)} }
func (q IQD) Sub(o IQD) IQD            { return IQD{amount: q.amount.Sub(o.amount)} }
func (q IQD) Cmp(o IQD) int            { return q.amount.Cmp(o.amount) }
func (q IQD) Equal(o IQD) bool         { return q.amount.Equal(o.amount) }
func (q IQD) IsPositive() bool         { return q.amount.IsPositive() }
func (q IQD) IsNegative() bool         { return q.amount.IsNegative() }
func (q IQD) IsZero() bool             { return q.amount.IsZero() }
func (q IQD) IntPart() int64           { return q.amount.IntPart() }
func (q IQD) String() string           { return q.amount.StringFixed(0) }

// Times multiplies a per-unit dinar value, e.g. a point value, by a count.
func (q IQD) Times(n int64) IQD { return IQD{amount: q.amount.Mul(decimal.NewFromInt(n))} }

// FloorDiv returns how many whole units of per fit into q. per must be positive.
func (q IQD) FloorDiv(per IQD) int64 { return q.amount.Div(per.amount).Floor().IntPart() }

func (q IQD) MarshalJSON() ([]byte, error)     { return q.amount.MarshalJSON() }
func (q *IQD) UnmarshalJSON(data []byte) error { return q.amount.UnmarshalJSON(data) }
func (q IQD) Value() (driver.Value, error)     { return q.amount.Value() }
func (q *IQD) Scan(value interface{}) error    { return q.amount.Scan(value) }
