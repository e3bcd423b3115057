// Package money holds every point-to-currency and interest computation.
//
// Balances are decimal.Decimal so that payday interest and cash-out values are
// exact; nothing outside this package multiplies by an exchange or interest rate.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNegativeRate = errors.New("rate must not be negative")

var hundred = decimal.NewFromInt(100)

// ToCurrency converts a point count into currency at the given exchange rate
// (currency per point).
func ToCurrency(points int, exchangeRate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(points)).Mul(exchangeRate)
}

// Points returns a point count as a decimal in point units. It exists so the
// save path can add points to a savings balance without converting them.
func Points(points int) decimal.Decimal {
	return decimal.NewFromInt(int64(points))
}

// Interest returns balance × ratePercent / 100.
func Interest(balance, ratePercent decimal.Decimal) decimal.Decimal {
	return balance.Mul(ratePercent).Div(hundred)
}

// Format renders an amount with two decimal places, e.g. "50.00".
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// ParseRate parses a non-negative rate such as "0.5" or "5".
func ParseRate(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeRate
	}
	return d, nil
}
