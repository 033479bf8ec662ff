package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexatel/portal_api/internal/models"
)

// Proration describes a partial-month subscription charge.
type Proration struct {
	FinalPrice       decimal.Decimal `json:"finalPrice"`
	DaysRemaining    int             `json:"daysRemaining"`
	TotalDaysInMonth int             `json:"totalDaysInMonth"`
}

// PriceForGroup resolves the price a reseller group pays for a product.
// Group 1 and 2 select the discounted columns; any other group value
// falls back to the base price. That fallback is policy, not a fault,
// so there is no error path.
func PriceForGroup(p *models.Product, group int) decimal.Decimal {
	switch group {
	case 1:
		return p.Group1Price
	case 2:
		return p.Group2Price
	default:
		return p.BasePrice
	}
}

// Prorate charges the fraction of the calendar month remaining from ref
// (inclusive) through month end. On the first day of the month the full
// price is charged; on the last day, a single day's fraction. The result
// is rounded to 2 decimal places.
func Prorate(monthly decimal.Decimal, ref time.Time) Proration {
	total := daysInMonth(ref)
	remaining := total - ref.Day() + 1

	final := monthly.
		Mul(decimal.NewFromInt(int64(remaining))).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)

	return Proration{
		FinalPrice:       final,
		DaysRemaining:    remaining,
		TotalDaysInMonth: total,
	}
}

// daysInMonth returns the number of days in ref's month. Day zero of the
// following month normalizes to the last day of this one, which handles
// leap Februaries without a table.
func daysInMonth(ref time.Time) int {
	return time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, ref.Location()).Day()
}
