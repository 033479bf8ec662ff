package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nexatel/portal_api/internal/models"
)

func testProduct() *models.Product {
	return &models.Product{
		ID:          1,
		Name:        "Fiber 100",
		BasePrice:   decimal.NewFromInt(100),
		Group1Price: decimal.NewFromInt(90),
		Group2Price: decimal.NewFromInt(80),
		Status:      models.ProductActive,
		Billing:     models.BillingMonthly,
	}
}

func TestPriceForGroup(t *testing.T) {
	p := testProduct()

	tests := []struct {
		name  string
		group int
		want  decimal.Decimal
	}{
		{"group 0 pays base", 0, decimal.NewFromInt(100)},
		{"group 1 pays tier 1", 1, decimal.NewFromInt(90)},
		{"group 2 pays tier 2", 2, decimal.NewFromInt(80)},
		{"unknown group falls back to base", 7, decimal.NewFromInt(100)},
		{"negative group falls back to base", -1, decimal.NewFromInt(100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceForGroup(p, tt.group)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestProrate(t *testing.T) {
	monthly := decimal.NewFromInt(300)

	tests := []struct {
		name      string
		ref       time.Time
		wantDays  int
		wantTotal int
		wantFinal string
	}{
		{
			name:      "first day charges full month",
			ref:       time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC),
			wantDays:  30,
			wantTotal: 30,
			wantFinal: "300",
		},
		{
			name:      "last day charges one day",
			ref:       time.Date(2026, time.June, 30, 23, 0, 0, 0, time.UTC),
			wantDays:  1,
			wantTotal: 30,
			wantFinal: "10",
		},
		{
			name:      "mid month January",
			ref:       time.Date(2026, time.January, 17, 0, 0, 0, 0, time.UTC),
			wantDays:  15,
			wantTotal: 31,
			wantFinal: "145.16",
		},
		{
			name:      "leap February",
			ref:       time.Date(2028, time.February, 15, 0, 0, 0, 0, time.UTC),
			wantDays:  15,
			wantTotal: 29,
			wantFinal: "155.17",
		},
		{
			name:      "non-leap February",
			ref:       time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC),
			wantDays:  14,
			wantTotal: 28,
			wantFinal: "150",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Prorate(monthly, tt.ref)
			assert.Equal(t, tt.wantDays, got.DaysRemaining)
			assert.Equal(t, tt.wantTotal, got.TotalDaysInMonth)
			want, err := decimal.NewFromString(tt.wantFinal)
			assert.NoError(t, err)
			assert.True(t, want.Equal(got.FinalPrice), "want %s, got %s", want, got.FinalPrice)
		})
	}
}

// The prorated charge never exceeds the full monthly price and never
// drops below a single day's share, on any day of any month.
func TestProrateBounds(t *testing.T) {
	monthly := decimal.NewFromFloat(499.99)

	for month := time.January; month <= time.December; month++ {
		first := time.Date(2026, month, 1, 0, 0, 0, 0, time.UTC)
		total := Prorate(monthly, first).TotalDaysInMonth

		prev := monthly.Add(decimal.NewFromInt(1))
		for day := 1; day <= total; day++ {
			ref := time.Date(2026, month, day, 12, 0, 0, 0, time.UTC)
			got := Prorate(monthly, ref)

			assert.True(t, got.FinalPrice.LessThanOrEqual(monthly),
				"%s day %d: %s exceeds monthly", month, day, got.FinalPrice)
			assert.True(t, got.FinalPrice.IsPositive(),
				"%s day %d: %s not positive", month, day, got.FinalPrice)
			// Later purchase never costs more.
			assert.True(t, got.FinalPrice.LessThanOrEqual(prev),
				"%s day %d: charge increased from %s to %s", month, day, prev, got.FinalPrice)
			prev = got.FinalPrice
		}
	}
}

func TestProrateFirstDayEqualsFullPrice(t *testing.T) {
	monthly := decimal.NewFromFloat(123.45)
	got := Prorate(monthly, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, monthly.Equal(got.FinalPrice), "want %s, got %s", monthly, got.FinalPrice)
}
