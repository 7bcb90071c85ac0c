package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineAmount(t *testing.T) {
	assert.Equal(t, int64(1000), LineAmount(2, dec("500")))
	assert.Equal(t, int64(999), LineAmount(3, dec("333.3")))
	assert.Equal(t, int64(0), LineAmount(0, dec("500")))
	// Flooring is per line, before summing.
	assert.Equal(t, int64(250), LineAmount(1, dec("250.99")))
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		mode  model.TaxMode
		want  Totals
	}{
		{
			name:  "exclusive 1100",
			lines: []Line{{Quantity: 2, UnitPrice: dec("500")}, {Quantity: 1, UnitPrice: dec("100")}},
			mode:  model.TaxModeExclusive,
			want:  Totals{Subtotal: 1100, TaxAmount: 110, TotalAmount: 1210},
		},
		{
			name:  "inclusive 1210",
			lines: []Line{{Quantity: 1, UnitPrice: dec("1210")}},
			mode:  model.TaxModeInclusive,
			want:  Totals{Subtotal: 1100, TaxAmount: 110, TotalAmount: 1210},
		},
		{
			name:  "inclusive floor 1099",
			lines: []Line{{Quantity: 1, UnitPrice: dec("1099")}},
			mode:  model.TaxModeInclusive,
			want:  Totals{Subtotal: 999, TaxAmount: 100, TotalAmount: 1099},
		},
		{
			name:  "exclusive floor on tax",
			lines: []Line{{Quantity: 1, UnitPrice: dec("105")}},
			mode:  model.TaxModeExclusive,
			want:  Totals{Subtotal: 105, TaxAmount: 10, TotalAmount: 115},
		},
		{
			name:  "empty set",
			lines: nil,
			mode:  model.TaxModeExclusive,
			want:  Totals{},
		},
		{
			name: "per line flooring, not sum then floor",
			// 333.3*1 + 333.3*1 floors to 333+333=666, not floor(666.6)=666
			// but with .5 lines: 100.5+100.5 => 100+100=200, not 201.
			lines: []Line{{Quantity: 1, UnitPrice: dec("100.5")}, {Quantity: 1, UnitPrice: dec("100.5")}},
			mode:  model.TaxModeExclusive,
			want:  Totals{Subtotal: 200, TaxAmount: 20, TotalAmount: 220},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.lines, tt.mode)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.TotalAmount, got.Subtotal+got.TaxAmount)
		})
	}
}

// The identity must hold for arbitrary line sets in both modes.
func TestCalculateIdentity(t *testing.T) {
	prices := []string{"0", "1", "99.99", "333.3", "1099", "123456.78"}
	for _, mode := range []model.TaxMode{model.TaxModeExclusive, model.TaxModeInclusive} {
		for qty := 0; qty <= 7; qty++ {
			for _, p := range prices {
				got := Calculate([]Line{{Quantity: qty, UnitPrice: dec(p)}}, mode)
				assert.Equal(t, got.TotalAmount, got.Subtotal+got.TaxAmount,
					"mode=%s qty=%d price=%s", mode, qty, p)
			}
		}
	}
}

func TestCalculateFromDetails(t *testing.T) {
	details := []model.DocumentDetail{
		{Quantity: 2, UnitPrice: dec("500")},
		{Quantity: 1, UnitPrice: dec("300")},
	}
	got := CalculateFromDetails(details, model.TaxModeExclusive)
	assert.Equal(t, Totals{Subtotal: 1300, TaxAmount: 130, TotalAmount: 1430}, got)
}
