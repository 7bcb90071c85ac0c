// Package tax converts a document's line items into subtotal, tax and total
// under the tax-inclusive and tax-exclusive regimes. The consumption tax
// rate is fixed at 10%.
package tax

import (
	"github.com/shopspring/decimal"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

// RatePercent is the fixed consumption tax rate applied to every line.
const RatePercent = 10

var (
	ten    = decimal.NewFromInt(10)
	eleven = decimal.NewFromInt(11)
)

// Line is the calculator's view of one line item.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals always satisfies Subtotal + TaxAmount == TotalAmount by
// construction.
type Totals struct {
	Subtotal    int64
	TaxAmount   int64
	TotalAmount int64
}

// LineAmount floors quantity × unit price to an integer. Flooring happens
// per line, before summing.
func LineAmount(quantity int, unitPrice decimal.Decimal) int64 {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Floor().IntPart()
}

// Calculate derives document totals from the full line set. In exclusive
// mode tax is added on top of the line sum; in inclusive mode the line sum
// is the tax-bearing total and the net is backed out of it.
func Calculate(lines []Line, mode model.TaxMode) Totals {
	var sum int64
	for _, line := range lines {
		sum += LineAmount(line.Quantity, line.UnitPrice)
	}
	return fromLineSum(sum, mode)
}

// CalculateFromDetails is Calculate over stored detail rows.
func CalculateFromDetails(details []model.DocumentDetail, mode model.TaxMode) Totals {
	lines := make([]Line, 0, len(details))
	for _, d := range details {
		lines = append(lines, Line{Quantity: d.Quantity, UnitPrice: d.UnitPrice})
	}
	return Calculate(lines, mode)
}

func fromLineSum(sum int64, mode model.TaxMode) Totals {
	if mode == model.TaxModeInclusive {
		// subtotal = floor(total / 1.1), tax is the remainder.
		subtotal := decimal.NewFromInt(sum).Mul(ten).Div(eleven).Floor().IntPart()
		return Totals{
			Subtotal:    subtotal,
			TaxAmount:   sum - subtotal,
			TotalAmount: sum,
		}
	}
	taxAmount := decimal.NewFromInt(sum).Div(ten).Floor().IntPart()
	return Totals{
		Subtotal:    sum,
		TaxAmount:   taxAmount,
		TotalAmount: sum + taxAmount,
	}
}
