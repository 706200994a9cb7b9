package schedule

import "github.com/shopspring/decimal"

// =============================================================================
// HOUR AGGREGATION
// =============================================================================

// Totals is the reported hour summary of one day sequence.
type Totals struct {
	Total     decimal.Decimal // worked hours, rounded to one decimal
	Deviation decimal.Decimal // Total - norm, rounded to one decimal
}

// Aggregate sums Number cells exactly; Blank and Code cells add nothing.
// Rounding is applied to the reported figures only, after summation.
// Aggregate never fails and has no side effects, calling it twice on the
// same sequence gives the same Totals.
func Aggregate(seq DaySequence, norm decimal.Decimal) Totals {
	sum := decimal.Zero
	for _, c := range seq {
		if c.IsNumber() {
			sum = sum.Add(c.Value())
		}
	}
	total := sum.Round(1)
	return Totals{
		Total:     total,
		Deviation: total.Sub(norm).Round(1),
	}
}
