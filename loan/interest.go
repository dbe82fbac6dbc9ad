package loan

import "github.com/shopspring/decimal"

// =============================================================================
// INTEREST FORMULA - Simple interest, ACT/365
// =============================================================================

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
)

// Interest computes simple interest: principal x (rate/100) x (days/365).
//
// Degenerate inputs (non-positive principal, rate, or days) yield zero
// rather than an error. Real segments never hit this path; it exists so
// segment construction stays total against malformed upstream data.
func Interest(principal, ratePercent decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 || !principal.IsPositive() || !ratePercent.IsPositive() {
		return decimal.Zero
	}
	return principal.
		Mul(ratePercent).
		Mul(decimal.NewFromInt(int64(days))).
		Div(hundred).
		Div(daysPerYear)
}
