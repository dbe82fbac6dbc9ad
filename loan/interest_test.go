package loan_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/loan-engine/loan"
)

func TestInterest_KnownValue(t *testing.T) {
	// 38 billion at 6.20% for 7 days:
	// 38e9 * 0.062 * 7 / 365 = 45,183,561.64...
	principal := decimal.RequireFromString("38000000000")
	rate := decimal.RequireFromString("6.20")

	got := loan.Interest(principal, rate, 7)
	assert.Equal(t, "45183561.64", got.StringFixed(2))
}

func TestInterest_OneDay(t *testing.T) {
	// 1,000,000 at 7.30% for 1 day = 200 exactly (7.30/365 = 0.02/day)
	principal := decimal.NewFromInt(1_000_000)
	rate := decimal.RequireFromString("7.30")

	got := loan.Interest(principal, rate, 1)
	assert.True(t, got.Equal(decimal.NewFromInt(200)), "got %s", got)
}

func TestInterest_ScalesLinearlyInDays(t *testing.T) {
	principal := decimal.RequireFromString("38000000000")
	rate := decimal.RequireFromString("9.20")

	one := loan.Interest(principal, rate, 1)
	ten := loan.Interest(principal, rate, 10)
	assert.True(t, one.Mul(decimal.NewFromInt(10)).Equal(ten))
}

func TestInterest_DegenerateInputsYieldZero(t *testing.T) {
	principal := decimal.RequireFromString("38000000000")
	rate := decimal.RequireFromString("6.20")

	assert.True(t, loan.Interest(principal, rate, 0).IsZero())
	assert.True(t, loan.Interest(principal, rate, -3).IsZero())
	assert.True(t, loan.Interest(decimal.Zero, rate, 7).IsZero())
	assert.True(t, loan.Interest(principal, decimal.Zero, 7).IsZero())
	assert.True(t, loan.Interest(principal.Neg(), rate, 7).IsZero())
}

func TestInterest_RateOrderingCarriesToCost(t *testing.T) {
	// The generator compares costs, not rates; over equal widths the
	// cheaper rate must always produce the cheaper cost.
	principal := decimal.RequireFromString("38000000000")
	lo := decimal.RequireFromString("6.20")
	hi := decimal.RequireFromString("9.20")

	for _, days := range []int{1, 5, 7, 14, 30, 365} {
		assert.True(t, loan.Interest(principal, lo, days).LessThan(loan.Interest(principal, hi, days)),
			"days=%d", days)
	}
}
