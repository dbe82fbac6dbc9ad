package loan_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loan-engine/loan"
)

func newTestBuilder() *loan.Builder {
	return loan.NewBuilder(testCalendar(), citiCall, nil)
}

func TestStrategy_AggregatesAreDerived(t *testing.T) {
	// GIVEN: A hand-built two-segment strategy, 6.00% x 5d then 9.00% x 1d
	// THEN: Aggregates follow exactly from the segments
	p := decimal.NewFromInt(1_000_000)
	segA := loan.Segment{
		Bank: "A", Rate: decimal.RequireFromString("6.00"), Days: 5,
		Interest: loan.Interest(p, decimal.RequireFromString("6.00"), 5),
	}
	segB := loan.Segment{
		Bank: "B", Rate: decimal.RequireFromString("9.00"), Days: 1,
		Interest:     loan.Interest(p, decimal.RequireFromString("9.00"), 1),
		CrossesMonth: true,
	}
	s := loan.Strategy{Name: "mixed", Segments: []loan.Segment{segA, segB}}

	assert.True(t, s.IsValid())
	assert.Equal(t, 6, s.TotalDays())
	assert.True(t, s.CrossesMonth())
	assert.True(t, s.UsesMultiBanks())
	assert.True(t, s.TotalInterest().Equal(segA.Interest.Add(segB.Interest)))

	// Day-weighted mean: (6*5 + 9*1) / 6 = 6.5 exactly.
	assert.True(t, s.AverageRate().Equal(decimal.RequireFromString("6.5")),
		"got %s", s.AverageRate())
}

func TestStrategy_EmptyIsInvalidSentinel(t *testing.T) {
	var s loan.Strategy
	assert.False(t, s.IsValid())
	assert.True(t, s.TotalInterest().IsZero())
	assert.True(t, s.AverageRate().IsZero())
	assert.Equal(t, 0, s.TotalDays())
	assert.False(t, s.CrossesMonth())
	assert.False(t, s.UsesMultiBanks())
}

func TestBuild_BaselineFirstThenPoliciesInDeclarationOrder(t *testing.T) {
	builder := newTestBuilder()

	baseline := loan.BankPolicy{
		Name: "CITI 3M", Class: "citi", MaxSegmentDays: 365,
		StandardRate:   decimal.RequireFromString("8.69"),
		CrossMonthRate: decimal.RequireFromString("8.69"),
	}
	second := scbtWeekly
	second.Name = "SCBT 2W"
	second.MaxSegmentDays = 14

	strategies, err := builder.Build(loan.BuildRequest{
		Principal: testPrincipal,
		TotalDays: 10,
		Start:     loan.NewTimePoint(2025, time.June, 2),
		MonthEnd:  loan.NewTimePoint(2025, time.June, 30),
		Baseline:  &baseline,
		Policies:  []loan.BankPolicy{scbtWeekly, second},
	})
	require.NoError(t, err)

	require.Len(t, strategies, 3)
	assert.Equal(t, "CITI 3M", strategies[0].Name)
	assert.Equal(t, "SCBT 1W", strategies[1].Name)
	assert.Equal(t, "SCBT 2W", strategies[2].Name)
	for _, s := range strategies {
		assert.Equal(t, 10, s.TotalDays(), s.Name)
	}
}

func TestBuild_BaselineIsOneWholeSpanSegment(t *testing.T) {
	// GIVEN: A span that crosses the boundary
	// THEN: The baseline is a single segment at the cross-month rate,
	//       ignoring business-day placement
	builder := newTestBuilder()

	baseline := loan.BankPolicy{
		Name: "CITI 3M", Class: "citi", MaxSegmentDays: 365,
		StandardRate:   decimal.RequireFromString("8.69"),
		CrossMonthRate: decimal.RequireFromString("9.20"),
	}

	strategies, err := builder.Build(loan.BuildRequest{
		Principal: testPrincipal,
		TotalDays: 14,
		Start:     loan.NewTimePoint(2025, time.May, 26),
		MonthEnd:  loan.NewTimePoint(2025, time.May, 31),
		Baseline:  &baseline,
	})
	require.NoError(t, err)
	require.Len(t, strategies, 1)

	base := strategies[0]
	require.Len(t, base.Segments, 1)
	assert.Equal(t, 14, base.Segments[0].Days)
	assert.True(t, base.Segments[0].Rate.Equal(baseline.CrossMonthRate))
	assert.True(t, base.Segments[0].CrossesMonth)
}

func TestBuild_NoPoliciesNoBaseline_IsNotAnError(t *testing.T) {
	builder := newTestBuilder()

	strategies, err := builder.Build(loan.BuildRequest{
		Principal: testPrincipal,
		TotalDays: 5,
		Start:     loan.NewTimePoint(2025, time.June, 2),
		MonthEnd:  loan.NewTimePoint(2025, time.June, 30),
	})
	require.NoError(t, err)
	assert.Empty(t, strategies)
}

func TestBuild_PolicyErrorSurfaces(t *testing.T) {
	builder := newTestBuilder()

	bad := scbtWeekly
	bad.StandardRate = decimal.Zero

	_, err := builder.Build(loan.BuildRequest{
		Principal: testPrincipal,
		TotalDays: 5,
		Start:     loan.NewTimePoint(2025, time.June, 2),
		MonthEnd:  loan.NewTimePoint(2025, time.June, 30),
		Policies:  []loan.BankPolicy{scbtWeekly, bad},
	})
	assert.ErrorIs(t, err, loan.ErrInvalidPolicy)
}

func TestBuild_RejectsBadRequest(t *testing.T) {
	builder := newTestBuilder()
	start := loan.NewTimePoint(2025, time.June, 2)
	monthEnd := loan.NewTimePoint(2025, time.June, 30)

	_, err := builder.Build(loan.BuildRequest{
		Principal: decimal.Zero, TotalDays: 5, Start: start, MonthEnd: monthEnd,
	})
	assert.ErrorIs(t, err, loan.ErrInvalidPrincipal)

	_, err = builder.Build(loan.BuildRequest{
		Principal: testPrincipal, TotalDays: -1, Start: start, MonthEnd: monthEnd,
	})
	assert.ErrorIs(t, err, loan.ErrInvalidDays)
}
