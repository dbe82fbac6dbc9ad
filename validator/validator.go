/*
Package validator re-checks a finished segment schedule against banking
operational rules, independently of the generator that produced it.

PURPOSE:
  A second pair of eyes on a schedule before it reaches a trading desk:
  does any segment cross the month-end boundary at a standard rate, is the
  call facility being used as long-term financing, does a bank switch land
  on a day the banks are closed. The reviewer either confirms the schedule
  or returns a corrected one plus a human-readable explanation.

IMPLEMENTATIONS:
  Builtin  - deterministic corrector reimplementing the engine invariants
             as a pure function
  External - best-effort review via an OpenAI-compatible chat endpoint,
             falling back to Builtin on any failure

Callers depend only on the Validator interface; the engine never requires
a validator for correctness.
*/
package validator

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/loan-engine/loan"
)

// Constants carries the policy constants a review runs against.
type Constants struct {
	Principal      decimal.Decimal
	MonthEnd       loan.TimePoint
	StandardRate   decimal.Decimal
	StandardName   string
	CrossMonthRate decimal.Decimal
	BridgeRate     decimal.Decimal
	BridgeName     string
	BridgeClass    loan.BankClass

	// MaxBridgeDays is how long the bridge facility may reasonably run;
	// beyond it the facility is being misused as term financing.
	// Zero means the default of 5.
	MaxBridgeDays int

	// MaxSegmentDays is the standard product's maximum term, used when a
	// correction re-splits an over-long bridge segment. Zero means 7.
	MaxSegmentDays int

	Calendar *loan.BusinessCalendar
}

func (c Constants) maxBridgeDays() int {
	if c.MaxBridgeDays > 0 {
		return c.MaxBridgeDays
	}
	return 5
}

func (c Constants) maxSegmentDays() int {
	if c.MaxSegmentDays > 0 {
		return c.MaxSegmentDays
	}
	return 7
}

// Result is the outcome of a review. When Corrected is false, Segments is
// the input unchanged.
type Result struct {
	Corrected   bool
	Segments    []loan.Segment
	Explanation string
}

// Validator reviews a segment schedule. Implementations must return
// segments that satisfy the engine invariants whenever Corrected is true.
type Validator interface {
	Review(ctx context.Context, segments []loan.Segment, consts Constants) (Result, error)
}

// =============================================================================
// VIOLATION ANALYSIS - Shared by both implementations
// =============================================================================

type violationKind string

const (
	violationCrossingStandard violationKind = "month_end_crossing_standard_rate"
	violationBridgeOveruse    violationKind = "bridge_facility_overuse"
	violationClosedDaySwitch  violationKind = "switch_on_non_business_day"
)

type violation struct {
	Index int
	Kind  violationKind
	Note  string
}

// analyze scans a schedule for operational violations.
func analyze(segments []loan.Segment, consts Constants) []violation {
	var found []violation
	for i, seg := range segments {
		crosses := loan.Crosses(seg.Start, seg.End, consts.MonthEnd)
		switch {
		case crosses && seg.Rate.Equal(consts.StandardRate):
			found = append(found, violation{
				Index: i, Kind: violationCrossingStandard,
				Note: "segment crosses the month-end boundary at the standard rate",
			})
		case seg.Rate.Equal(consts.BridgeRate) && seg.Days > consts.maxBridgeDays() && !seg.Gap:
			found = append(found, violation{
				Index: i, Kind: violationBridgeOveruse,
				Note: "bridge facility used as term financing",
			})
		}

		// A bank switch needs an open bank: the day after the previous
		// segment must be a business day when the bank changes.
		if i > 0 && segments[i-1].Bank != seg.Bank && !seg.Gap {
			switchDay := segments[i-1].End.AddDays(1)
			if !consts.Calendar.IsBusinessDay(switchDay) {
				found = append(found, violation{
					Index: i, Kind: violationClosedDaySwitch,
					Note: "bank switch scheduled on a closed day",
				})
			}
		}
	}
	return found
}
