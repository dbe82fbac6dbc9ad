/*
builtin.go - Deterministic schedule corrector

PURPOSE:
  The always-available reviewer. Detects the operational violations from
  analyze() and rewrites the offending segments:

  - A segment crossing month-end at the standard rate is split three ways:
    standard rate up to the last business day at or before the boundary, a
    bridge piece over the boundary stretch, and the cheaper of bridge and
    cross-month rate from the first business day after. Day coverage is
    preserved exactly.
  - An over-long bridge segment safely away from the boundary is re-split
    into standard-rate term segments.
  - Closed-day switches are reported but not moved; moving them would
    change day coverage, which is the generator's job, not the reviewer's.

The corrected output always re-satisfies the engine invariants; Review
verifies that with the same audit the generator runs.
*/
package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/loan-engine/loan"
)

// Builtin is the deterministic corrector. Zero-value is not usable; use
// NewBuiltin.
type Builtin struct{}

// NewBuiltin returns the built-in deterministic reviewer.
func NewBuiltin() *Builtin { return &Builtin{} }

// Review implements Validator.
func (b *Builtin) Review(_ context.Context, segments []loan.Segment, consts Constants) (Result, error) {
	violations := analyze(segments, consts)
	if len(violations) == 0 {
		return Result{
			Corrected:   false,
			Segments:    segments,
			Explanation: "schedule follows banking operational rules; no correction needed",
		}, nil
	}

	byIndex := make(map[int][]violation)
	for _, v := range violations {
		byIndex[v.Index] = append(byIndex[v.Index], v)
	}

	var corrected []loan.Segment
	var notes []string
	changed := false

	for i, seg := range segments {
		kinds := byIndex[i]
		switch {
		case hasKind(kinds, violationCrossingStandard):
			pieces := b.splitAroundBoundary(seg, consts)
			corrected = append(corrected, pieces...)
			changed = true
			notes = append(notes, fmt.Sprintf(
				"split %s %s..%s around the month-end boundary into %d segments",
				seg.Bank, seg.Start, seg.End, len(pieces)))

		case hasKind(kinds, violationBridgeOveruse) && b.safeFromBoundary(seg, consts):
			pieces := b.resplitAsTerms(seg, consts)
			corrected = append(corrected, pieces...)
			changed = true
			notes = append(notes, fmt.Sprintf(
				"replaced %d-day bridge usage with %s term segments", seg.Days, consts.StandardName))

		default:
			if hasKind(kinds, violationClosedDaySwitch) {
				notes = append(notes, fmt.Sprintf(
					"segment %d switches banks on a closed day; flagged for manual re-timing", i+1))
			}
			corrected = append(corrected, seg)
		}
	}

	if !changed {
		return Result{
			Corrected:   false,
			Segments:    segments,
			Explanation: "violations found but none correctable in place: " + strings.Join(notes, "; "),
		}, nil
	}

	// The corrector exists to restore the invariants; failing its own
	// audit would be a defect, so surface it rather than hand back a
	// broken schedule.
	if err := loan.AuditSegments(corrected, consts.StandardRate, consts.MonthEnd); err != nil {
		return Result{}, fmt.Errorf("builtin correction produced invalid schedule: %w", err)
	}

	return Result{
		Corrected:   true,
		Segments:    corrected,
		Explanation: "applied corrections: " + strings.Join(notes, "; "),
	}, nil
}

func hasKind(vs []violation, kind violationKind) bool {
	for _, v := range vs {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// safeFromBoundary reports whether the segment neither crosses nor sits
// past the boundary, i.e. the standard rate is allowed on its days.
func (b *Builtin) safeFromBoundary(seg loan.Segment, consts Constants) bool {
	return !loan.Crosses(seg.Start, seg.End, consts.MonthEnd) && !seg.Start.After(consts.MonthEnd)
}

// splitAroundBoundary partitions a crossing segment into pre-boundary
// standard, boundary bridge, and post-boundary pieces. The union of the
// pieces covers exactly the original day range.
func (b *Builtin) splitAroundBoundary(seg loan.Segment, consts Constants) []loan.Segment {
	cal := consts.Calendar

	// Last business day at or before the boundary, first one after it.
	lastBiz := cal.LastBusinessDayBefore(consts.MonthEnd.AddDays(1))
	firstBiz := cal.FirstBusinessDayAfter(consts.MonthEnd)

	var pieces []loan.Segment

	if seg.Start.BeforeOrEqual(lastBiz) {
		days := loan.DaysBetween(seg.Start, lastBiz) + 1
		pieces = append(pieces, b.piece(consts.StandardName, seg.Class, consts.StandardRate,
			seg.Start, days, consts, false))
	}

	bridgeStart := maxDate(seg.Start, lastBiz.AddDays(1))
	bridgeEnd := minDate(seg.End, firstBiz.AddDays(-1))
	if bridgeStart.BeforeOrEqual(bridgeEnd) {
		days := loan.DaysBetween(bridgeStart, bridgeEnd) + 1
		gap := !cal.IsBusinessDay(bridgeStart) || !cal.IsBusinessDay(bridgeEnd)
		pieces = append(pieces, b.piece(consts.BridgeName+" (Bridge)", consts.BridgeClass,
			consts.BridgeRate, bridgeStart, days, consts, gap))
	}

	// Days after the boundary may not return to the standard rate. Use
	// whichever of the bridge and the cross-month rate is cheaper, the
	// same preference the generator applies, bridge winning ties.
	if seg.End.AfterOrEqual(firstBiz) {
		days := loan.DaysBetween(firstBiz, seg.End) + 1
		if consts.BridgeRate.LessThanOrEqual(consts.CrossMonthRate) {
			pieces = append(pieces, b.piece(consts.BridgeName, consts.BridgeClass,
				consts.BridgeRate, firstBiz, days, consts, false))
		} else {
			pieces = append(pieces, b.piece(consts.StandardName, seg.Class,
				consts.CrossMonthRate, firstBiz, days, consts, false))
		}
	}

	return pieces
}

// resplitAsTerms rewrites an over-long bridge segment into standard-rate
// term segments of at most the standard product width.
func (b *Builtin) resplitAsTerms(seg loan.Segment, consts Constants) []loan.Segment {
	var pieces []loan.Segment
	remaining := seg.Days
	start := seg.Start
	for remaining > 0 {
		days := min(consts.maxSegmentDays(), remaining)
		pieces = append(pieces, b.piece(consts.StandardName, seg.Class, consts.StandardRate,
			start, days, consts, false))
		start = start.AddDays(days)
		remaining -= days
	}
	return pieces
}

func (b *Builtin) piece(bank string, class loan.BankClass, rate decimal.Decimal,
	start loan.TimePoint, days int, consts Constants, gap bool) loan.Segment {

	end := start.AddDays(days - 1)
	return loan.Segment{
		Bank:         bank,
		Class:        class,
		Rate:         rate,
		Days:         days,
		Start:        start,
		End:          end,
		Interest:     loan.Interest(consts.Principal, rate, days),
		CrossesMonth: loan.Crosses(start, end, consts.MonthEnd),
		Gap:          gap,
	}
}

func maxDate(a, b loan.TimePoint) loan.TimePoint {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b loan.TimePoint) loan.TimePoint {
	if a.Before(b) {
		return a
	}
	return b
}
