/*
segment.go - The loan segment model and its invariants

PURPOSE:
  A Segment is a contiguous day-range of the loan assigned to one bank
  offer. Segments are created immutably by the generator; a correction
  during generation replaces the segment, it never mutates one.

INVARIANTS:
  - End >= Start (equivalently Days >= 1)
  - a segment crossing the month-end boundary never carries the policy's
    standard rate - it carries the cross-month rate or a cheaper bridge
  - once the timeline has passed the boundary, no later segment carries
    the standard rate either
  - Start and End fall on business days, except single-day segments and
    gap segments, which exist precisely to cover non-business days

AUDIT:
  AuditSegments re-checks the two month-end rules after generation. The
  generator enforces them by construction, so a failing audit is an
  internal defect and is reported as ErrInvariantViolation, never as a
  user-facing error.

SEE ALSO:
  - generator.go: Creates segments and runs the audit
  - strategy.go: Aggregates segments into strategies
*/
package loan

import (
	"github.com/shopspring/decimal"
)

// Segment is a contiguous day-range assigned to one bank offer.
type Segment struct {
	Bank  string    // display name, may be decorated e.g. "CITI Call (Gap)"
	Class BankClass // category of the offer actually used
	Rate  decimal.Decimal
	Days  int
	Start TimePoint
	End   TimePoint // Start.AddDays(Days - 1)

	// Interest is derived from the formula at construction; stored so the
	// presentation layer never recomputes it.
	Interest decimal.Decimal

	// CrossesMonth is true when Start <= monthEnd < End.
	CrossesMonth bool

	// Gap marks a filler segment covering a weekend/holiday stretch between
	// two scheduled segments. Gaps are exempt from the business-day
	// endpoint rule - they exist because those days are not business days.
	Gap bool
}

// Crosses reports whether a date range [start, end] crosses the boundary.
func Crosses(start, end, monthEnd TimePoint) bool {
	return start.BeforeOrEqual(monthEnd) && end.After(monthEnd)
}

// newSegment builds a segment with derived fields filled in.
func newSegment(bank string, class BankClass, rate decimal.Decimal, days int,
	start TimePoint, principal decimal.Decimal, monthEnd TimePoint, gap bool) Segment {

	end := start.AddDays(days - 1)
	return Segment{
		Bank:         bank,
		Class:        class,
		Rate:         rate,
		Days:         days,
		Start:        start,
		End:          end,
		Interest:     Interest(principal, rate, days),
		CrossesMonth: Crosses(start, end, monthEnd),
		Gap:          gap,
	}
}

// AuditSegments verifies the month-end rules for a finished sequence: no
// crossing segment and no post-boundary segment may carry the standard
// rate. A non-nil result is a defect in the generator, not recoverable
// input trouble.
func AuditSegments(segments []Segment, standardRate decimal.Decimal, monthEnd TimePoint) error {
	for i, seg := range segments {
		if seg.CrossesMonth && seg.Rate.Equal(standardRate) {
			return &InvariantError{Index: i, Segment: seg, Rule: "month-end rule (crossing segment at standard rate)"}
		}
		if seg.Start.After(monthEnd) && seg.Rate.Equal(standardRate) {
			return &InvariantError{Index: i, Segment: seg, Rule: "post-crossing rule (standard rate after boundary)"}
		}
	}
	return nil
}
