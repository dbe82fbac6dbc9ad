/*
generator.go - Greedy day-by-day segment scheduler

PURPOSE:
  Turns (principal, total days, start date, month-end boundary, bank policy)
  into an ordered list of segments that minimizes interest cost while
  honoring two hard rules:

  1. Month-end rule: a segment that crosses the configured month-end
     boundary must not carry the policy's standard rate. It carries the
     policy's cross-month rate or a cheaper bridge rate - whichever costs
     less over the segment. Once any part of the timeline has passed the
     boundary, every later segment avoids the standard rate too.
  2. Calendar rule: segment boundaries land on business days. A proposed
     end on a weekend/holiday is pulled back a day at a time; the days
     skipped between two scheduled segments are covered by a gap segment
     at the previous segment's rate.

DECISIONS ARE COST-BASED:
  Every rate choice compares monetary cost over the candidate width via the
  interest formula, never raw rate percentages. Ties always go to the
  bridge facility (chosen on <=, not <).

STATE:
  The "has this loan crossed month-end yet" flag is a local value threaded
  through one Generate call. Nothing survives across calls, so generations
  for different policies can run concurrently.

SEE ALSO:
  - segment.go: Segment model and the post-generation audit
  - strategy.go: Runs the generator once per enabled policy
*/
package loan

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Generator schedules loan segments against a business calendar and a
// bridge facility. Safe for concurrent use: Generate keeps all state local.
type Generator struct {
	calendar *BusinessCalendar
	bridge   BridgeFacility
	logger   *zap.Logger
}

// NewGenerator wires a generator. A nil logger disables the diagnostic trace.
func NewGenerator(calendar *BusinessCalendar, bridge BridgeFacility, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{calendar: calendar, bridge: bridge, logger: logger}
}

// GenerateInput is one segmentation request. MonthEnd is the caller's rate
// escalation boundary; the generator does not derive it from Start.
type GenerateInput struct {
	Principal decimal.Decimal
	TotalDays int
	Start     TimePoint
	MonthEnd  TimePoint
	Policy    BankPolicy
}

func (in GenerateInput) validate() error {
	if !in.Principal.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidPrincipal, in.Principal)
	}
	if in.TotalDays <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDays, in.TotalDays)
	}
	return nil
}

// Generate produces the ordered segment sequence for one policy. It is a
// pure function of its input: identical inputs yield identical sequences.
func (g *Generator) Generate(in GenerateInput) ([]Segment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := in.Policy.Validate(); err != nil {
		return nil, err
	}
	if err := g.bridge.Validate(); err != nil {
		return nil, err
	}

	log := g.logger.With(
		zap.String("policy", in.Policy.Name),
		zap.Stringer("start", in.Start),
		zap.Stringer("monthEnd", in.MonthEnd),
		zap.Int("totalDays", in.TotalDays),
	)

	var segments []Segment
	remaining := in.TotalDays
	current := in.Start
	crossed := false

	// The widest schedule is one-day segments with interleaved gaps; the
	// bound exists so a logic defect cannot spin forever.
	for iter := 0; remaining > 0 && iter < 2*in.TotalDays+10; iter++ {
		width := min(in.Policy.MaxSegmentDays, remaining)
		end := current.AddDays(width - 1)
		wouldCross := Crosses(current, end, in.MonthEnd)

		bank := in.Policy.Name
		class := in.Policy.Class
		rate := in.Policy.StandardRate

		switch {
		case crossed:
			// Already past (or committed past) the boundary: standard rate
			// is off the table. Cheapest of bridge vs cross-month penalty,
			// bridge on ties.
			bridgeCost := Interest(in.Principal, g.bridge.Rate, width)
			penaltyCost := Interest(in.Principal, in.Policy.CrossMonthRate, width)
			if bridgeCost.LessThanOrEqual(penaltyCost) {
				bank, class, rate = g.bridge.Name, g.bridge.Class, g.bridge.Rate
			} else {
				rate = in.Policy.CrossMonthRate
			}
			log.Debug("post-crossing segment",
				zap.Stringer("at", current), zap.Int("width", width), zap.String("bank", bank))

		case wouldCross:
			// First segment to touch the boundary. Either split at the
			// boundary (standard rate up to it, remainder re-enters the
			// loop) or take the bridge for the whole width.
			daysToBoundary := DaysBetween(current, in.MonthEnd) + 1
			if daysToBoundary > 0 && daysToBoundary < width {
				splitCost := Interest(in.Principal, in.Policy.StandardRate, daysToBoundary).
					Add(Interest(in.Principal, g.bridge.Rate, width-daysToBoundary))
				bridgeCost := Interest(in.Principal, g.bridge.Rate, width)
				if bridgeCost.LessThanOrEqual(splitCost) {
					bank, class, rate = g.bridge.Name, g.bridge.Class, g.bridge.Rate
					log.Debug("first crossing: full bridge",
						zap.Stringer("at", current), zap.Int("width", width))
				} else {
					// Split wins: shrink to end exactly at the boundary at
					// the standard rate. The remainder is past the boundary,
					// so the loan counts as crossed from here on.
					width = daysToBoundary
					log.Debug("first crossing: split at boundary",
						zap.Stringer("at", current), zap.Int("width", width))
				}
			} else {
				bank, class, rate = g.bridge.Name, g.bridge.Class, g.bridge.Rate
			}
			crossed = true

		default:
			// No boundary interaction: whole segment at the standard rate.
		}

		// Calendar adjustment: pull the end back to a business day. Never
		// changes the chosen rate.
		end = current.AddDays(width - 1)
		for !g.calendar.IsBusinessDay(end) && width > 1 {
			width--
			end = current.AddDays(width - 1)
		}

		// Final verification: shrinking can change the boundary interaction,
		// and crossed-tracking can disagree with the cursor after calendar
		// moves. Either way the standard rate must not survive past the
		// boundary.
		finalCrosses := Crosses(current, end, in.MonthEnd)
		if (finalCrosses || current.After(in.MonthEnd)) && rate.Equal(in.Policy.StandardRate) {
			bank, class, rate = g.bridge.Name+" (Emergency)", g.bridge.Class, g.bridge.Rate
			crossed = true
			log.Debug("forced bridge override", zap.Stringer("at", current), zap.Int("width", width))
		}

		seg := newSegment(bank, class, rate, width, current, in.Principal, in.MonthEnd, false)
		segments = append(segments, seg)
		crossed = crossed || finalCrosses

		current = end.AddDays(1)
		remaining -= width

		// Gap handling: if the next start is not a business day, cover the
		// stretch up to the next business day with a gap segment at the
		// previous segment's rate.
		if remaining > 0 && !g.calendar.IsBusinessDay(current) {
			businessStart := g.calendar.NextBusinessDay(end)
			gapDays := DaysBetween(current, businessStart)
			if gapDays > 0 && gapDays <= remaining {
				gapEnd := businessStart.AddDays(-1)
				gapCrosses := Crosses(current, gapEnd, in.MonthEnd)

				gapBank, gapClass, gapRate := seg.Bank+" (Gap)", seg.Class, seg.Rate
				if (gapCrosses || current.After(in.MonthEnd)) && gapRate.Equal(in.Policy.StandardRate) {
					gapBank, gapClass, gapRate = g.bridge.Name+" (Gap)", g.bridge.Class, g.bridge.Rate
					crossed = true
				}

				gap := newSegment(gapBank, gapClass, gapRate, gapDays, current, in.Principal, in.MonthEnd, true)
				segments = append(segments, gap)
				remaining -= gapDays
				crossed = crossed || gapCrosses
				log.Debug("gap segment",
					zap.Stringer("from", current), zap.Stringer("to", gapEnd), zap.Int("days", gapDays))
			}
			current = businessStart
		}
	}

	if err := AuditSegments(segments, in.Policy.StandardRate, in.MonthEnd); err != nil {
		return nil, err
	}
	return segments, nil
}
