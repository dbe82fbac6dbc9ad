/*
strategy.go - Strategies and the strategy builder

PURPOSE:
  A Strategy is one complete segmentation of the loan under one bank
  policy, with cost aggregates derived from its segments. The Builder
  produces the set of competing strategies: a single-segment whole-span
  baseline plus one generated strategy per enabled policy.

AGGREGATES ARE DERIVED:
  Total interest, average rate, crossing and multi-bank flags are always
  recomputed from the segments, never stored, so they cannot drift.

INVALID SENTINEL:
  A strategy with zero segments is the "invalid" sentinel. There is no
  decimal infinity, so rankers filter on IsValid() instead of comparing
  against an infinite cost.

CONCURRENCY:
  Policies share no mutable state, so the builder fans out one goroutine
  per policy and joins before returning. Results land in declaration-order
  slots; output is deterministic regardless of scheduling.

SEE ALSO:
  - generator.go: Produces the segments
  - ranker.go: Orders the finished strategies by cost
*/
package loan

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Strategy is a named, ordered segmentation of the whole loan duration.
// Immutable once built.
type Strategy struct {
	Name     string
	Segments []Segment
}

// IsValid reports whether the strategy produced any segments. An empty
// strategy is the invalid sentinel and ranks behind every valid one.
func (s Strategy) IsValid() bool { return len(s.Segments) > 0 }

// TotalInterest is the summed interest over all segments.
func (s Strategy) TotalInterest() decimal.Decimal {
	total := decimal.Zero
	for _, seg := range s.Segments {
		total = total.Add(seg.Interest)
	}
	return total
}

// TotalDays is the summed day count over all segments.
func (s Strategy) TotalDays() int {
	days := 0
	for _, seg := range s.Segments {
		days += seg.Days
	}
	return days
}

// AverageRate is the day-weighted mean rate, zero when there are no days.
func (s Strategy) AverageRate() decimal.Decimal {
	weighted := decimal.Zero
	days := 0
	for _, seg := range s.Segments {
		weighted = weighted.Add(seg.Rate.Mul(decimal.NewFromInt(int64(seg.Days))))
		days += seg.Days
	}
	if days == 0 {
		return decimal.Zero
	}
	return weighted.Div(decimal.NewFromInt(int64(days)))
}

// CrossesMonth reports whether any segment crosses the boundary.
func (s Strategy) CrossesMonth() bool {
	for _, seg := range s.Segments {
		if seg.CrossesMonth {
			return true
		}
	}
	return false
}

// UsesMultiBanks reports whether more than one bank name appears.
func (s Strategy) UsesMultiBanks() bool {
	seen := make(map[string]struct{}, len(s.Segments))
	for _, seg := range s.Segments {
		seen[seg.Bank] = struct{}{}
	}
	return len(seen) > 1
}

// =============================================================================
// BUILDER
// =============================================================================

// BuildRequest describes one optimization run. Baseline is optional; when
// present it becomes the first strategy, a single whole-span segment used
// as the theoretical cost reference.
type BuildRequest struct {
	Principal decimal.Decimal
	TotalDays int
	Start     TimePoint
	MonthEnd  TimePoint
	Baseline  *BankPolicy
	Policies  []BankPolicy
}

// Builder produces the competing strategies for a request.
type Builder struct {
	gen    *Generator
	logger *zap.Logger
}

// NewBuilder wires a builder over a calendar and bridge facility.
func NewBuilder(calendar *BusinessCalendar, bridge BridgeFacility, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		gen:    NewGenerator(calendar, bridge, logger.Named("generator")),
		logger: logger,
	}
}

// Build returns the baseline strategy (when configured) followed by one
// generated strategy per policy, in declaration order.
func (b *Builder) Build(req BuildRequest) ([]Strategy, error) {
	if !req.Principal.IsPositive() {
		return nil, ErrInvalidPrincipal
	}
	if req.TotalDays <= 0 {
		return nil, ErrInvalidDays
	}

	var strategies []Strategy
	if req.Baseline != nil {
		if err := req.Baseline.Validate(); err != nil {
			return nil, err
		}
		strategies = append(strategies, b.baseline(req, *req.Baseline))
	}

	built := make([]Strategy, len(req.Policies))
	errs := make([]error, len(req.Policies))
	var wg sync.WaitGroup
	for i, policy := range req.Policies {
		wg.Add(1)
		go func(i int, policy BankPolicy) {
			defer wg.Done()
			segments, err := b.gen.Generate(GenerateInput{
				Principal: req.Principal,
				TotalDays: req.TotalDays,
				Start:     req.Start,
				MonthEnd:  req.MonthEnd,
				Policy:    policy,
			})
			if err != nil {
				errs[i] = err
				return
			}
			built[i] = Strategy{Name: policy.Name, Segments: segments}
		}(i, policy)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return append(strategies, built...), nil
}

// baseline builds the whole-span reference strategy: one segment, rate
// picked once from whether the entire span crosses the boundary. It
// intentionally ignores business-day placement - it exists to show what
// doing nothing clever would cost.
func (b *Builder) baseline(req BuildRequest, policy BankPolicy) Strategy {
	end := req.Start.AddDays(req.TotalDays - 1)
	rate := policy.StandardRate
	if Crosses(req.Start, end, req.MonthEnd) {
		rate = policy.CrossMonthRate
	}
	seg := newSegment(policy.Name, policy.Class, rate, req.TotalDays, req.Start, req.Principal, req.MonthEnd, false)
	return Strategy{Name: policy.Name, Segments: []Segment{seg}}
}
