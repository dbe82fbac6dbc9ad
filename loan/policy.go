package loan

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BANK POLICY - One bank's offer profile
// =============================================================================

// BankClass categorizes an offer: a regular bank code, or a bridge/call
// facility. Display-only; the engine never branches on it.
type BankClass string

// BankPolicy is one bank's offer: how long a segment may run and what it
// costs, normally and when a segment crosses the month-end boundary.
// Immutable configuration supplied by the caller.
type BankPolicy struct {
	Name           string
	Class          BankClass
	MaxSegmentDays int
	StandardRate   decimal.Decimal // percent
	CrossMonthRate decimal.Decimal // percent, applies to crossing segments
}

// Validate checks the policy at construction time so generation can assume
// well-formed configuration.
func (p BankPolicy) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPolicy)
	}
	if p.MaxSegmentDays < 1 {
		return fmt.Errorf("%w: %s: max segment days %d", ErrInvalidPolicy, p.Name, p.MaxSegmentDays)
	}
	if !p.StandardRate.IsPositive() {
		return fmt.Errorf("%w: %s: standard rate %s", ErrInvalidPolicy, p.Name, p.StandardRate)
	}
	if !p.CrossMonthRate.IsPositive() {
		return fmt.Errorf("%w: %s: cross-month rate %s", ErrInvalidPolicy, p.Name, p.CrossMonthRate)
	}
	return nil
}

// =============================================================================
// BRIDGE FACILITY - Always-available call loan
// =============================================================================

// BridgeFacility is a calendar-flexible call facility used to cover
// month-end crossings and post-crossing segments when it is cheaper than
// the policy's cross-month rate.
type BridgeFacility struct {
	Name  string
	Class BankClass
	Rate  decimal.Decimal // percent
}

func (b BridgeFacility) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("%w: bridge: empty name", ErrInvalidPolicy)
	}
	if !b.Rate.IsPositive() {
		return fmt.Errorf("%w: bridge %s: rate %s", ErrInvalidPolicy, b.Name, b.Rate)
	}
	return nil
}
