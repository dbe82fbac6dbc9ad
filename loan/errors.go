/*
errors.go - Centralized error types for the loan engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers should match with errors.Is / errors.As rather than string
  comparison.

ERROR CATEGORIES:
  1. Configuration errors - Bad top-level inputs, missing rate configuration
  2. Invariant violations - Internal defects caught by the audit pass
     (these should never occur; a failing audit is a bug, not bad input)

SEE ALSO:
  - generator.go: Returns configuration errors and runs the audit
  - banks/rates.go: Wraps ErrMissingRate with the missing key
*/
package loan

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPrincipal is returned when the principal is zero or negative.
	ErrInvalidPrincipal = errors.New("principal must be positive")

	// ErrInvalidDays is returned when the loan duration is zero or negative.
	ErrInvalidDays = errors.New("total days must be positive")

	// ErrInvalidPolicy is returned when a bank policy fails validation.
	ErrInvalidPolicy = errors.New("invalid bank policy")

	// ErrMissingRate is returned when a rate required by an enabled policy
	// is absent from the configuration. This must fail fast, never default.
	ErrMissingRate = errors.New("missing rate configuration")

	// ErrInvariantViolation is returned when the post-generation audit finds
	// a segment breaking the month-end rule. This is an internal defect:
	// a correct generator never produces one.
	ErrInvariantViolation = errors.New("segment invariant violation")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingRateError identifies which rate key is absent.
type MissingRateError struct {
	Key string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("missing rate configuration: %q", e.Key)
}

func (e *MissingRateError) Unwrap() error { return ErrMissingRate }

// InvariantError describes an audit failure in detail. It exists for defect
// reports; user-facing code should never need to render one.
type InvariantError struct {
	Index   int
	Segment Segment
	Rule    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("segment %d (%s %s..%s @ %s%%) violates %s",
		e.Index, e.Segment.Bank, e.Segment.Start, e.Segment.End, e.Segment.Rate, e.Rule)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPrincipal) ||
		errors.Is(err, ErrInvalidDays) ||
		errors.Is(err, ErrInvalidPolicy) ||
		errors.Is(err, ErrMissingRate)
}
