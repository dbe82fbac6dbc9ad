/*
Package banks holds the bank-specific configuration for the loan engine:
the typed rate card, the offer policies built from it, bridge facilities,
and the default Indonesian holiday calendar.

The engine itself (package loan) is bank-agnostic; everything that names a
real product or rate lives here.
*/
package banks

import (
	"github.com/shopspring/decimal"

	"github.com/warp/loan-engine/loan"
)

// Rate keys as they appear in JSON rate cards and API requests. These are
// the only keys the system understands; a key required by an enabled
// policy that is absent fails fast, it never silently defaults.
const (
	RateKeyCiti3M     = "citi_3m"
	RateKeyCitiCall   = "citi_call"
	RateKeySCBT1W     = "scbt_1w"
	RateKeySCBT2W     = "scbt_2w"
	RateKeyCIMB1M     = "cimb_1m"
	RateKeyPermata1M  = "permata_1m"
	RateKeyCrossMonth = "general_cross_month"
)

// RateCard is the typed rate configuration for one calculation. Zero
// values mean "not configured" and trip validation when the rate is
// required. All rates are percent values.
type RateCard struct {
	Citi3M     decimal.Decimal
	CitiCall   decimal.Decimal
	SCBT1W     decimal.Decimal
	SCBT2W     decimal.Decimal
	CIMB1M     decimal.Decimal
	Permata1M  decimal.Decimal
	CrossMonth decimal.Decimal
}

// IncludeFlags controls which optional bank policies are built.
type IncludeFlags struct {
	CIMB    bool
	Permata bool
}

// Validate checks that every rate required by the enabled policy set is
// configured and positive. It reports the first missing key.
func (c RateCard) Validate(include IncludeFlags) error {
	required := []struct {
		key  string
		rate decimal.Decimal
		need bool
	}{
		{RateKeyCiti3M, c.Citi3M, true},
		{RateKeyCitiCall, c.CitiCall, true},
		{RateKeySCBT1W, c.SCBT1W, true},
		{RateKeySCBT2W, c.SCBT2W, true},
		{RateKeyCrossMonth, c.CrossMonth, true},
		{RateKeyCIMB1M, c.CIMB1M, include.CIMB},
		{RateKeyPermata1M, c.Permata1M, include.Permata},
	}
	for _, r := range required {
		if r.need && !r.rate.IsPositive() {
			return &loan.MissingRateError{Key: r.key}
		}
	}
	return nil
}

// DefaultRateCard returns the conventional rate levels. Useful for demos
// and tests; production calls supply the day's actual quotes.
func DefaultRateCard() RateCard {
	return RateCard{
		Citi3M:     decimal.NewFromFloat(8.69),
		CitiCall:   decimal.NewFromFloat(7.75),
		SCBT1W:     decimal.NewFromFloat(6.20),
		SCBT2W:     decimal.NewFromFloat(6.60),
		CIMB1M:     decimal.NewFromFloat(7.00),
		Permata1M:  decimal.NewFromFloat(7.00),
		CrossMonth: decimal.NewFromFloat(9.20),
	}
}
