/*
policies.go - Bank offer profiles built from a rate card

PURPOSE:
  Converts a validated RateCard + IncludeFlags into the concrete policy
  set the strategy builder runs: term products with fixed maximum segment
  widths, the whole-span CITI baseline, and the call-loan bridge
  facilities.

OFFER LINEUP:
  SCBT 1W     7-day term, cheapest standard rate
  SCBT 2W     14-day term
  CIMB 1M     30-day term (optional, include flag)
  Permata 1M  30-day term (optional, include flag)
  CITI 3M     whole-span baseline reference, never segmented
  CITI Call   bridge facility for month-end crossings

All segmentation policies share the general cross-month penalty rate.
*/
package banks

import (
	"github.com/warp/loan-engine/loan"
)

// Bank classes used for display categorization.
const (
	ClassSCBT     loan.BankClass = "scbt"
	ClassCIMB     loan.BankClass = "cimb"
	ClassPermata  loan.BankClass = "permata"
	ClassCiti     loan.BankClass = "citi"
	ClassCitiCall loan.BankClass = "citi-call"
)

// Policies returns the enabled segmentation policies in declaration order.
// Declaration order matters: the ranker breaks cost ties by it.
func Policies(card RateCard, include IncludeFlags) []loan.BankPolicy {
	policies := []loan.BankPolicy{
		{Name: "SCBT 1W", Class: ClassSCBT, MaxSegmentDays: 7, StandardRate: card.SCBT1W, CrossMonthRate: card.CrossMonth},
		{Name: "SCBT 2W", Class: ClassSCBT, MaxSegmentDays: 14, StandardRate: card.SCBT2W, CrossMonthRate: card.CrossMonth},
	}
	if include.CIMB {
		policies = append(policies, loan.BankPolicy{
			Name: "CIMB 1M", Class: ClassCIMB, MaxSegmentDays: 30,
			StandardRate: card.CIMB1M, CrossMonthRate: card.CrossMonth,
		})
	}
	if include.Permata {
		policies = append(policies, loan.BankPolicy{
			Name: "Permata 1M", Class: ClassPermata, MaxSegmentDays: 30,
			StandardRate: card.Permata1M, CrossMonthRate: card.CrossMonth,
		})
	}
	return policies
}

// BaselinePolicy returns the whole-span CITI 3M reference offer.
func BaselinePolicy(card RateCard) loan.BankPolicy {
	return loan.BankPolicy{
		Name:           "CITI 3M",
		Class:          ClassCiti,
		MaxSegmentDays: 365,
		StandardRate:   card.Citi3M,
		CrossMonthRate: card.CrossMonth,
	}
}

// Bridges returns the configured bridge facilities keyed by rate key.
func Bridges(card RateCard) map[string]loan.BridgeFacility {
	return map[string]loan.BridgeFacility{
		RateKeyCitiCall: {Name: "CITI Call", Class: ClassCitiCall, Rate: card.CitiCall},
	}
}

// SelectBridge picks the bridge facility to use. Priority is an ordered
// list of rate keys; the first configured one wins. An empty priority list
// falls back to the single default call facility.
func SelectBridge(card RateCard, priority []string) loan.BridgeFacility {
	bridges := Bridges(card)
	for _, key := range priority {
		if b, ok := bridges[key]; ok && b.Rate.IsPositive() {
			return b
		}
	}
	return bridges[RateKeyCitiCall]
}
