package loan

import "sort"

// =============================================================================
// STRATEGY RANKER - Pick the cheapest valid strategy
// =============================================================================

// RankResult carries the input strategies untouched (for display in
// declaration order), the cost-ascending view of the valid ones, and the
// winner. Best is nil when no valid strategy exists - callers treat that
// as an empty result, not an error.
type RankResult struct {
	Strategies []Strategy
	Ranked     []Strategy
	Best       *Strategy
}

// Rank filters invalid strategies and stable-sorts the rest ascending by
// total interest. The stable sort means cost ties keep declaration order,
// so the first-declared policy wins a tie.
func Rank(strategies []Strategy) RankResult {
	ranked := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s.IsValid() {
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalInterest().LessThan(ranked[j].TotalInterest())
	})

	result := RankResult{Strategies: strategies, Ranked: ranked}
	if len(ranked) > 0 {
		result.Best = &ranked[0]
	}
	return result
}
