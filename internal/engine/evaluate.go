package engine

import (
	"sort"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
)

// Evaluate runs every card against p and ranks them by effective rate.
//
// A non-positive amount yields no results and no best card. Otherwise there
// is exactly one result per card, even for disabled ones, sorted best first;
// equal rates keep evaluation order. BestCard is the first result with a
// positive rate.
func Evaluate(p domain.Purchase, s domain.CardSettings) domain.EvaluationResult {
	if !(p.AmountAED > 0) {
		return domain.EvaluationResult{Results: []domain.CardResult{}}
	}

	f := DeriveFlags(p)
	results := make([]domain.CardResult, 0, len(cards))
	for _, c := range cards {
		results = append(results, c.Evaluate(p, f, s.Cards))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].EffectiveRate > results[j].EffectiveRate
	})

	var best *domain.CardResult
	for i := range results {
		if results[i].EffectiveRate > 0 {
			b := results[i]
			best = &b
			break
		}
	}

	return domain.EvaluationResult{BestCard: best, Results: results}
}
