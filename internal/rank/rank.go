package rank

import (
	"sort"

	"flightrank-engine/internal/domain"
)

// Order sorts scored flights best-first and assigns 1-based ranks.
// Composite score descending; ties broken by lower raw price, then shorter
// raw duration, then original input order (SliceStable keeps it). Only offers
// identical on score, price, and duration share a rank value.
func Order(flights []domain.ScoredFlight) {
	sort.SliceStable(flights, func(i, j int) bool {
		if flights[i].Composite != flights[j].Composite {
			return flights[i].Composite > flights[j].Composite
		}
		if flights[i].Raw.Price != flights[j].Raw.Price {
			return flights[i].Raw.Price < flights[j].Raw.Price
		}
		if flights[i].Raw.Duration != flights[j].Raw.Duration {
			return flights[i].Raw.Duration < flights[j].Raw.Duration
		}
		return false
	})

	for i := range flights {
		if i > 0 && sameRankKey(flights[i], flights[i-1]) {
			flights[i].Rank = flights[i-1].Rank
			continue
		}
		flights[i].Rank = i + 1
	}
}

func sameRankKey(a, b domain.ScoredFlight) bool {
	return a.Composite == b.Composite &&
		a.Raw.Price == b.Raw.Price &&
		a.Raw.Duration == b.Raw.Duration
}
