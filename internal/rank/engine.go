// Package rank is the multi-criteria scoring and ranking engine: it turns a
// batch of flight offers plus a traveler's weight profile into one ordered
// list of recommendations. The whole pipeline is a pure batch transformation;
// nothing is shared between calls.
package rank

import (
	"errors"
	"fmt"

	"flightrank-engine/internal/domain"
)

// Engine holds per-request policy, not state. Zero value is not useful; use
// New or fill RefTimes explicitly.
type Engine struct {
	Ref RefTimes

	// DropInvalid excludes offers with missing attributes and reports them as
	// warnings. When false, one bad offer rejects the whole batch.
	DropInvalid bool
}

func New() Engine {
	return Engine{Ref: DefaultRefTimes(), DropInvalid: true}
}

// Rank runs extract -> normalize -> score -> order over the batch.
// Weights are validated before any scoring work. Normalization is
// batch-relative, so min/max over all surviving offers is a hard
// synchronization point before any score exists.
func (e Engine) Rank(offers []domain.FlightOffer, weights domain.WeightProfile) (*domain.RankedResult, error) {
	w, err := ValidateWeights(weights)
	if err != nil {
		return nil, err
	}

	if len(offers) == 0 {
		return nil, fmt.Errorf("nothing to rank: %w", ErrEmptyBatch)
	}

	kept := make([]domain.FlightOffer, 0, len(offers))
	raws := make([]domain.Dimensions, 0, len(offers))
	var warnings []string
	for _, o := range offers {
		raw, err := Extract(o, e.Ref)
		if err != nil {
			if e.DropInvalid && errors.Is(err, ErrMissingAttribute) {
				warnings = append(warnings, err.Error())
				continue
			}
			return nil, err
		}
		kept = append(kept, o)
		raws = append(raws, raw)
	}

	norms, err := Normalize(raws)
	if err != nil {
		return nil, fmt.Errorf("nothing to rank: %w", err)
	}

	flights := make([]domain.ScoredFlight, len(kept))
	for i := range kept {
		flights[i] = domain.ScoredFlight{
			Offer:      kept[i],
			Raw:        raws[i],
			Normalized: norms[i],
			Composite:  Composite(norms[i], w),
		}
	}

	Order(flights)

	return &domain.RankedResult{Flights: flights, Warnings: warnings}, nil
}
