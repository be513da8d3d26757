package rank

import (
	"fmt"
	"math"

	"flightrank-engine/internal/domain"
)

const weightTolerance = 1e-9

// UniformWeights values every dimension equally.
func UniformWeights() domain.WeightProfile {
	return domain.WeightProfile{
		Price:          0.2,
		Duration:       0.2,
		LateArrival:    0.2,
		EarlyDeparture: 0.2,
		NonDirect:      0.2,
	}
}

// ValidateWeights turns raw caller weights into the canonical profile used
// downstream. Negative weights are rejected. All-zero input substitutes
// uniform weights: no stated preference means "value everything equally",
// not "value nothing". Anything else is rescaled to sum to exactly 1.0.
func ValidateWeights(raw domain.WeightProfile) (domain.WeightProfile, error) {
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"price", raw.Price},
		{"duration", raw.Duration},
		{"late_arrival", raw.LateArrival},
		{"early_departure", raw.EarlyDeparture},
		{"non_direct", raw.NonDirect},
	} {
		if f.val < 0 {
			return domain.WeightProfile{}, fmt.Errorf("%s weight %v is negative: %w", f.name, f.val, ErrInvalidWeight)
		}
	}

	sum := raw.Sum()
	if sum < weightTolerance {
		return UniformWeights(), nil
	}

	out := domain.WeightProfile{
		Price:          raw.Price / sum,
		Duration:       raw.Duration / sum,
		LateArrival:    raw.LateArrival / sum,
		EarlyDeparture: raw.EarlyDeparture / sum,
		NonDirect:      raw.NonDirect / sum,
	}
	if math.Abs(out.Sum()-1.0) > weightTolerance {
		return domain.WeightProfile{}, fmt.Errorf("weights do not normalize to 1.0 (sum=%v): %w", out.Sum(), ErrInvalidWeight)
	}
	return out, nil
}
