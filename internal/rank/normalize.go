package rank

import "flightrank-engine/internal/domain"

// Normalize rescales every dimension across the whole batch onto [0,1] with
// 1 meaning best. All raw dimensions are lower-is-better, so the scale is
// inverted: 1 - (raw-min)/(max-min). When max == min the axis carries no
// information and every offer gets 1.0 on it, so an undiscriminating weight
// contributes a constant instead of a penalty.
//
// Normalization is deliberately batch-relative: "late" or "expensive" only
// mean anything against the other candidates in this search.
func Normalize(raw []domain.Dimensions) ([]domain.Dimensions, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyBatch
	}

	lo, hi := raw[0], raw[0]
	for _, d := range raw[1:] {
		lo.Price = min(lo.Price, d.Price)
		hi.Price = max(hi.Price, d.Price)
		lo.Duration = min(lo.Duration, d.Duration)
		hi.Duration = max(hi.Duration, d.Duration)
		lo.LateArrival = min(lo.LateArrival, d.LateArrival)
		hi.LateArrival = max(hi.LateArrival, d.LateArrival)
		lo.EarlyDeparture = min(lo.EarlyDeparture, d.EarlyDeparture)
		hi.EarlyDeparture = max(hi.EarlyDeparture, d.EarlyDeparture)
		lo.NonDirect = min(lo.NonDirect, d.NonDirect)
		hi.NonDirect = max(hi.NonDirect, d.NonDirect)
	}

	out := make([]domain.Dimensions, len(raw))
	for i, d := range raw {
		out[i] = domain.Dimensions{
			Price:          invert(d.Price, lo.Price, hi.Price),
			Duration:       invert(d.Duration, lo.Duration, hi.Duration),
			LateArrival:    invert(d.LateArrival, lo.LateArrival, hi.LateArrival),
			EarlyDeparture: invert(d.EarlyDeparture, lo.EarlyDeparture, hi.EarlyDeparture),
			NonDirect:      invert(d.NonDirect, lo.NonDirect, hi.NonDirect),
		}
	}
	return out, nil
}

func invert(val, lo, hi float64) float64 {
	if hi > lo {
		return 1.0 - (val-lo)/(hi-lo)
	}
	return 1.0
}
