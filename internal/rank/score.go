package rank

import "flightrank-engine/internal/domain"

// Composite is the weighted sum of normalized dimension values. With
// normalized inputs in [0,1] and validated weights summing to 1, the result
// is in [0,1]. Pure and independent per offer.
func Composite(norm domain.Dimensions, w domain.WeightProfile) float64 {
	return w.Price*norm.Price +
		w.Duration*norm.Duration +
		w.LateArrival*norm.LateArrival +
		w.EarlyDeparture*norm.EarlyDeparture +
		w.NonDirect*norm.NonDirect
}
