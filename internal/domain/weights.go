package domain

// WeightProfile is the traveler's five-dimension preference vector.
// Caller-supplied values may be zero or non-normalized; after validation
// (internal/rank) the weights are non-negative and sum to 1.0.
type WeightProfile struct {
	Price          float64 `json:"price" yaml:"price"`
	Duration       float64 `json:"duration" yaml:"duration"`
	LateArrival    float64 `json:"late_arrival" yaml:"late_arrival"`
	EarlyDeparture float64 `json:"early_departure" yaml:"early_departure"`
	NonDirect      float64 `json:"non_direct" yaml:"non_direct"`
}

func (w WeightProfile) Sum() float64 {
	return w.Price + w.Duration + w.LateArrival + w.EarlyDeparture + w.NonDirect
}

// IsZero reports whether every weight is exactly zero, which the validator
// treats as "value everything equally".
func (w WeightProfile) IsZero() bool {
	return w == WeightProfile{}
}
