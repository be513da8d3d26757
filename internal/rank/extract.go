package rank

import (
	"fmt"

	"flightrank-engine/internal/domain"
)

// RefTimes are the clock references for the time-of-day penalties, in minutes
// since midnight in the timestamp's own location. Defaults follow the usual
// traveler pain points: arrivals past 22:00 and departures before 06:00.
type RefTimes struct {
	ArrivalCutoffMin     int
	EarliestDepartureMin int
}

func DefaultRefTimes() RefTimes {
	return RefTimes{
		ArrivalCutoffMin:     22 * 60,
		EarliestDepartureMin: 6 * 60,
	}
}

// Extract derives the five raw lower-is-better scalars from an offer.
// Pure; returns ErrMissingAttribute (wrapped with the offer ID and field)
// when price, duration, or a timestamp is absent.
func Extract(o domain.FlightOffer, ref RefTimes) (domain.Dimensions, error) {
	var d domain.Dimensions

	if o.Price <= 0 {
		return d, fmt.Errorf("offer %s: price: %w", o.ID, ErrMissingAttribute)
	}
	if o.DepartureAt.IsZero() {
		return d, fmt.Errorf("offer %s: departure time: %w", o.ID, ErrMissingAttribute)
	}
	if o.ArrivalAt.IsZero() {
		return d, fmt.Errorf("offer %s: arrival time: %w", o.ID, ErrMissingAttribute)
	}
	if !o.ArrivalAt.After(o.DepartureAt) {
		return d, fmt.Errorf("offer %s: arrival not after departure: %w", o.ID, ErrMissingAttribute)
	}

	dur := o.Duration
	if dur <= 0 {
		dur = o.ArrivalAt.Sub(o.DepartureAt)
	}

	d.Price = o.Price
	d.Duration = dur.Minutes()
	d.LateArrival = minutesPast(o.ArrivalAt.Hour()*60+o.ArrivalAt.Minute(), ref.ArrivalCutoffMin)
	d.EarlyDeparture = minutesPast(ref.EarliestDepartureMin, o.DepartureAt.Hour()*60+o.DepartureAt.Minute())
	d.NonDirect = float64(stops(o))

	return d, nil
}

func minutesPast(at, cutoff int) float64 {
	if at <= cutoff {
		return 0
	}
	return float64(at - cutoff)
}

// stops never fails: missing stop count falls back to segments-1, floored at 0.
func stops(o domain.FlightOffer) int {
	if o.Stops > 0 {
		return o.Stops
	}
	if n := len(o.Segments) - 1; n > 0 {
		return n
	}
	return 0
}
