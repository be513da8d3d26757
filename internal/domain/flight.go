package domain

import "time"

type Segment struct {
	CarrierCode  string     `json:"carrier_code"`
	FlightNumber string     `json:"flight_number"`
	Origin       string     `json:"origin"`
	Destination  string     `json:"destination"`
	DepartureAt  time.Time  `json:"departure_at"`
	ArrivalAt    time.Time  `json:"arrival_at"`
}

// FlightOffer is one priced, bookable itinerary candidate. Immutable once
// built; the engine never mutates offers, it only derives scores from them.
type FlightOffer struct {
	ID          string        `json:"id"`
	Provider    string        `json:"provider,omitempty"`
	Price       float64       `json:"price"`
	Currency    string        `json:"currency"`
	Duration    time.Duration `json:"duration"`
	DepartureAt time.Time     `json:"departure_at"`
	ArrivalAt   time.Time     `json:"arrival_at"`
	Stops       int           `json:"stops"`
	Segments    []Segment     `json:"segments,omitempty"`
}

// Dimensions holds one value per scoring axis. Used both for raw extracted
// attributes (native units, lower is better) and for normalized scores
// (each in [0,1], 1 is best).
type Dimensions struct {
	Price          float64 `json:"price"`
	Duration       float64 `json:"duration"`
	LateArrival    float64 `json:"late_arrival"`
	EarlyDeparture float64 `json:"early_departure"`
	NonDirect      float64 `json:"non_direct"`
}

// ScoredFlight is an offer plus its normalized dimension values and the
// composite score. Produced fresh per ranking request, never persisted as-is.
type ScoredFlight struct {
	Offer      FlightOffer `json:"offer"`
	Raw        Dimensions  `json:"raw"`
	Normalized Dimensions  `json:"normalized"`
	Composite  float64     `json:"composite"`
	Rank       int         `json:"rank"` // 1-based; exact ties share a rank
}

// RankedResult is the final ordered list, best first. Warnings report offers
// that were dropped for missing attributes when the caller allows dropping.
type RankedResult struct {
	Flights  []ScoredFlight `json:"flights"`
	Warnings []string       `json:"warnings,omitempty"`
}
