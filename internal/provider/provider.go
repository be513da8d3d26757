// Package provider defines the boundary to external flight-data sources.
// The engine consumes plain FlightOffer batches; how a provider obtains them
// (REST, cache, fixture) is its own business.
package provider

import (
	"context"
	"errors"
	"time"

	"flightrank-engine/internal/domain"
)

type SearchQuery struct {
	Origin      string // IATA, e.g. "JFK"
	Destination string // IATA, e.g. "LAX"
	Departure   time.Time
	Adults      int
	Currency    string // ISO 4217, e.g. "USD"
	NonStopOnly bool
	MaxOffers   int
}

type Provider interface {
	Name() string
	Search(ctx context.Context, q SearchQuery) ([]domain.FlightOffer, error)
}

// ErrTemporary marks failures worth retrying (rate limits, 5xx, timeouts).
var ErrTemporary = errors.New("temporary provider error")
