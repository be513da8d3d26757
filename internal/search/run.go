// Package search orchestrates one ranking run: fan out to flight providers,
// merge and dedup the offers, hand the batch to the rank engine, and record
// the outcome.
package search

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"flightrank-engine/internal/config"
	"flightrank-engine/internal/domain"
	"flightrank-engine/internal/provider"
	"flightrank-engine/internal/rank"
	"flightrank-engine/internal/store"
)

type Request struct {
	Origin      string                `json:"origin"`
	Destination string                `json:"destination"`
	Departure   time.Time             `json:"departure"`
	Currency    string                `json:"currency"`
	NonStopOnly bool                  `json:"non_stop_only"`
	Weights     *domain.WeightProfile `json:"weights,omitempty"` // nil -> config defaults
	Strict      bool                  `json:"strict"`            // reject the batch on any missing attribute
}

type Result struct {
	ID              string               `json:"id"`
	Request         Request              `json:"request"`
	Weights         domain.WeightProfile `json:"weights"`
	Ranked          *domain.RankedResult `json:"ranked"`
	ProvidersAsked  int                  `json:"providers_asked"`
	ProvidersFailed []string             `json:"providers_failed,omitempty"`
	TookMs          int64                `json:"took_ms"`
}

// EngineFromConfig builds the rank engine policy out of the validated config.
func EngineFromConfig(cfg config.Config, strict bool) (rank.Engine, error) {
	arr, err := config.ParseClock(cfg.Scoring.ArrivalCutoff)
	if err != nil {
		return rank.Engine{}, fmt.Errorf("arrival cutoff: %w", err)
	}
	dep, err := config.ParseClock(cfg.Scoring.EarliestDeparture)
	if err != nil {
		return rank.Engine{}, fmt.Errorf("earliest departure: %w", err)
	}
	return rank.Engine{
		Ref:         rank.RefTimes{ArrivalCutoffMin: arr, EarliestDepartureMin: dep},
		DropInvalid: cfg.Scoring.DropInvalid && !strict,
	}, nil
}

// Run executes the whole search. Provider failures are best-effort (reported,
// not fatal) as long as at least one provider returns offers.
func Run(ctx context.Context, db *sql.DB, cfg config.Config, providers []provider.Provider, req Request) (*Result, error) {
	start := time.Now()

	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		return nil, errors.New("origin and destination are required")
	}
	if req.Departure.IsZero() {
		req.Departure = time.Now().AddDate(0, 0, 1)
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	eng, err := EngineFromConfig(cfg, req.Strict)
	if err != nil {
		return nil, err
	}

	weights := cfg.Scoring.DefaultWeights
	if req.Weights != nil {
		weights = *req.Weights
	}

	query := provider.SearchQuery{
		Origin:      strings.ToUpper(req.Origin),
		Destination: strings.ToUpper(req.Destination),
		Departure:   req.Departure,
		Adults:      1,
		Currency:    req.Currency,
		NonStopOnly: req.NonStopOnly,
		MaxOffers:   cfg.Search.MaxOffers,
	}

	offers, failed := collect(ctx, cfg, providers, query)

	ranked, err := eng.Rank(offers, weights)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ID:              uuid.NewString(),
		Request:         req,
		Weights:         weights,
		Ranked:          ranked,
		ProvidersAsked:  len(providers),
		ProvidersFailed: failed,
		TookMs:          time.Since(start).Milliseconds(),
	}

	if db != nil {
		rec := store.SearchRecord{
			ID:            res.ID,
			Origin:        query.Origin,
			Destination:   query.Destination,
			DepartureDate: query.Departure.Format("2006-01-02"),
			Currency:      query.Currency,
			Weights:       weights,
			Result:        ranked,
			OfferCount:    len(ranked.Flights),
			CreatedAt:     time.Now(),
		}
		if err := store.InsertSearch(ctx, db, rec); err != nil {
			log.Printf("[search] persist failed id=%s err=%v", res.ID, err)
		}
	}

	return res, nil
}

func collect(ctx context.Context, cfg config.Config, providers []provider.Provider, query provider.SearchQuery) ([]domain.FlightOffer, []string) {
	var g errgroup.Group

	type fetchResult struct {
		name   string
		offers []domain.FlightOffer
		err    error
	}
	results := make(chan fetchResult, len(providers))
	timeout := time.Duration(cfg.Search.ProviderTimeoutSeconds) * time.Second

	for _, p := range providers {
		p := p
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			log.Printf("[%s] searching %s-%s %s", p.Name(), query.Origin, query.Destination, query.Departure.Format("2006-01-02"))
			offers, err := searchWithRetry(pctx, p, query, cfg.Search.MaxRetries)
			results <- fetchResult{name: p.Name(), offers: offers, err: err}
			return nil // best-effort: don't cancel siblings
		})
	}
	_ = g.Wait()
	close(results)

	var offers []domain.FlightOffer
	var failed []string
	for res := range results {
		if res.err != nil {
			log.Printf("[provider:%s] error: %v", res.name, res.err)
			failed = append(failed, res.name)
			continue
		}
		offers = append(offers, res.offers...)
	}
	return dedup(offers), failed
}

func searchWithRetry(ctx context.Context, p provider.Provider, query provider.SearchQuery, maxRetries int) ([]domain.FlightOffer, error) {
	backoff := 200 * time.Millisecond
	for attempt := 0; ; attempt++ {
		offers, err := p.Search(ctx, query)
		if err == nil {
			return offers, nil
		}
		if !errors.Is(err, provider.ErrTemporary) || attempt == maxRetries {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

// dedup keeps the cheapest copy of itineraries that multiple providers (or a
// flaky one) returned twice. Input order of the survivors is preserved so the
// ranker's stable tie-break stays deterministic.
func dedup(offers []domain.FlightOffer) []domain.FlightOffer {
	if len(offers) < 2 {
		return offers
	}
	best := make(map[string]int, len(offers)) // key -> index in out
	out := make([]domain.FlightOffer, 0, len(offers))
	for _, o := range offers {
		k := offerKey(o)
		if i, ok := best[k]; ok {
			if o.Price < out[i].Price {
				out[i] = o
			}
			continue
		}
		best[k] = len(out)
		out = append(out, o)
	}
	return out
}

func offerKey(o domain.FlightOffer) string {
	parts := []string{
		o.DepartureAt.Format(time.RFC3339),
		o.ArrivalAt.Format(time.RFC3339),
	}
	for _, s := range o.Segments {
		parts = append(parts, s.CarrierCode+s.FlightNumber)
	}
	return strings.Join(parts, "|")
}
