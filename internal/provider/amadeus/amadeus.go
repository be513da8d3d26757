// Package amadeus talks to the Amadeus self-service flight-offers-search API.
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"flightrank-engine/internal/domain"
	"flightrank-engine/internal/provider"
	"flightrank-engine/internal/provider/util"
)

type Config struct {
	Host     string // test.api.amadeus.com or api.amadeus.com
	ClientID string
	// Secret resolves the API secret lazily so the keychain is only hit when
	// a search actually runs.
	Secret func() (string, error)
}

type Client struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter

	mu         sync.Mutex
	token      string
	tokenUntil time.Time
}

func New(cfg Config, limiter *util.HostLimiter) *Client {
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (c *Client) Name() string { return "amadeus" }

func (c *Client) Search(ctx context.Context, q provider.SearchQuery) ([]domain.FlightOffer, error) {
	if err := c.limiter.WaitHost(ctx, c.cfg.Host); err != nil {
		return nil, err
	}

	tok, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.Departure.Format("2006-01-02"))
	adults := q.Adults
	if adults <= 0 {
		adults = 1
	}
	params.Set("adults", strconv.Itoa(adults))
	if q.Currency != "" {
		params.Set("currencyCode", q.Currency)
	}
	if q.NonStopOnly {
		params.Set("nonStop", "true")
	}
	if q.MaxOffers > 0 {
		params.Set("max", strconv.Itoa(q.MaxOffers))
	}

	u := fmt.Sprintf("https://%s/v2/shopping/flight-offers?%s", c.cfg.Host, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("amadeus search: %w: %v", provider.ErrTemporary, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500 {
		return nil, fmt.Errorf("amadeus search status %d: %w", res.StatusCode, provider.ErrTemporary)
	}
	if res.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("amadeus search status %d: %s", res.StatusCode, string(b))
	}

	var body offersResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("amadeus decode: %w", err)
	}

	offers := make([]domain.FlightOffer, 0, len(body.Data))
	for _, raw := range body.Data {
		offer, err := mapOffer(raw)
		if err != nil {
			// one malformed offer shouldn't sink the whole search
			continue
		}
		offers = append(offers, offer)
	}
	return offers, nil
}
