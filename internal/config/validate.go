package config

import (
	"fmt"
	"strconv"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

const maxWeight = 5.0

// NormalizeAndValidate returns a normalized copy plus a report.
// Weights outside 0..5 are clamped with a warning rather than rejected;
// structural problems (bad times, bad port) are errors.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Search.MaxOffers <= 0 {
		out.Search.MaxOffers = 20
	} else if out.Search.MaxOffers > 250 {
		res.addWarn("search.max_offers is very high (%d); providers cap results anyway.", out.Search.MaxOffers)
	}
	if out.Search.ProviderTimeoutSeconds <= 0 {
		res.addErr("search.provider_timeout_seconds must be > 0")
	}
	if out.Search.MaxRetries < 0 {
		res.addErr("search.max_retries must be >= 0")
	}
	if out.Search.RatePerSec <= 0 {
		out.Search.RatePerSec = 1.0
	}
	if out.Search.RateBurst <= 0 {
		out.Search.RateBurst = 2
	}

	if out.Providers.Amadeus.Enabled {
		if strings.TrimSpace(out.Providers.Amadeus.Host) == "" {
			res.addErr("providers.amadeus.host is required when providers.amadeus.enabled=true")
		}
		if strings.TrimSpace(out.Providers.Amadeus.ClientID) == "" {
			res.addErr("providers.amadeus.client_id is required when providers.amadeus.enabled=true (secret lives in the keychain)")
		}
	} else {
		res.addWarn("no providers enabled; only POST /rank with caller-supplied offers will work.")
	}

	if strings.TrimSpace(out.Scoring.ArrivalCutoff) == "" {
		out.Scoring.ArrivalCutoff = "22:00"
	}
	if strings.TrimSpace(out.Scoring.EarliestDeparture) == "" {
		out.Scoring.EarliestDeparture = "06:00"
	}
	if _, err := ParseClock(out.Scoring.ArrivalCutoff); err != nil {
		res.addErr("scoring.arrival_cutoff: %v", err)
	}
	if _, err := ParseClock(out.Scoring.EarliestDeparture); err != nil {
		res.addErr("scoring.earliest_departure: %v", err)
	}

	clamp := func(name string, w *float64) {
		if *w < 0 {
			res.addWarn("scoring.default_weights.%s is negative (%v); clamped to 0.", name, *w)
			*w = 0
		}
		if *w > maxWeight {
			res.addWarn("scoring.default_weights.%s exceeds %v (%v); clamped.", name, maxWeight, *w)
			*w = maxWeight
		}
	}
	clamp("price", &out.Scoring.DefaultWeights.Price)
	clamp("duration", &out.Scoring.DefaultWeights.Duration)
	clamp("late_arrival", &out.Scoring.DefaultWeights.LateArrival)
	clamp("early_departure", &out.Scoring.DefaultWeights.EarlyDeparture)
	clamp("non_direct", &out.Scoring.DefaultWeights.NonDirect)

	if out.History.Keep <= 0 {
		out.History.Keep = 100
	}
	if out.History.PruneHours <= 0 {
		out.History.PruneHours = 24
	}

	return out, res
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%q is not HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%q has a bad hour", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%q has a bad minute", s)
	}
	return hour*60 + minute, nil
}
