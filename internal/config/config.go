package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"flightrank-engine/internal/domain"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Search struct {
		MaxOffers              int     `yaml:"max_offers" json:"max_offers"`
		ProviderTimeoutSeconds int     `yaml:"provider_timeout_seconds" json:"provider_timeout_seconds"`
		MaxRetries             int     `yaml:"max_retries" json:"max_retries"`
		RatePerSec             float64 `yaml:"rate_per_sec" json:"rate_per_sec"`
		RateBurst              int     `yaml:"rate_burst" json:"rate_burst"`
	} `yaml:"search" json:"search"`

	Providers struct {
		Amadeus struct {
			Enabled  bool   `yaml:"enabled" json:"enabled"`
			Host     string `yaml:"host" json:"host"`
			ClientID string `yaml:"client_id" json:"client_id"`
		} `yaml:"amadeus" json:"amadeus"`
	} `yaml:"providers" json:"providers"`

	Scoring struct {
		// Clock references for the time-of-day penalties, "HH:MM".
		ArrivalCutoff     string `yaml:"arrival_cutoff" json:"arrival_cutoff"`
		EarliestDeparture string `yaml:"earliest_departure" json:"earliest_departure"`

		// DropInvalid excludes offers with missing attributes instead of
		// failing the whole search.
		DropInvalid bool `yaml:"drop_invalid" json:"drop_invalid"`

		// DefaultWeights apply when a search request carries no profile.
		// Each weight is 0..5 at this boundary; the engine rescales them.
		DefaultWeights domain.WeightProfile `yaml:"default_weights" json:"default_weights"`
	} `yaml:"scoring" json:"scoring"`

	History struct {
		Keep       int `yaml:"keep" json:"keep"`
		PruneHours int `yaml:"prune_hours" json:"prune_hours"`
	} `yaml:"history" json:"history"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
