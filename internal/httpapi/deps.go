package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"flightrank-engine/internal/config"
	"flightrank-engine/internal/events"
	"flightrank-engine/internal/search"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	SearchStatus *atomic.Value // stores httpapi.SearchStatus
	Running      *atomic.Bool  // single-flight guard for /search

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Search entrypoint (inject for testability)
	RunSearch func(ctx context.Context, db *sql.DB, cfg config.Config, req search.Request) (*search.Result, error)
}
