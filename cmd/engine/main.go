package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"flightrank-engine/internal/config"
	"flightrank-engine/internal/events"
	"flightrank-engine/internal/httpapi"
	"flightrank-engine/internal/provider"
	"flightrank-engine/internal/provider/amadeus"
	"flightrank-engine/internal/provider/util"
	"flightrank-engine/internal/scheduler"
	"flightrank-engine/internal/search"
	"flightrank-engine/internal/secrets"
	"flightrank-engine/internal/store"
)

func main() {
	// Engine data dir: use env if provided (a desktop shell can pass one),
	// else local folder.
	dataDir := os.Getenv("FLIGHTRANK_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// Single-instance guard. Two engines sharing one sqlite file is a mess.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running in %s", dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		cfg, v := config.NormalizeAndValidate(cfg)
		for _, w := range v.Warnings {
			log.Printf("[config] warning: %s", w)
		}
		if !v.OK() {
			return cfg, fmt.Errorf("config invalid: %v", v.Errors)
		}
		return cfg, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "flightrank.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	var searchStatus atomic.Value
	searchStatus.Store(httpapi.SearchStatus{})
	var searchRunning atomic.Bool

	limiter := util.NewHostLimiter(cfg.Search.RatePerSec, cfg.Search.RateBurst)
	providers := buildProviders(&cfgVal, limiter)

	deps := httpapi.Deps{
		DB:           db.Pool,
		Hub:          hub,
		CfgVal:       &cfgVal,
		SearchStatus: &searchStatus,
		Running:      &searchRunning,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		RunSearch: func(ctx context.Context, d *sql.DB, c config.Config, req search.Request) (*search.Result, error) {
			return search.Run(ctx, d, c, providers, req)
		},
	}
	mux := httpapi.NewMux(deps)

	handler := httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	port := cfg.App.Port
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// /shutdown needs the server itself, so it hangs off main, not the router.
	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "shutdown.token"), []byte(token), 0o600); err != nil {
		log.Fatal(err)
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	// Background chores: keep history bounded, keep the WAL compact.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Every(ctx, time.Duration(cfg.History.PruneHours)*time.Hour, "prune", func(ctx context.Context) error {
		n, err := store.PruneSearches(ctx, db.Pool, cfg.History.Keep)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("[prune] removed %d old searches", n)
		}
		return nil
	})
	go scheduler.Every(ctx, 6*time.Hour, "checkpoint", func(ctx context.Context) error {
		_, err := db.Pool.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE);`)
		return err
	})

	log.Fatal(srv.Serve(ln))
}

// buildProviders wires every enabled provider against the live config. The
// secret resolver goes through the keychain on each token refresh, so rotating
// credentials never requires a restart.
func buildProviders(cfgVal *atomic.Value, limiter *util.HostLimiter) []provider.Provider {
	cfg := cfgVal.Load().(config.Config)

	var out []provider.Provider
	if cfg.Providers.Amadeus.Enabled {
		out = append(out, amadeus.New(amadeus.Config{
			Host:     cfg.Providers.Amadeus.Host,
			ClientID: cfg.Providers.Amadeus.ClientID,
			Secret: func() (string, error) {
				live := cfgVal.Load().(config.Config)
				return secrets.GetAmadeusSecret(secrets.AmadeusKeyringAccount(live))
			},
		}, limiter))
	}
	return out
}
