package httpapi

import (
	"net/http"
	"sync/atomic"
)

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Pure engine: offers in, ranking out.
	rh := RankHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/rank", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Rank,
	}))

	// Full search: fetch from providers, rank, persist.
	running := d.Running
	if running == nil {
		running = new(atomic.Bool)
	}
	sh := SearchHandler{
		DB:           d.DB,
		CfgVal:       d.CfgVal,
		SearchStatus: d.SearchStatus,
		Running:      running,
		Hub:          d.Hub,
		RunSearch:    d.RunSearch,
	}
	mux.HandleFunc("/search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Run,
	}))
	mux.HandleFunc("/search/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Status,
	}))

	// History
	hh := HistoryHandler{DB: d.DB, Hub: d.Hub}
	mux.HandleFunc("/searches", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.List,
	}))
	mux.HandleFunc("/searches/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    hh.GetByPath,
		http.MethodDelete: hh.DeleteByPath,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sech := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/amadeus", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sech.SetAmadeusSecret,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health + maintenance
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))
	dbh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dbh.Checkpoint,
	}))

	return mux
}
