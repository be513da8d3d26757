package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"flightrank-engine/internal/config"
	"flightrank-engine/internal/events"
	"flightrank-engine/internal/search"
	"flightrank-engine/internal/store"
)

type SearchHandler struct {
	DB           *sql.DB
	CfgVal       *atomic.Value // config.Config
	SearchStatus *atomic.Value // httpapi.SearchStatus
	Running      *atomic.Bool  // single-flight guard; SearchStatus only reports
	Hub          *events.Hub
	RunSearch    func(ctx context.Context, db *sql.DB, cfg config.Config, req search.Request) (*search.Result, error)
}

func (h SearchHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.SearchStatus.Load().(SearchStatus)
	writeJSON(w, st)
}

// Run executes a search synchronously: the caller wants the ranking back, not
// a ticket. Concurrent runs are refused; the provider quota is shared.
func (h SearchHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req search.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	// CompareAndSwap is the actual exclusion; a load/store pair on the status
	// value would let two requests both see "idle" and both run.
	if !h.Running.CompareAndSwap(false, true) {
		WriteError(w, r, http.StatusConflict, "already_running", "a search is already in flight")
		return
	}
	defer h.Running.Store(false)

	st := h.SearchStatus.Load().(SearchStatus)
	now := time.Now().Format(time.RFC3339)
	h.SearchStatus.Store(SearchStatus{
		LastRunAt: now,
		Running:   true,
		LastOkAt:  st.LastOkAt,
	})

	cfg := h.CfgVal.Load().(config.Config)
	res, err := h.RunSearch(r.Context(), h.DB, cfg, req)

	done := time.Now().Format(time.RFC3339)
	next := h.SearchStatus.Load().(SearchStatus)
	next.Running = false
	next.LastRunAt = done
	if err != nil {
		next.LastError = err.Error()
		next.LastOffers = 0
		h.SearchStatus.Store(next)
		WriteEngineError(w, r, err)
		return
	}
	next.LastError = ""
	next.LastOkAt = done
	next.LastOffers = len(res.Ranked.Flights)
	h.SearchStatus.Store(next)

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, "search_completed", 1, map[string]any{
		"id":     res.ID,
		"offers": len(res.Ranked.Flights),
	}))

	writeJSON(w, res)
}

type HistoryHandler struct {
	DB  *sql.DB
	Hub *events.Hub
}

func (h HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	recs, err := store.ListSearches(r.Context(), h.DB, limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if recs == nil {
		recs = []store.SearchRecord{}
	}
	writeJSON(w, recs)
}

func (h HistoryHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/searches/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "missing search id")
		return
	}
	rec, err := store.GetSearch(r.Context(), h.DB, id)
	if err == sql.ErrNoRows {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such search")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, rec)
}

func (h HistoryHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/searches/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "missing search id")
		return
	}
	if err := store.DeleteSearch(r.Context(), h.DB, id); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, "search_deleted", 1, map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}
