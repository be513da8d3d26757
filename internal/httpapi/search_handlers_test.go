package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"flightrank-engine/internal/config"
	"flightrank-engine/internal/domain"
	"flightrank-engine/internal/events"
	"flightrank-engine/internal/search"
)

func statusVal(st SearchStatus) *atomic.Value {
	var v atomic.Value
	v.Store(st)
	return &v
}

func fakeRunSearch(res *search.Result, err error) func(context.Context, *sql.DB, config.Config, search.Request) (*search.Result, error) {
	return func(context.Context, *sql.DB, config.Config, search.Request) (*search.Result, error) {
		return res, err
	}
}

func searchReq() *http.Request {
	return httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"origin":"CAI","destination":"LHR"}`))
}

func TestSearchRunHappyPath(t *testing.T) {
	hub := events.NewHub()
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	res := &search.Result{
		ID: "s-1",
		Ranked: &domain.RankedResult{
			Flights: []domain.ScoredFlight{{Offer: domain.FlightOffer{ID: "A"}, Rank: 1}},
		},
	}
	h := SearchHandler{
		CfgVal:       testCfgVal(),
		SearchStatus: statusVal(SearchStatus{}),
		Running:      new(atomic.Bool),
		Hub:          hub,
		RunSearch:    fakeRunSearch(res, nil),
	}

	w := httptest.NewRecorder()
	h.Run(w, searchReq())

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	st := h.SearchStatus.Load().(SearchStatus)
	if st.Running || st.LastError != "" || st.LastOffers != 1 {
		t.Errorf("status after run: %+v", st)
	}
	if h.Running.Load() {
		t.Error("single-flight guard not released")
	}

	select {
	case msg := <-sub:
		var e events.Event
		_ = json.Unmarshal([]byte(msg), &e)
		if e.Type != "search_completed" {
			t.Errorf("event type = %q", e.Type)
		}
	default:
		t.Error("no search_completed event published")
	}
}

func TestSearchRunRefusesConcurrent(t *testing.T) {
	running := new(atomic.Bool)
	running.Store(true)
	h := SearchHandler{
		CfgVal:       testCfgVal(),
		SearchStatus: statusVal(SearchStatus{Running: true}),
		Running:      running,
		Hub:          events.NewHub(),
		RunSearch:    fakeRunSearch(nil, errors.New("should not be called")),
	}

	w := httptest.NewRecorder()
	h.Run(w, searchReq())

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if !running.Load() {
		t.Error("a rejected request must not clear the guard")
	}
}

func TestSearchRunSingleFlightUnderRace(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	h := SearchHandler{
		CfgVal:       testCfgVal(),
		SearchStatus: statusVal(SearchStatus{}),
		Running:      new(atomic.Bool),
		Hub:          events.NewHub(),
		RunSearch: func(context.Context, *sql.DB, config.Config, search.Request) (*search.Result, error) {
			close(entered)
			<-release
			return &search.Result{ID: "only", Ranked: &domain.RankedResult{}}, nil
		},
	}

	winner := make(chan int, 1)
	go func() {
		w := httptest.NewRecorder()
		h.Run(w, searchReq())
		winner <- w.Code
	}()
	<-entered

	// While the first request is parked inside RunSearch, every other
	// request must bounce off the guard.
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.Run(w, searchReq())
		if w.Code != http.StatusConflict {
			t.Errorf("concurrent request %d: status = %d, want 409", i, w.Code)
		}
	}

	close(release)
	if code := <-winner; code != http.StatusOK {
		t.Errorf("winner status = %d, want 200", code)
	}
	if h.Running.Load() {
		t.Error("guard still held after the run finished")
	}
}

func TestSearchRunRecordsFailure(t *testing.T) {
	h := SearchHandler{
		CfgVal:       testCfgVal(),
		SearchStatus: statusVal(SearchStatus{}),
		Running:      new(atomic.Bool),
		Hub:          events.NewHub(),
		RunSearch:    fakeRunSearch(nil, errors.New("provider down")),
	}

	w := httptest.NewRecorder()
	h.Run(w, searchReq())

	if w.Code == http.StatusOK {
		t.Fatal("failed search must not return 200")
	}
	st := h.SearchStatus.Load().(SearchStatus)
	if st.Running || st.LastError == "" {
		t.Errorf("status after failure: %+v", st)
	}
	if h.Running.Load() {
		t.Error("single-flight guard not released after failure")
	}
}
