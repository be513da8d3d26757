package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"flightrank-engine/internal/config"
	"flightrank-engine/internal/domain"
)

func testCfgVal() *atomic.Value {
	var cfg config.Config
	cfg.App.Port = 38472
	cfg.Search.ProviderTimeoutSeconds = 5
	cfg.Scoring.ArrivalCutoff = "22:00"
	cfg.Scoring.EarliestDeparture = "06:00"
	cfg.Scoring.DropInvalid = true
	cfg, _ = config.NormalizeAndValidate(cfg)

	var v atomic.Value
	v.Store(cfg)
	return &v
}

const rankBody = `{
  "offers": [
    {"id": "A", "price": 100, "departure_at": "2026-03-01T12:00:00Z", "arrival_at": "2026-03-01T14:00:00Z"},
    {"id": "B", "price": 80,  "departure_at": "2026-03-01T12:00:00Z", "arrival_at": "2026-03-01T16:00:00Z"}
  ],
  "weights": {"price": 1}
}`

func TestRankEndpoint(t *testing.T) {
	h := RankHandler{CfgVal: testCfgVal()}

	r := httptest.NewRequest(http.MethodPost, "/rank", strings.NewReader(rankBody))
	w := httptest.NewRecorder()
	h.Rank(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	var res domain.RankedResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if len(res.Flights) != 2 || res.Flights[0].Offer.ID != "B" {
		t.Errorf("price-weighted: want B first, got %+v", res.Flights)
	}
	if res.Flights[0].Rank != 1 {
		t.Errorf("rank = %d, want 1", res.Flights[0].Rank)
	}
}

func TestRankEndpointNegativeWeight(t *testing.T) {
	h := RankHandler{CfgVal: testCfgVal()}

	body := `{"offers": [], "weights": {"price": -1}}`
	r := httptest.NewRequest(http.MethodPost, "/rank", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Rank(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var e APIError
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	if e.Error.Code != "invalid_weight" {
		t.Errorf("code = %q, want invalid_weight", e.Error.Code)
	}
}

func TestRankEndpointEmptyBatch(t *testing.T) {
	h := RankHandler{CfgVal: testCfgVal()}

	body := `{"offers": [], "weights": {"price": 1}}`
	r := httptest.NewRequest(http.MethodPost, "/rank", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Rank(w, r)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	var e APIError
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	if e.Error.Code != "empty_batch" {
		t.Errorf("code = %q, want empty_batch", e.Error.Code)
	}
}

func TestRankEndpointRejectsUnknownFields(t *testing.T) {
	h := RankHandler{CfgVal: testCfgVal()}

	body := `{"flights": []}`
	r := httptest.NewRequest(http.MethodPost, "/rank", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Rank(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
