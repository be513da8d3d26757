package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"flightrank-engine/internal/config"
	"flightrank-engine/internal/domain"
	"flightrank-engine/internal/search"
)

// RankHandler is the pure engine surface: offers in, ranking out.
// No retrieval, no persistence, no events.
type RankHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type rankRequest struct {
	Offers  []domain.FlightOffer `json:"offers"`
	Weights domain.WeightProfile `json:"weights"`
	Strict  bool                 `json:"strict"`
}

func (h RankHandler) Rank(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req rankRequest
	if err := dec.Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	eng, err := search.EngineFromConfig(cfg, req.Strict)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "bad_config", err.Error())
		return
	}

	res, err := eng.Rank(req.Offers, req.Weights)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	writeJSON(w, res)
}
