package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"flightrank-engine/internal/rank"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// WriteEngineError maps the engine's error taxonomy onto API codes. Anything
// unrecognized is the caller's input being wrong in a less structured way.
func WriteEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, rank.ErrInvalidWeight):
		WriteError(w, r, http.StatusBadRequest, "invalid_weight", err.Error())
	case errors.Is(err, rank.ErrEmptyBatch):
		WriteError(w, r, http.StatusUnprocessableEntity, "empty_batch", err.Error())
	case errors.Is(err, rank.ErrMissingAttribute):
		WriteError(w, r, http.StatusBadRequest, "missing_attribute", err.Error())
	default:
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
	}
}
