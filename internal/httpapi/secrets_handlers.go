package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"flightrank-engine/internal/config"
	"flightrank-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setAmadeusSecretReq struct {
	Secret string `json:"secret"`
}

func (h SecretsHandler) SetAmadeusSecret(w http.ResponseWriter, r *http.Request) {
	var req setAmadeusSecretReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetAmadeusSecret(secrets.AmadeusKeyringAccount(cfg), req.Secret); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_error", "failed to store secret: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
