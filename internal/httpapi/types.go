package httpapi

type SearchStatus struct {
	LastRunAt  string `json:"last_run_at"`
	LastOkAt   string `json:"last_ok_at"`
	LastError  string `json:"last_error"`
	LastOffers int    `json:"last_offers"`
	Running    bool   `json:"running"`
}
