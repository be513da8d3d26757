package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"flightrank-engine/internal/domain"
)

// SearchRecord is one completed ranking run kept for history. The full
// RankedResult rides along as JSON; listing endpoints skip it.
type SearchRecord struct {
	ID            string               `json:"id"`
	Origin        string               `json:"origin"`
	Destination   string               `json:"destination"`
	DepartureDate string               `json:"departure_date"`
	Currency      string               `json:"currency"`
	Weights       domain.WeightProfile `json:"weights"`
	Result        *domain.RankedResult `json:"result,omitempty"`
	OfferCount    int                  `json:"offer_count"`
	CreatedAt     time.Time            `json:"created_at"`
}

func InsertSearch(ctx context.Context, db *sql.DB, rec SearchRecord) error {
	weightsB, err := json.Marshal(rec.Weights)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	resultB, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = db.ExecContext(ctx, `
INSERT INTO searches (id, origin, destination, departure_date, currency, weights, result, offer_count, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		rec.ID, rec.Origin, rec.Destination, rec.DepartureDate, rec.Currency,
		string(weightsB), string(resultB), rec.OfferCount, rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

func ListSearches(ctx context.Context, db *sql.DB, limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, origin, destination, departure_date, currency, weights, offer_count, created_at
FROM searches
ORDER BY created_at DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SearchRecord
	for rows.Next() {
		var rec SearchRecord
		var weightsJSON, createdStr string
		if err := rows.Scan(&rec.ID, &rec.Origin, &rec.Destination, &rec.DepartureDate,
			&rec.Currency, &weightsJSON, &rec.OfferCount, &createdStr); err != nil {
			return nil, err
		}
		// Corrupted rows still list, but loudly: a zeroed weight profile is
		// indistinguishable from a legitimate one otherwise.
		if err := json.Unmarshal([]byte(weightsJSON), &rec.Weights); err != nil {
			log.Printf("level=warn msg=\"bad weights json in history\" id=%s err=%v", rec.ID, err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
			log.Printf("level=warn msg=\"bad created_at in history\" id=%s value=%q err=%v", rec.ID, createdStr, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func GetSearch(ctx context.Context, db *sql.DB, id string) (*SearchRecord, error) {
	var rec SearchRecord
	var weightsJSON, resultJSON, createdStr string
	err := db.QueryRowContext(ctx, `
SELECT id, origin, destination, departure_date, currency, weights, result, offer_count, created_at
FROM searches
WHERE id = ?;`, id).Scan(&rec.ID, &rec.Origin, &rec.Destination, &rec.DepartureDate,
		&rec.Currency, &weightsJSON, &resultJSON, &rec.OfferCount, &createdStr)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(weightsJSON), &rec.Weights); err != nil {
		return nil, fmt.Errorf("search %s: decode weights: %w", id, err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return nil, fmt.Errorf("search %s: decode result: %w", id, err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		log.Printf("level=warn msg=\"bad created_at in history\" id=%s value=%q err=%v", id, createdStr, err)
	}
	return &rec, nil
}

func DeleteSearch(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM searches WHERE id = ?;`, id)
	return err
}

// PruneSearches keeps the newest keep rows and drops the rest.
func PruneSearches(ctx context.Context, db *sql.DB, keep int) (int64, error) {
	if keep <= 0 {
		keep = 100
	}
	res, err := db.ExecContext(ctx, `
DELETE FROM searches
WHERE id NOT IN (SELECT id FROM searches ORDER BY created_at DESC LIMIT ?);`, keep)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
