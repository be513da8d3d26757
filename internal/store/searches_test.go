package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"flightrank-engine/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleRecord(id string, at time.Time) SearchRecord {
	return SearchRecord{
		ID:            id,
		Origin:        "CAI",
		Destination:   "LHR",
		DepartureDate: "2026-03-01",
		Currency:      "USD",
		Weights:       domain.WeightProfile{Price: 0.6, Duration: 0.4},
		Result: &domain.RankedResult{
			Flights: []domain.ScoredFlight{{Offer: domain.FlightOffer{ID: "F1", Price: 100}, Composite: 0.9, Rank: 1}},
		},
		OfferCount: 1,
		CreatedAt:  at,
	}
}

func TestInsertGetRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	rec := sampleRecord("s1", time.Now())
	if err := InsertSearch(ctx, db.Pool, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := GetSearch(ctx, db.Pool, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Origin != "CAI" || got.Destination != "LHR" {
		t.Errorf("route = %s-%s", got.Origin, got.Destination)
	}
	if got.Weights.Price != 0.6 {
		t.Errorf("weights round trip: %+v", got.Weights)
	}
	if got.Result == nil || len(got.Result.Flights) != 1 || got.Result.Flights[0].Rank != 1 {
		t.Errorf("result round trip: %+v", got.Result)
	}
}

func TestListNewestFirstWithoutResult(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	now := time.Now()
	for i, id := range []string{"old", "mid", "new"} {
		if err := InsertSearch(ctx, db.Pool, sampleRecord(id, now.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	list, err := ListSearches(ctx, db.Pool, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "new" || list[2].ID != "old" {
		t.Errorf("unexpected order: %+v", list)
	}
	if list[0].Result != nil {
		t.Error("listing should not hydrate the full result")
	}
}

func TestCorruptRowsAreSurfaced(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.Pool.ExecContext(ctx, `
INSERT INTO searches (id, origin, destination, departure_date, currency, weights, result, offer_count, created_at)
VALUES ('junk', 'CAI', 'LHR', '2026-03-01', 'USD', 'not json', '{{{', 0, 'not a time');`)
	if err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	// Reading the full record must report the decode failure, not hand back
	// a silently zeroed result.
	if _, err := GetSearch(ctx, db.Pool, "junk"); err == nil {
		t.Error("GetSearch on a corrupt row should fail")
	}

	// Listing stays best-effort so one bad row cannot hide the rest.
	if err := InsertSearch(ctx, db.Pool, sampleRecord("good", time.Now())); err != nil {
		t.Fatalf("insert: %v", err)
	}
	list, err := ListSearches(ctx, db.Pool, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("list returned %d rows, want 2", len(list))
	}
}

func TestDeleteAndPrune(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	now := time.Now()
	for i := 0; i < 5; i++ {
		rec := sampleRecord(string(rune('a'+i)), now.Add(time.Duration(i)*time.Minute))
		if err := InsertSearch(ctx, db.Pool, rec); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	if err := DeleteSearch(ctx, db.Pool, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	pruned, err := PruneSearches(ctx, db.Pool, 2)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 2 {
		t.Errorf("pruned = %d, want 2", pruned)
	}

	list, _ := ListSearches(ctx, db.Pool, 10)
	if len(list) != 2 || list[0].ID != "e" || list[1].ID != "d" {
		t.Errorf("after prune: %+v", list)
	}
}
