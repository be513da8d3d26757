package rank

import (
	"errors"
	"testing"

	"flightrank-engine/internal/domain"
)

func TestNormalizeRangeAndOrientation(t *testing.T) {
	raw := []domain.Dimensions{
		{Price: 80, Duration: 240, LateArrival: 0, EarlyDeparture: 0, NonDirect: 0},
		{Price: 100, Duration: 120, LateArrival: 30, EarlyDeparture: 60, NonDirect: 1},
		{Price: 150, Duration: 180, LateArrival: 90, EarlyDeparture: 0, NonDirect: 2},
	}

	norm, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	for i, n := range norm {
		for name, v := range map[string]float64{
			"price":           n.Price,
			"duration":        n.Duration,
			"late_arrival":    n.LateArrival,
			"early_departure": n.EarlyDeparture,
			"non_direct":      n.NonDirect,
		} {
			if v < 0 || v > 1 {
				t.Errorf("offer %d %s = %v, outside [0,1]", i, name, v)
			}
		}
	}

	// Cheapest offer gets 1.0 on price, most expensive 0.0.
	if norm[0].Price != 1.0 {
		t.Errorf("cheapest price score = %v, want 1.0", norm[0].Price)
	}
	if norm[2].Price != 0.0 {
		t.Errorf("priciest price score = %v, want 0.0", norm[2].Price)
	}
	// Shortest duration is best.
	if norm[1].Duration != 1.0 {
		t.Errorf("shortest duration score = %v, want 1.0", norm[1].Duration)
	}
}

func TestNormalizeDegenerateAxis(t *testing.T) {
	// All offers direct: nonDirect carries no information, everyone gets 1.0.
	raw := []domain.Dimensions{
		{Price: 80, Duration: 120, NonDirect: 0},
		{Price: 120, Duration: 240, NonDirect: 0},
	}
	norm, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	for i, n := range norm {
		if n.NonDirect != 1.0 {
			t.Errorf("offer %d degenerate axis = %v, want 1.0", i, n.NonDirect)
		}
	}
}

func TestNormalizeSingleOffer(t *testing.T) {
	norm, err := Normalize([]domain.Dimensions{{Price: 99, Duration: 60}})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	// Every axis is degenerate with one candidate.
	if norm[0].Price != 1.0 || norm[0].Duration != 1.0 {
		t.Errorf("single offer should score 1.0 everywhere, got %+v", norm[0])
	}
}

func TestNormalizeEmptyBatch(t *testing.T) {
	if _, err := Normalize(nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("err = %v, want ErrEmptyBatch", err)
	}
}
