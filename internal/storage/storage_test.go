package storage

import (
	"testing"
	"time"
)

func sampleRecord(ts time.Time, confidence string) Record {
	return Record{
		Ts:              ts,
		Input:           map[string]float64{"Glucose": 120, "Age": 33},
		Prediction:      "Diabetic",
		Diabetic:        true,
		Probability:     0.83,
		Confidence:      confidence,
		ConfidenceScore: 0.83,
	}
}

func TestStore_StoreAndRecent(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Now()
	for i, conf := range []string{"Low", "Moderate", "High"} {
		rec := sampleRecord(base.Add(time.Duration(i)*time.Second), conf)
		if err := store.StorePrediction(rec); err != nil {
			t.Fatalf("store record %d: %v", i, err)
		}
	}

	got, err := store.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	// Newest first.
	if got[0].Confidence != "High" || got[1].Confidence != "Moderate" {
		t.Errorf("expected newest-first order, got %q then %q", got[0].Confidence, got[1].Confidence)
	}
	if got[0].Input["Glucose"] != 120 {
		t.Errorf("input not preserved: %v", got[0].Input)
	}
}

func TestStore_RecentMoreThanStored(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.StorePrediction(sampleRecord(time.Now(), "High")); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 record, got %d", len(got))
	}
}

func TestStore_SameTimestampKeysDoNotCollide(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ts := time.Now()
	for i := 0; i < 5; i++ {
		if err := store.StorePrediction(sampleRecord(ts, "High")); err != nil {
			t.Fatalf("store %d: %v", i, err)
		}
	}

	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("expected 5 records, got %d", len(got))
	}
}

func TestStore_CloseNil(t *testing.T) {
	var s *Store
	if err := s.Close(); err != nil {
		t.Errorf("closing a nil store should be a no-op, got %v", err)
	}
}

func TestStore_RecentZero(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	got, err := store.Recent(0)
	if err != nil || got != nil {
		t.Errorf("expected empty result for n=0, got %v %v", got, err)
	}
}
