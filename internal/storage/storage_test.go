package storage

import (
	"errors"
	"testing"

	"github.com/pable/go-cricket-metrics/internal/metrics"
	"github.com/pable/go-cricket-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func buildStore(t *testing.T) *metrics.Store {
	t.Helper()
	var events []model.BallEvent
	add := func(match string, year, over, ball int, batsman, style string, runs int, chase float64) {
		e := model.BallEvent{
			MatchID: match, Year: year, Over: over, BallInOver: ball,
			Batsman: batsman, Team: "MI", BowlingStyle: style, Runs: runs, Innings: 1,
		}
		if chase > 0 {
			e.Innings = 2
			e.HasChaseContext = true
			e.RequiredRunRate = chase
		}
		events = append(events, e)
	}
	add("m1", 2023, 3, 1, "rohit", "Right-arm fast", 4, 0)
	add("m1", 2023, 3, 2, "rohit", "Right-arm fast", 1, 0)
	add("m1", 2023, 17, 1, "hardik", "Leg-break", 6, 9.5)
	add("m1", 2023, 17, 2, "hardik", "Leg-break", 2, 9.5)
	add("m2", 2022, 10, 4, "rohit", "Left-arm orthodox", 0, 0)

	store, err := metrics.Build(events)
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	return store
}

func TestSaveAndLoadStoreRoundTrip(t *testing.T) {
	db := openMemDB(t)
	want := buildStore(t)

	if err := db.SaveStore(want); err != nil {
		t.Fatalf("SaveStore: %v", err)
	}

	got, err := db.LoadStore()
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}

	if len(got.Entries()) != len(want.Entries()) {
		t.Fatalf("entries: got %d, want %d", len(got.Entries()), len(want.Entries()))
	}
	for i, e := range want.Entries() {
		if got.Entries()[i] != e {
			t.Errorf("entry %d: got %+v, want %+v", i, got.Entries()[i], e)
		}
	}
	for i, im := range want.Impacts() {
		if got.Impacts()[i] != im {
			t.Errorf("impact %d: got %+v, want %+v", i, got.Impacts()[i], im)
		}
	}
	for i, m := range want.Matchups() {
		if got.Matchups()[i] != m {
			t.Errorf("matchup %d: got %+v, want %+v", i, got.Matchups()[i], m)
		}
	}
	if got.MaxYear() != want.MaxYear() {
		t.Errorf("max year: got %d, want %d", got.MaxYear(), want.MaxYear())
	}

	p, err := got.Profile("hardik")
	if err != nil {
		t.Fatalf("Profile after reload: %v", err)
	}
	if p.Recency.Status != model.RecencyActive {
		t.Errorf("recency after reload: got %v, want Active", p.Recency.Status)
	}
	if p.ChaseMatches != 1 {
		t.Errorf("chase matches after reload: got %d, want 1", p.ChaseMatches)
	}
}

func TestSaveStoreReplacesPriorData(t *testing.T) {
	db := openMemDB(t)
	store := buildStore(t)

	if err := db.SaveStore(store); err != nil {
		t.Fatalf("first SaveStore: %v", err)
	}
	if err := db.SaveStore(store); err != nil {
		t.Fatalf("second SaveStore: %v", err)
	}

	got, err := db.LoadStore()
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}
	if len(got.Entries()) != len(store.Entries()) {
		t.Errorf("entries after re-save: got %d, want %d", len(got.Entries()), len(store.Entries()))
	}
}

func TestLoadStoreEmpty(t *testing.T) {
	db := openMemDB(t)

	if _, err := db.LoadStore(); !errors.Is(err, model.ErrEmptyDataset) {
		t.Fatalf("LoadStore on empty db: got %v, want ErrEmptyDataset", err)
	}

	ok, err := db.HasData()
	if err != nil {
		t.Fatalf("HasData: %v", err)
	}
	if ok {
		t.Error("HasData on empty db: got true")
	}
}
