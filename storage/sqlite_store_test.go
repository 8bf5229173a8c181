package storage

import (
	"path/filepath"
	"testing"
	"time"

	"rentvision/models"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	date, _ := time.Parse("2006-01-02", "2026-01-15")
	records := []*models.RentalRecord{
		{
			State: "Selangor", District: "Petaling", Type: "Condo", Price: 1200,
			Furnishing: "Fully Furnished", SizeSqft: 950, Bedrooms: 3, Bathrooms: 2,
			ExtractDate: date, HasDate: true,
			Latitude: 3.1073, Longitude: 101.6067, HasCoords: true,
		},
		{State: "Johor", District: "Johor Bahru", Type: "Apartment", Price: 800},
	}

	if err := store.Write(records); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := store.FetchAll()
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records: got %d, want 2", len(got))
	}

	first := got[0]
	if first.State != "Selangor" || first.Price != 1200 {
		t.Errorf("first record: %+v", first)
	}
	if !first.HasCoords || first.Latitude != 3.1073 {
		t.Errorf("coordinates not preserved: %+v", first)
	}
	if !first.HasDate || first.ExtractDate.Format("2006-01-02") != "2026-01-15" {
		t.Errorf("extract date not preserved: %+v", first)
	}
	if got[1].HasCoords || got[1].HasDate {
		t.Errorf("null columns should stay unset: %+v", got[1])
	}
}

func TestSQLiteStoreWriteReplacesDataset(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	a := []*models.RentalRecord{{State: "Selangor", District: "Petaling", Type: "Condo", Price: 1000}}
	b := []*models.RentalRecord{{State: "Johor", District: "Johor Bahru", Type: "Condo", Price: 900}}

	if err := store.Write(a); err != nil {
		t.Fatal(err)
	}
	if err := store.Write(b); err != nil {
		t.Fatal(err)
	}

	got, err := store.FetchAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].State != "Johor" {
		t.Errorf("dataset not replaced: %+v", got)
	}
}
