package models

import "time"

// RawRecord holds one unprocessed row from the rental CSV extract,
// keyed by the extract's column names. This is what the cleaner consumes.
type RawRecord struct {
	State       string
	District    string
	Type        string
	RawPrice    string
	Furnishing  string
	Size        string
	Bedrooms    string
	Bathrooms   string
	ExtractDate string
	Latitude    string
	Longitude   string
}

// RentalRecord is the cleaned, validated listing row the stats engine and
// the SQL stores operate on. Rows without coordinates are kept (HasCoords
// is false); rows without price, state, district or type are dropped
// during cleaning.
type RentalRecord struct {
	ID          int64
	State       string
	District    string
	Type        string
	Price       float64
	Furnishing  string
	SizeSqft    float64
	Bedrooms    float64
	Bathrooms   float64
	ExtractDate time.Time
	HasDate     bool
	Latitude    float64
	Longitude   float64
	HasCoords   bool
}
