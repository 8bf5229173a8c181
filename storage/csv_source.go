package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"rentvision/models"
)

// Column names of the rental CSV extract.
const (
	colState      = "State"
	colDistrict   = "District"
	colType       = "Standard Type"
	colPrice      = "Rent Price"
	colFurnishing = "Furnishing Type"
	colSize       = "Property Size"
	colBedrooms   = "No of Bedroom"
	colBathrooms  = "No of Bathroom"
	colDate       = "Extract Date"
	colLatitude   = "Latitude"
	colLongitude  = "Longitude"
)

// CSVSource reads the rental extract by header name, so column order in
// the file does not matter. Missing optional columns yield empty cells.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source for the extract at the given path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// ReadAll parses the whole extract into raw records for the cleaner.
func (s *CSVSource) ReadAll() ([]*models.RawRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colState, colDistrict, colType, colPrice} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("csv: missing required column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []*models.RawRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		records = append(records, &models.RawRecord{
			State:       cell(row, colState),
			District:    cell(row, colDistrict),
			Type:        cell(row, colType),
			RawPrice:    cell(row, colPrice),
			Furnishing:  cell(row, colFurnishing),
			Size:        cell(row, colSize),
			Bedrooms:    cell(row, colBedrooms),
			Bathrooms:   cell(row, colBathrooms),
			ExtractDate: cell(row, colDate),
			Latitude:    cell(row, colLatitude),
			Longitude:   cell(row, colLongitude),
		})
	}
	return records, nil
}
