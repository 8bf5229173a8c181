package services

import (
	"strconv"
	"strings"
	"time"

	"rentvision/models"
	"rentvision/utils"
)

// dateLayouts are tried in order when parsing the extract date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	time.RFC3339,
}

// Cleaner transforms RawRecords from the CSV extract into validated
// RentalRecords. A row is dropped when price, state, district or type is
// missing; missing coordinates or dates only clear the matching flags.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean processes raw rows and returns cleaned records.
func (c *Cleaner) Clean(raw []*models.RawRecord) []*models.RentalRecord {
	seen := utils.NewKeySet()
	result := make([]*models.RentalRecord, 0, len(raw))

	dropped := 0
	for _, r := range raw {
		state := strings.TrimSpace(r.State)
		district := strings.TrimSpace(r.District)
		houseType := strings.TrimSpace(r.Type)
		price, priceOK := parsePrice(r.RawPrice)

		if state == "" || district == "" || houseType == "" || !priceOK {
			dropped++
			continue
		}

		key := strings.Join([]string{state, district, houseType, r.RawPrice,
			r.Latitude, r.Longitude, r.ExtractDate}, "|")
		if !seen.Add(key) {
			c.logger.Debug("[cleaner] Duplicate row skipped: %s", key)
			continue
		}

		rec := &models.RentalRecord{
			State:      state,
			District:   district,
			Type:       houseType,
			Price:      price,
			Furnishing: strings.TrimSpace(r.Furnishing),
		}

		if v, ok := parseFloat(r.Size); ok {
			rec.SizeSqft = v
		}
		if v, ok := parseFloat(r.Bedrooms); ok {
			rec.Bedrooms = v
		}
		if v, ok := parseFloat(r.Bathrooms); ok {
			rec.Bathrooms = v
		}
		if d, ok := parseDate(r.ExtractDate); ok {
			rec.ExtractDate = d
			rec.HasDate = true
		}
		lat, latOK := parseFloat(r.Latitude)
		lng, lngOK := parseFloat(r.Longitude)
		if latOK && lngOK {
			rec.Latitude = lat
			rec.Longitude = lng
			rec.HasCoords = true
		}

		result = append(result, rec)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d records (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parsePrice coerces the raw price cell to a number, stripping currency
// prefixes and thousands separators. Non-positive prices are rejected.
func parsePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(strings.ToUpper(s), "RM")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func parseFloat(raw string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
