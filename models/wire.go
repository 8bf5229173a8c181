package models

// DataOptions is the payload of GET /options: every known property type plus
// the state → district → valid-types tree. Built once at startup and never
// mutated afterwards.
type DataOptions struct {
	AllTypes     []string                       `json:"all_types"`
	LocationTree map[string]map[string][]string `json:"location_tree"`
}

// Selection is the state/district/type triple the dashboard queries with.
// An empty string means "not chosen yet"; District is only meaningful once
// State is set, and HouseType only once District is set.
type Selection struct {
	State     string `json:"state"`
	District  string `json:"district"`
	HouseType string `json:"houseType"`
}

// Complete reports whether all three fields have been chosen.
func (s Selection) Complete() bool {
	return s.State != "" && s.District != "" && s.HouseType != ""
}

// ComparisonEntry is an alternate property type in the same district with
// its own median rent and the delta against the searched type's median.
type ComparisonEntry struct {
	Type       string `json:"type"`
	MedianRent int    `json:"medianRent"`
	Diff       int    `json:"diff"`
}

// TrendPoint is one point of the median-rent-over-time series.
type TrendPoint struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// DistributionBucket is one RM500-wide price bucket and its listing count.
type DistributionBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// SearchResult is the payload of GET /search. The dashboard replaces it
// wholesale on every search and never mutates it in place.
type SearchResult struct {
	Found          bool                 `json:"found"`
	Location       string               `json:"location,omitempty"`
	MedianRent     int                  `json:"medianRent,omitempty"`
	SuitableIncome int                  `json:"suitableIncome,omitempty"`
	Coordinates    [2]float64           `json:"coordinates,omitempty"`
	Points         [][3]float64         `json:"points,omitempty"`
	MapMin         int                  `json:"mapMin,omitempty"`
	MapMax         int                  `json:"mapMax,omitempty"`
	CommonFeatures []string             `json:"commonFeatures,omitempty"`
	Count          int                  `json:"count,omitempty"`
	Comparison     []ComparisonEntry    `json:"comparison,omitempty"`
	Trends         []TrendPoint         `json:"trends,omitempty"`
	Distribution   []DistributionBucket `json:"distribution,omitempty"`

	// Query is the selection that produced this result. It is annotated by
	// the dashboard, not sent by the backend, so the renderer can always
	// show what was asked even after the live selection is edited.
	Query Selection `json:"-"`
}
