package dashboard

import "fmt"

// IncomeNote is the static tooltip text shown next to the affordability
// metric. The figure itself is computed by the backend (30%-of-income
// rule); the dashboard only explains it.
const IncomeNote = "Estimated gross monthly income for this rent, assuming housing takes up 30% of income."

// Placeholder texts for panels whose series came back empty. The panels
// always render something; an empty area would look broken.
const (
	NoFeaturesPlaceholder     = "No common features found"
	NoComparisonPlaceholder   = "No other property types in this district"
	NoTrendsPlaceholder       = "Insufficient data for a trend chart"
	NoDistributionPlaceholder = "Insufficient data for a distribution chart"
)

// Marker is one map point with its precomputed fill color.
type Marker struct {
	Lat   float64
	Lng   float64
	Price float64
	Color string
}

// ComparisonRow is one clickable comparison entry with its signed delta
// already formatted.
type ComparisonRow struct {
	Type       string
	MedianRent string
	Delta      string
}

// Rendered is the pure presentation projection of the active result. All
// formatting decisions live here so the template stays logic-free.
type Rendered struct {
	Location       string
	MedianRent     string
	SuitableIncome string
	IncomeNote     string
	Count          int

	Features    []string
	FeatureNote string

	Comparison     []ComparisonRow
	ComparisonNote string

	Markers     []Marker
	LegendLow   string
	LegendHigh  string
	LegendStops []string

	HasTrends        bool
	TrendsNote       string
	HasDistribution  bool
	DistributionNote string
}

// Render projects the active result into view models, or nil when no
// result is displayed.
func (v *View) Render() *Rendered {
	v.mu.Lock()
	res := v.result
	v.mu.Unlock()

	if res == nil {
		return nil
	}

	r := &Rendered{
		Location:       res.Location,
		MedianRent:     FormatRM(res.MedianRent),
		SuitableIncome: FormatRM(res.SuitableIncome),
		IncomeNote:     IncomeNote,
		Count:          res.Count,
		Features:       res.CommonFeatures,
		LegendLow:      FormatRM(res.MapMin),
		LegendHigh:     FormatRM(res.MapMax),
		LegendStops:    LegendStops,
	}

	if len(r.Features) == 0 {
		r.FeatureNote = NoFeaturesPlaceholder
	}

	for _, c := range res.Comparison {
		r.Comparison = append(r.Comparison, ComparisonRow{
			Type:       c.Type,
			MedianRent: FormatRM(c.MedianRent),
			Delta:      FormatDelta(c.Diff),
		})
	}
	if len(r.Comparison) == 0 {
		r.ComparisonNote = NoComparisonPlaceholder
	}

	for _, p := range res.Points {
		r.Markers = append(r.Markers, Marker{
			Lat:   p[0],
			Lng:   p[1],
			Price: p[2],
			Color: MarkerColor(p[2], float64(res.MapMin), float64(res.MapMax)),
		})
	}

	r.HasTrends = len(res.Trends) > 0
	if !r.HasTrends {
		r.TrendsNote = NoTrendsPlaceholder
	}
	r.HasDistribution = len(res.Distribution) > 0
	if !r.HasDistribution {
		r.DistributionNote = NoDistributionPlaceholder
	}

	return r
}

// FormatRM renders an amount in ringgit.
func FormatRM(amount int) string {
	return fmt.Sprintf("RM %d", amount)
}

// FormatDelta renders a comparison delta with an explicit sign, using the
// absolute value for the negative case.
func FormatDelta(diff int) string {
	if diff < 0 {
		return fmt.Sprintf("-RM %d", -diff)
	}
	return fmt.Sprintf("+RM %d", diff)
}
