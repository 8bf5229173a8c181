package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"rentvision/models"
	"rentvision/utils"
)

// Default map center (Kuala Lumpur) used when a result has no geocoded rows.
const (
	defaultCenterLat = 3.1319
	defaultCenterLng = 101.6841
)

const bucketWidth = 500

// StatsService answers /options and /search queries over the cleaned
// dataset. All aggregates are computed on demand from the in-memory
// records; the option tree is built once at construction.
type StatsService struct {
	logger  *utils.Logger
	records []*models.RentalRecord
	options *models.DataOptions

	pointCap int
	rng      *rand.Rand
}

// NewStatsService builds a StatsService over the given records. pointCap
// bounds the number of map points returned per search; values below 1
// fall back to 2000.
func NewStatsService(logger *utils.Logger, records []*models.RentalRecord, pointCap int) *StatsService {
	if pointCap < 1 {
		pointCap = 2000
	}
	s := &StatsService{
		logger:   logger,
		records:  records,
		pointCap: pointCap,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.options = s.buildOptions()
	return s
}

// Options returns the property-type list and state→district→types tree.
// The returned value is shared and must not be mutated by callers.
func (s *StatsService) Options(ctx context.Context) (*models.DataOptions, error) {
	return s.options, nil
}

func (s *StatsService) buildOptions() *models.DataOptions {
	typeSet := make(map[string]struct{})
	tree := make(map[string]map[string]map[string]struct{})

	for _, r := range s.records {
		typeSet[r.Type] = struct{}{}
		districts, ok := tree[r.State]
		if !ok {
			districts = make(map[string]map[string]struct{})
			tree[r.State] = districts
		}
		types, ok := districts[r.District]
		if !ok {
			types = make(map[string]struct{})
			districts[r.District] = types
		}
		types[r.Type] = struct{}{}
	}

	opts := &models.DataOptions{
		AllTypes:     sortedKeys(typeSet),
		LocationTree: make(map[string]map[string][]string, len(tree)),
	}
	for state, districts := range tree {
		opts.LocationTree[state] = make(map[string][]string, len(districts))
		for district, types := range districts {
			opts.LocationTree[state][district] = sortedKeys(types)
		}
	}
	return opts
}

// Search computes the full statistics payload for one
// state/district/type combination, or {found:false} when no rows match.
func (s *StatsService) Search(ctx context.Context, sel models.Selection) (*models.SearchResult, error) {
	if !sel.Complete() {
		return nil, fmt.Errorf("stats: incomplete selection %+v", sel)
	}

	var matched []*models.RentalRecord
	var district []*models.RentalRecord
	for _, r := range s.records {
		if r.State != sel.State || r.District != sel.District {
			continue
		}
		district = append(district, r)
		if r.Type == sel.HouseType {
			matched = append(matched, r)
		}
	}

	if len(matched) == 0 {
		s.logger.Debug("[stats] No rows for %s / %s / %s", sel.State, sel.District, sel.HouseType)
		return &models.SearchResult{Found: false}, nil
	}

	medianRent := int(medianOf(prices(matched)))

	res := &models.SearchResult{
		Found:          true,
		Location:       sel.District + ", " + sel.State,
		MedianRent:     medianRent,
		SuitableIncome: medianRent * 3,
		CommonFeatures: commonFeatures(matched),
		Count:          len(matched),
		Comparison:     s.comparison(district, sel.HouseType, medianRent),
		Trends:         trendSeries(matched),
		Distribution:   distribution(prices(matched)),
	}
	s.fillMapData(res, matched)

	return res, nil
}

// comparison computes per-type district medians, excluding the searched
// type, sorted ascending by median rent.
func (s *StatsService) comparison(district []*models.RentalRecord, houseType string, medianRent int) []models.ComparisonEntry {
	byType := make(map[string][]float64)
	for _, r := range district {
		byType[r.Type] = append(byType[r.Type], r.Price)
	}

	entries := make([]models.ComparisonEntry, 0, len(byType))
	for t, ps := range byType {
		if t == houseType {
			continue
		}
		m := int(medianOf(ps))
		entries = append(entries, models.ComparisonEntry{
			Type:       t,
			MedianRent: m,
			Diff:       m - medianRent,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].MedianRent < entries[j].MedianRent
	})
	return entries
}

// fillMapData sets coordinates, points and the min/max price color scale.
// The center stays at the Kuala Lumpur default when no row is geocoded,
// and points are sampled down to the configured cap.
func (s *StatsService) fillMapData(res *models.SearchResult, matched []*models.RentalRecord) {
	var geocoded []*models.RentalRecord
	for _, r := range matched {
		if r.HasCoords {
			geocoded = append(geocoded, r)
		}
	}

	res.Coordinates = [2]float64{defaultCenterLat, defaultCenterLng}
	if len(geocoded) == 0 {
		return
	}

	var sumLat, sumLng float64
	minPrice, maxPrice := geocoded[0].Price, geocoded[0].Price
	for _, r := range geocoded {
		sumLat += r.Latitude
		sumLng += r.Longitude
		if r.Price < minPrice {
			minPrice = r.Price
		}
		if r.Price > maxPrice {
			maxPrice = r.Price
		}
	}
	res.Coordinates = [2]float64{sumLat / float64(len(geocoded)), sumLng / float64(len(geocoded))}
	res.MapMin = int(minPrice)
	res.MapMax = int(maxPrice)

	if len(geocoded) > s.pointCap {
		sampled := make([]*models.RentalRecord, len(geocoded))
		copy(sampled, geocoded)
		s.rng.Shuffle(len(sampled), func(i, j int) {
			sampled[i], sampled[j] = sampled[j], sampled[i]
		})
		geocoded = sampled[:s.pointCap]
	}

	res.Points = make([][3]float64, 0, len(geocoded))
	for _, r := range geocoded {
		res.Points = append(res.Points, [3]float64{r.Latitude, r.Longitude, r.Price})
	}
}

// commonFeatures extracts the shared-attribute tags: furnishing mode,
// median size, bedroom mode and bathroom mode. Columns with no data are
// skipped entirely.
func commonFeatures(matched []*models.RentalRecord) []string {
	var features []string

	var furnishings []string
	for _, r := range matched {
		if r.Furnishing != "" {
			furnishings = append(furnishings, r.Furnishing)
		}
	}
	if f, ok := stringMode(furnishings); ok {
		features = append(features, f)
	}

	var sizes []float64
	for _, r := range matched {
		if r.SizeSqft > 0 {
			sizes = append(sizes, r.SizeSqft)
		}
	}
	if len(sizes) > 0 {
		features = append(features, fmt.Sprintf("%d sqft", int(medianOf(sizes))))
	}

	var beds []float64
	for _, r := range matched {
		if r.Bedrooms > 0 {
			beds = append(beds, r.Bedrooms)
		}
	}
	if b, ok := floatMode(beds); ok {
		features = append(features, fmt.Sprintf("%d Beds", int(b)))
	}

	var baths []float64
	for _, r := range matched {
		if r.Bathrooms > 0 {
			baths = append(baths, r.Bathrooms)
		}
	}
	if b, ok := floatMode(baths); ok {
		features = append(features, fmt.Sprintf("%d Baths", int(b)))
	}

	return features
}

// trendSeries groups dated rows by day and reports the median rent per
// day, date-ascending. Rows without a parseable extract date are ignored.
func trendSeries(matched []*models.RentalRecord) []models.TrendPoint {
	byDay := make(map[string][]float64)
	for _, r := range matched {
		if !r.HasDate {
			continue
		}
		day := r.ExtractDate.Format("2006-01-02")
		byDay[day] = append(byDay[day], r.Price)
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	series := make([]models.TrendPoint, 0, len(days))
	for _, d := range days {
		series = append(series, models.TrendPoint{
			Name:  d,
			Price: int(medianOf(byDay[d])),
		})
	}
	return series
}

// distribution bins prices into RM500-wide buckets starting at 0 and
// drops empty buckets.
func distribution(ps []float64) []models.DistributionBucket {
	if len(ps) == 0 {
		return nil
	}

	maxPrice := ps[0]
	for _, p := range ps {
		if p > maxPrice {
			maxPrice = p
		}
	}

	counts := make(map[int]int)
	for _, p := range ps {
		counts[int(p)/bucketWidth]++
	}

	var buckets []models.DistributionBucket
	for lo := 0; lo <= int(maxPrice); lo += bucketWidth {
		idx := lo / bucketWidth
		if counts[idx] == 0 {
			continue
		}
		buckets = append(buckets, models.DistributionBucket{
			Range: fmt.Sprintf("%d-%d", lo, lo+bucketWidth),
			Count: counts[idx],
		})
	}
	return buckets
}

func prices(records []*models.RentalRecord) []float64 {
	ps := make([]float64, 0, len(records))
	for _, r := range records {
		ps = append(ps, r.Price)
	}
	return ps
}

// medianOf returns the median, averaging the middle pair for even-sized
// inputs. The input slice is not modified.
func medianOf(ps []float64) float64 {
	if len(ps) == 0 {
		return 0
	}
	sorted := make([]float64, len(ps))
	copy(sorted, ps)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// stringMode returns the most frequent value; ties resolve to the
// lexicographically smallest so repeated runs are stable.
func stringMode(vals []string) (string, bool) {
	if len(vals) == 0 {
		return "", false
	}
	counts := make(map[string]int)
	for _, v := range vals {
		counts[v]++
	}
	best, bestCount := "", 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best, true
}

// floatMode returns the most frequent value; ties resolve to the smallest.
func floatMode(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	counts := make(map[float64]int)
	for _, v := range vals {
		counts[v]++
	}
	var best float64
	bestCount := 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best, true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
