package dashboard

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rentvision/models"
	"rentvision/utils"
)

// Status tracks the options-load lifecycle. Failure is a distinct state
// rather than an indefinite spinner, so the page can say what went wrong.
type Status int

const (
	StatusLoading Status = iota
	StatusFailed
	StatusReady
)

// Default map center (Kuala Lumpur) shown before the first geocoded result.
var defaultCenter = [2]float64{3.1319, 101.6841}

// View owns the whole dashboard state: the loaded options, the cascading
// state/district/type selection and the current search result. All state
// transitions replace whole values; nothing is patched in place.
type View struct {
	backend Backend
	logger  *utils.Logger

	mu      sync.Mutex
	status  Status
	loadErr error
	opts    *models.DataOptions

	sel        models.Selection
	districts  []string
	validTypes map[string]struct{}

	result    *models.SearchResult
	notice    string
	mapCenter [2]float64

	// seq guards against an older in-flight search overwriting the
	// response of a newer one.
	seq uint64
}

// NewView creates a dashboard view in the loading state.
func NewView(backend Backend, logger *utils.Logger) *View {
	return &View{
		backend:   backend,
		logger:    logger,
		status:    StatusLoading,
		mapCenter: defaultCenter,
	}
}

// Load fetches the options payload once. On failure the view moves to
// StatusFailed and keeps the error for display.
func (v *View) Load(ctx context.Context) error {
	opts, err := v.backend.Options(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.status = StatusFailed
		v.loadErr = err
		v.logger.Error("[dashboard] Options load failed: %v", err)
		return fmt.Errorf("dashboard: load options: %w", err)
	}

	v.opts = opts
	v.status = StatusReady
	v.logger.Info("[dashboard] Options loaded — %d property types, %d states",
		len(opts.AllTypes), len(opts.LocationTree))
	return nil
}

// Status reports the options-load state.
func (v *View) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// LoadError returns the options-load failure, if any.
func (v *View) LoadError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loadErr
}

// SelectState sets the state and transactionally invalidates everything
// that depended on it: district, house type, the district list, the
// valid-type set, any result and any notice.
func (v *View) SelectState(state string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sel = models.Selection{State: state}
	v.validTypes = nil
	v.result = nil
	v.notice = ""

	v.districts = nil
	if v.opts != nil {
		for d := range v.opts.LocationTree[state] {
			v.districts = append(v.districts, d)
		}
		sort.Strings(v.districts)
	}
}

// SelectDistrict sets the district and clears the house type and any
// result. It is a no-op until a state has been chosen.
func (v *View) SelectDistrict(district string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sel.State == "" {
		return
	}

	v.sel.District = district
	v.sel.HouseType = ""
	v.result = nil
	v.notice = ""

	v.validTypes = make(map[string]struct{})
	if v.opts != nil {
		for _, t := range v.opts.LocationTree[v.sel.State][district] {
			v.validTypes[t] = struct{}{}
		}
	}
}

// SelectType sets the house type. It has no side effects on other fields.
func (v *View) SelectType(houseType string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel.HouseType = houseType
}

// Selection returns the current selection triple.
func (v *View) Selection() models.Selection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel
}

// Districts returns the sorted district list for the chosen state.
func (v *View) Districts() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.districts))
	copy(out, v.districts)
	return out
}

// TypeOption is one property-type selector entry. Types with no data in
// the chosen district stay visible but disabled, so data gaps are
// discoverable without re-navigation.
type TypeOption struct {
	Name    string
	Enabled bool
}

// TypeOptions returns every known property type; an option is enabled
// only once a district is chosen and the type has data there.
func (v *View) TypeOptions() []TypeOption {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.opts == nil {
		return nil
	}
	out := make([]TypeOption, 0, len(v.opts.AllTypes))
	for _, t := range v.opts.AllTypes {
		_, ok := v.validTypes[t]
		out = append(out, TypeOption{Name: t, Enabled: v.sel.District != "" && ok})
	}
	return out
}

// Search queries the backend with the current selection. It is a no-op
// until all three fields are chosen. A response belonging to a search
// that has since been superseded is discarded.
func (v *View) Search(ctx context.Context) error {
	v.mu.Lock()
	if !v.sel.Complete() {
		v.mu.Unlock()
		return nil
	}
	sel := v.sel
	v.seq++
	seq := v.seq
	v.mu.Unlock()

	res, err := v.backend.Search(ctx, sel)

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		v.logger.Debug("[dashboard] Discarding stale search response for %s/%s/%s",
			sel.State, sel.District, sel.HouseType)
		return nil
	}

	if err != nil {
		v.notice = "Search failed. Please try again."
		v.logger.Error("[dashboard] Search failed: %v", err)
		return fmt.Errorf("dashboard: search: %w", err)
	}

	if !res.Found {
		v.notice = fmt.Sprintf("No listings found for %s in %s, %s.",
			sel.HouseType, sel.District, sel.State)
		return nil
	}

	annotated := *res
	annotated.Query = sel
	v.result = &annotated
	v.notice = ""
	if len(res.Points) > 0 {
		v.mapCenter = res.Coordinates
	}
	return nil
}

// CompareWith commits the clicked comparison type into the selection and
// re-runs the search, so the pivot sticks in the UI.
func (v *View) CompareWith(ctx context.Context, houseType string) error {
	v.mu.Lock()
	v.sel.HouseType = houseType
	v.mu.Unlock()
	return v.Search(ctx)
}

// Result returns the active result, or nil when none is displayed.
func (v *View) Result() *models.SearchResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result
}

// Notice returns the blocking user notice, empty when none is active.
func (v *View) Notice() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.notice
}

// MapCenter returns the current map center. It only moves when a search
// comes back with at least one geocoded point.
func (v *View) MapCenter() [2]float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mapCenter
}
