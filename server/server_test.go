package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentvision/config"
	"rentvision/models"
	"rentvision/services"
	"rentvision/utils"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	day := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}
	records := []*models.RentalRecord{
		{
			State: "Selangor", District: "Petaling", Type: "Condo", Price: 1200,
			Furnishing: "Fully Furnished", SizeSqft: 950, Bedrooms: 3, Bathrooms: 2,
			ExtractDate: day("2026-01-01"), HasDate: true,
			Latitude: 3.10, Longitude: 101.60, HasCoords: true,
		},
		{
			State: "Selangor", District: "Petaling", Type: "Condo", Price: 1400,
			ExtractDate: day("2026-01-02"), HasDate: true,
			Latitude: 3.12, Longitude: 101.62, HasCoords: true,
		},
		{State: "Selangor", District: "Petaling", Type: "Apartment", Price: 800},
	}

	cfg := &config.Config{ChartWidth: 320, ChartHeight: 200}
	stats := services.NewStatsService(utils.NewLogger(), records, 2000)

	srv, err := New(cfg, utils.NewLogger(), stats)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestOptionsEndpoint(t *testing.T) {
	w := get(t, testServer(t), "/options")

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}

	var opts models.DataOptions
	if err := json.Unmarshal(w.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(opts.AllTypes) != 2 {
		t.Errorf("all_types: got %v", opts.AllTypes)
	}
	if len(opts.LocationTree["Selangor"]["Petaling"]) != 2 {
		t.Errorf("location_tree: got %v", opts.LocationTree)
	}
}

func TestSearchEndpoint(t *testing.T) {
	w := get(t, testServer(t), "/search?state=Selangor&district=Petaling&houseType=Condo")

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}

	var res models.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Found || res.MedianRent != 1300 {
		t.Errorf("result: found=%v medianRent=%d", res.Found, res.MedianRent)
	}
}

func TestSearchMissingParam(t *testing.T) {
	w := get(t, testServer(t), "/search?state=Selangor&district=Petaling")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "houseType") {
		t.Errorf("error should name the missing param: %s", w.Body.String())
	}
}

func TestSearchNotFoundCombination(t *testing.T) {
	w := get(t, testServer(t), "/search?state=Selangor&district=Petaling&houseType=Villa")

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var res models.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Found {
		t.Error("found should be false")
	}
}

func TestRequestIDAndCORSHeaders(t *testing.T) {
	w := get(t, testServer(t), "/healthz")

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing")
	}
}

func TestDashboardPage(t *testing.T) {
	w := get(t, testServer(t), "/")

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "RentVision") {
		t.Error("page title missing")
	}
	if !strings.Contains(body, "Selangor") {
		t.Error("state options missing")
	}
}

func TestDashboardPageWithResult(t *testing.T) {
	w := get(t, testServer(t), "/?state=Selangor&district=Petaling&houseType=Condo")

	body := w.Body.String()
	if !strings.Contains(body, "RM 1300") {
		t.Errorf("median metric missing from page")
	}
	if !strings.Contains(body, "Apartment") {
		t.Error("comparison entry missing from page")
	}
}

func TestDashboardPageNotFoundNotice(t *testing.T) {
	w := get(t, testServer(t), "/?state=Selangor&district=Petaling&houseType=Villa")

	if !strings.Contains(w.Body.String(), "No listings found") {
		t.Error("found=false should surface the notice on the page")
	}
}

func TestTrendsChart(t *testing.T) {
	w := get(t, testServer(t), "/charts/trends.png?state=Selangor&district=Petaling&houseType=Condo")

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type: got %q, want image/png", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("empty chart body")
	}
}

func TestDistributionChartNotFound(t *testing.T) {
	w := get(t, testServer(t), "/charts/distribution.png?state=Selangor&district=Petaling&houseType=Villa")

	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}
