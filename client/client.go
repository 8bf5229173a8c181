package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rentvision/models"
)

// HTTP talks to a remote RentVision statistics API. It implements the
// dashboard's Backend interface: one GET per options load, one GET per
// search, no retries.
type HTTP struct {
	baseURL string
	client  *http.Client
}

// New creates a client for the API at baseURL with the given timeout.
func New(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Options fetches GET /options.
func (h *HTTP) Options(ctx context.Context) (*models.DataOptions, error) {
	var opts models.DataOptions
	if err := h.getJSON(ctx, "/options", nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Search fetches GET /search with the URL-encoded selection.
func (h *HTTP) Search(ctx context.Context, sel models.Selection) (*models.SearchResult, error) {
	params := url.Values{}
	params.Set("state", sel.State)
	params.Set("district", sel.District)
	params.Set("houseType", sel.HouseType)

	var res models.SearchResult
	if err := h.getJSON(ctx, "/search", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTP) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := h.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("client: build request %s: %w", path, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("client: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("client: GET %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s response: %w", path, err)
	}
	return nil
}
