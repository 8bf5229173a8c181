package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentvision/models"
)

func TestOptionsDecodesWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/options" {
			t.Errorf("path: got %q, want /options", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"all_types": ["Apartment", "Condo"],
			"location_tree": {"Selangor": {"Petaling": ["Condo", "Apartment"]}}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	opts, err := c.Options(context.Background())
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(opts.AllTypes) != 2 {
		t.Errorf("AllTypes: got %v", opts.AllTypes)
	}
	if len(opts.LocationTree["Selangor"]["Petaling"]) != 2 {
		t.Errorf("LocationTree: got %v", opts.LocationTree)
	}
}

func TestSearchEncodesSelection(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"state":     q.Get("state"),
			"district":  q.Get("district"),
			"houseType": q.Get("houseType"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"found": true, "medianRent": 1200}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", 5*time.Second)
	res, err := c.Search(context.Background(), models.Selection{
		State: "Selangor", District: "Kuala Langat", HouseType: "Condo",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotQuery["state"] != "Selangor" || gotQuery["district"] != "Kuala Langat" || gotQuery["houseType"] != "Condo" {
		t.Errorf("query params: got %v", gotQuery)
	}
	if !res.Found || res.MedianRent != 1200 {
		t.Errorf("result: got %+v", res)
	}
}

func TestSearchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	if _, err := c.Search(context.Background(), models.Selection{
		State: "Selangor", District: "Petaling", HouseType: "Condo",
	}); err == nil {
		t.Error("expected an error for a 500 response")
	}
}

func TestSearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	if _, err := c.Options(context.Background()); err == nil {
		t.Error("expected a decode error")
	}
}
