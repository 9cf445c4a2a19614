package remotefilter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotelrec/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func scored(name, city string, combined float64) domain.ScoredHotel {
	return domain.ScoredHotel{
		Hotel:  domain.Hotel{Name: name, City: city, Address: name + " street"},
		Scores: domain.ScoreBundle{Combined: combined},
	}
}

func TestRefine_MapsKeptHotelsBackToLocalRecords(t *testing.T) {
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		// Remote keeps only B, echoed in its own wire shape.
		w.Write([]byte(`[{"property_name":"B","city":"Delhi"}]`))
	}))
	defer ts.Close()

	local := []domain.ScoredHotel{
		scored("A", "Delhi", 0.9),
		scored("B", "Delhi", 0.8),
	}
	got, err := New(ts.URL).Refine(context.Background(), local, domain.FilterCriteria{PriceMax: ptr(5000.0)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "B" {
		t.Fatalf("got %+v", got)
	}
	// Local scores must survive the round trip.
	if got[0].Scores.Combined != 0.8 {
		t.Fatalf("score lost: %+v", got[0].Scores)
	}

	var req map[string]any
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatal(err)
	}
	if hotels, ok := req["hotels"].([]any); !ok || len(hotels) != 2 {
		t.Fatalf("request hotels = %v", req["hotels"])
	}
	if req["price_max"] != 5000.0 {
		t.Fatalf("price_max = %v", req["price_max"])
	}
}

func TestRefine_Non200IsAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	if _, err := New(ts.URL).Refine(context.Background(), nil, domain.FilterCriteria{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRefine_UnknownRemoteHotelsAreDropped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"property_name":"Ghost","city":"Delhi"}]`))
	}))
	defer ts.Close()

	got, err := New(ts.URL).Refine(context.Background(), []domain.ScoredHotel{scored("A", "Delhi", 0.9)}, domain.FilterCriteria{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %+v", got)
	}
}
