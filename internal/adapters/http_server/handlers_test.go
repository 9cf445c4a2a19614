package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotelrec/internal/app"
	"hotelrec/internal/domain"
)

type stubCatalog struct {
	hotels   []domain.Hotel
	cities   []string
	segments []string
}

func (s *stubCatalog) UpsertHotel(context.Context, domain.Hotel) error { return nil }

func (s *stubCatalog) ListHotels(_ context.Context, q domain.CatalogQuery) ([]domain.Hotel, error) {
	var out []domain.Hotel
	for _, h := range s.hotels {
		if q.City != "" && !strings.EqualFold(h.City, q.City) {
			continue
		}
		if q.Segment != "" && !strings.EqualFold(h.Segment, q.Segment) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (s *stubCatalog) Cities(context.Context) ([]string, error)   { return s.cities, nil }
func (s *stubCatalog) Segments(context.Context) ([]string, error) { return s.segments, nil }

type stubClassifier struct{}

func (stubClassifier) Classify(context.Context, string, int) (domain.Sentiment, error) {
	return domain.Sentiment{Label: "POSITIVE", Score: 0.8}, nil
}

type stubGeocoder struct{ center *domain.Coords }

func (g stubGeocoder) Geocode(context.Context, string) (*domain.Coords, error) {
	return g.center, nil
}

func ptr[T any](v T) *T { return &v }

func testServer(t *testing.T, cat *stubCatalog) *httptest.Server {
	t.Helper()
	scorer := app.NewScorer(func() (domain.SentimentClassifier, error) { return stubClassifier{}, nil })
	svc := app.NewRecommendationService(cat, nil, scorer, app.NewResolver(stubGeocoder{}), nil, time.Minute)

	srv := New()
	srv.MountHandlers(&Handlers{R: svc})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func delhiHotel(id, name, address string, avg float64) domain.Hotel {
	return domain.Hotel{
		ID:             id,
		Name:           name,
		City:           "New Delhi",
		Address:        address,
		Segment:        "couple",
		PriceRange:     ptr(2000.0),
		StarRating:     ptr(4.0),
		AverageRating:  ptr(avg),
		ReviewsSummary: "Clean rooms and friendly staff.",
	}
}

func TestRecommendEndpoint(t *testing.T) {
	cat := &stubCatalog{hotels: []domain.Hotel{
		delhiHotel("h1", "Imperial", "Janpath", 4.8),
		delhiHotel("h2", "Radisson", "Aerocity", 3.9),
	}}
	ts := testServer(t, cat)

	resp := postJSON(t, ts.URL+"/v1/recommendations", `{"city":"New Delhi","customer_segment":"couple"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0]["property_name"] != "Imperial" {
		t.Fatalf("top = %v", out[0]["property_name"])
	}
	if _, ok := out[0]["feature_scores"].(map[string]any); !ok {
		t.Fatalf("feature_scores missing: %v", out[0])
	}
}

func TestRecommendEndpoint_RequiresCityAndSegment(t *testing.T) {
	ts := testServer(t, &stubCatalog{})

	resp := postJSON(t, ts.URL+"/v1/recommendations", `{"city":"Delhi"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestRecommendEndpoint_UnknownCityIs404(t *testing.T) {
	ts := testServer(t, &stubCatalog{})
	resp := postJSON(t, ts.URL+"/v1/recommendations", `{"city":"Atlantis","customer_segment":"couple"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestSearchEndpoint_InvalidSortKeyIs400(t *testing.T) {
	ts := testServer(t, &stubCatalog{})
	resp := postJSON(t, ts.URL+"/v1/search", `{"city":"all","sort_by":"bogus"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestSearchEndpoint_FuzzyAreaMatch(t *testing.T) {
	cat := &stubCatalog{hotels: []domain.Hotel{
		delhiHotel("h1", "Imperial", "Connaught Place", 4.8),
		delhiHotel("h2", "Radisson", "Aerocity", 3.9),
	}}
	ts := testServer(t, cat)

	resp := postJSON(t, ts.URL+"/v1/search",
		`{"city":"New Delhi","sort_by":"ai_score","area_query":"connaught place"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out struct {
		Status string `json:"status"`
		Hotels []struct {
			PropertyName string `json:"property_name"`
		} `json:"hotels"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != string(domain.ResolutionFuzzy) {
		t.Fatalf("status = %s", out.Status)
	}
	if len(out.Hotels) != 1 || out.Hotels[0].PropertyName != "Imperial" {
		t.Fatalf("hotels = %+v", out.Hotels)
	}
}

func TestSearchEndpoint_NoMatchCarriesMessage(t *testing.T) {
	cat := &stubCatalog{hotels: []domain.Hotel{delhiHotel("h1", "Imperial", "Janpath", 4.8)}}
	ts := testServer(t, cat) // stub geocoder resolves nothing

	resp := postJSON(t, ts.URL+"/v1/search",
		`{"city":"New Delhi","sort_by":"ai_score","area_query":"zzzzzzz"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != string(domain.ResolutionNoMatch) {
		t.Fatalf("status = %s", out.Status)
	}
	if out.Message == "" {
		t.Fatal("message missing")
	}
}

func TestFilterEndpoint(t *testing.T) {
	cheap := delhiHotel("h1", "Budget Inn", "Karol Bagh", 4.0)
	cheap.PriceRange = ptr(900.0)
	posh := delhiHotel("h2", "Imperial", "Janpath", 4.8)
	posh.PriceRange = ptr(9000.0)

	cat := &stubCatalog{
		hotels:   []domain.Hotel{cheap, posh},
		cities:   []string{"New Delhi"},
		segments: []string{"couple"},
	}
	ts := testServer(t, cat)

	resp := postJSON(t, ts.URL+"/v1/filter",
		`{"city":"New Delhi","customer_segment":"couple","price_max":1000}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0]["property_name"] != "Budget Inn" {
		t.Fatalf("out = %+v", out)
	}
}

func TestFilterEndpoint_SortUsesWireKeys(t *testing.T) {
	cheap := delhiHotel("h1", "Budget Inn", "Karol Bagh", 4.0)
	cheap.PriceRange = ptr(900.0)
	posh := delhiHotel("h2", "Imperial", "Janpath", 4.8)
	posh.PriceRange = ptr(9000.0)

	cat := &stubCatalog{
		hotels:   []domain.Hotel{posh, cheap},
		cities:   []string{"New Delhi"},
		segments: []string{"couple"},
	}
	ts := testServer(t, cat)

	resp := postJSON(t, ts.URL+"/v1/filter",
		`{"city":"New Delhi","sort":{"sort_by":"price","sort_order":"asc"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0]["property_name"] != "Budget Inn" {
		t.Fatalf("sort not applied: %+v", out)
	}
}

func TestFilterEndpoint_InvalidSortFieldIs400(t *testing.T) {
	ts := testServer(t, &stubCatalog{cities: []string{"New Delhi"}})

	resp := postJSON(t, ts.URL+"/v1/filter",
		`{"city":"New Delhi","sort":{"sort_by":"bogus"}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/v1/filter",
		`{"city":"New Delhi","sort":{"sort_by":"price","sort_order":"sideways"}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad order status = %d", resp.StatusCode)
	}
}

func TestChatEndpoint(t *testing.T) {
	h := delhiHotel("h1", "Poolside", "Aerocity", 4.5)
	h.Facilities = []string{"Swimming Pool", "Spa"}
	cat := &stubCatalog{hotels: []domain.Hotel{h}}
	ts := testServer(t, cat)

	resp := postJSON(t, ts.URL+"/v1/chat", `{"query":"swimming pool"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out []struct {
		PropertyName       string   `json:"property_name"`
		MatchConfidence    int      `json:"match_confidence"`
		RelevantFacilities []string `json:"relevant_facilities"`
		MatchSummary       string   `json:"match_summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].PropertyName != "Poolside" {
		t.Fatalf("out = %+v", out)
	}
	if out[0].MatchConfidence <= 0 || out[0].MatchConfidence > 100 {
		t.Fatalf("confidence = %d", out[0].MatchConfidence)
	}
	if len(out[0].RelevantFacilities) != 1 || out[0].RelevantFacilities[0] != "Swimming Pool" {
		t.Fatalf("facilities = %v", out[0].RelevantFacilities)
	}
	if out[0].MatchSummary == "" {
		t.Fatal("summary missing")
	}
}

func TestChatEndpoint_ShortQueryIs400(t *testing.T) {
	ts := testServer(t, &stubCatalog{})
	resp := postJSON(t, ts.URL+"/v1/chat", `{"query":"ab"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestChatEndpoint_NoMatchIs404(t *testing.T) {
	ts := testServer(t, &stubCatalog{})
	resp := postJSON(t, ts.URL+"/v1/chat", `{"query":"rooftop pool"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestFilterEndpoint_UnknownCityIs404(t *testing.T) {
	ts := testServer(t, &stubCatalog{cities: []string{"New Delhi"}})
	resp := postJSON(t, ts.URL+"/v1/filter", `{"city":"Atlantis"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	ts := testServer(t, &stubCatalog{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
