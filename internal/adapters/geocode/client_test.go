package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeocode_ParsesFirstResult(t *testing.T) {
	var gotUA, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"28.6328","lon":"77.2197"},{"lat":"0","lon":"0"}]`))
	}))
	defer ts.Close()

	c := New(ts.URL, "test-agent", 100)
	got, err := c.Geocode(context.Background(), "Connaught Place, New Delhi")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Lat != 28.6328 || got.Lng != 77.2197 {
		t.Fatalf("coords = %+v", got)
	}
	if gotUA != "test-agent" {
		t.Fatalf("user agent = %q", gotUA)
	}
	if gotQuery != "Connaught Place, New Delhi" {
		t.Fatalf("query = %q", gotQuery)
	}
}

func TestGeocode_EmptyResultMeansNoCenter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := New(ts.URL, "", 100)
	got, err := c.Geocode(context.Background(), "nowhere at all")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("coords = %+v, want nil", got)
	}
}

func TestGeocode_MalformedCoordsMeanNoCenter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"not-a-number","lon":"77.2"}]`))
	}))
	defer ts.Close()

	c := New(ts.URL, "", 100)
	got, err := c.Geocode(context.Background(), "garbled")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("coords = %+v, want nil", got)
	}
}

func TestGeocode_BlankTextShortCircuits(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	c := New(ts.URL, "", 100)
	got, err := c.Geocode(context.Background(), "   ")
	if err != nil || got != nil {
		t.Fatalf("got %+v, %v", got, err)
	}
	if called {
		t.Fatal("server should not be hit for blank text")
	}
}

func TestGeocode_RetriesOn429ThenSucceeds(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"lat":"28.6","lon":"77.2"}]`))
	}))
	defer ts.Close()

	c := New(ts.URL, "", 100)
	got, err := c.Geocode(context.Background(), "Aerocity")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Lat != 28.6 {
		t.Fatalf("coords = %+v", got)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d", attempts)
	}
}

func TestGeocode_ClientErrorIsTerminal(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer ts.Close()

	c := New(ts.URL, "", 100)
	if _, err := c.Geocode(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("4xx must not be retried, attempts = %d", attempts)
	}
}
