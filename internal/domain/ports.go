package domain

import "context"

type Catalog interface {
	// Write paths
	UpsertHotel(ctx context.Context, h Hotel) error

	// Read paths
	ListHotels(ctx context.Context, q CatalogQuery) ([]Hotel, error)
	Cities(ctx context.Context) ([]string, error)
	Segments(ctx context.Context) ([]string, error)
}

type CatalogQuery struct {
	City    string // empty or CityAll = no city filter
	Segment string // empty = no segment filter
	Limit   int
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Geocoder resolves free text to a coordinate. A nil Coords with a nil
// error means "no center resolved"; an error means the adapter itself
// failed (network, timeout).
type Geocoder interface {
	Geocode(ctx context.Context, text string) (*Coords, error)
}

type Sentiment struct {
	Label string  // POSITIVE | NEGATIVE
	Score float64 // in [0,1]
}

// SentimentClassifier is a best-effort external model. Implementations
// truncate input to maxLen and substitute a fixed fallback on transport
// failure rather than erroring.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string, maxLen int) (Sentiment, error)
}

// RemoteFilter re-filters a local result set via an external endpoint.
// Callers keep their local set when it errors.
type RemoteFilter interface {
	Refine(ctx context.Context, hotels []ScoredHotel, c FilterCriteria) ([]ScoredHotel, error)
}
