package domain

import "strings"

// Hotel is a catalog record. The catalog is read-only input for the
// ranking pipeline; derived structures (scores, filtered lists, distance
// maps) never mutate it.
type Hotel struct {
	ID            string
	Name          string
	City          string
	Address       string
	Segment       string // customer segment the record is curated for
	OverallScore  *float64
	PriceRange    *float64
	StarRating    *float64
	AverageRating *float64 // platform average, out of 5
	Coords        *Coords
	Facilities    []string
	Description   string

	ReviewsSummary    string
	TopPositiveReview string
	TopNegativeReview string

	// Keyed by platform name; values are always numeric (coerced at
	// ingestion, invalid entries normalized to {0,0}).
	PlatformRatings map[string]PlatformRating
}

type Coords struct{ Lat, Lng float64 }

type PlatformRating struct {
	Rating       float64
	ReviewsCount float64
}

// Key disambiguates hotels whose address text collides: name plus
// lower-cased city.
func (h Hotel) Key() string {
	return h.Name + "|" + strings.ToLower(h.City)
}

// ReviewText joins the review fields used as sentiment input.
func (h Hotel) ReviewText() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{h.TopPositiveReview, h.TopNegativeReview, h.ReviewsSummary} {
		if t := strings.TrimSpace(s); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// ScoreBundle is computed once per hotel per recommendation run and used
// only for ranking (Combined descending).
type ScoreBundle struct {
	Sentiment        float64 // in [0,1]
	NormalizedRating float64 // in [0,1]
	Combined         float64 // (Sentiment + NormalizedRating) / 2
}

// ScoredHotel pairs a catalog record with its score bundle and the
// per-feature review scores surfaced to callers.
type ScoredHotel struct {
	Hotel
	Scores        ScoreBundle
	FeatureScores map[string]int // feature -> 0..100
}

// SearchContext is the retrieval corpus for one hotel: facilities plus
// review summary plus description, the fields semantic queries run over.
func (h Hotel) SearchContext() string {
	parts := make([]string, 0, 3)
	if len(h.Facilities) > 0 {
		parts = append(parts, strings.Join(h.Facilities, " "))
	}
	for _, s := range []string{h.ReviewsSummary, h.Description} {
		if t := strings.TrimSpace(s); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// ChatMatch is one retrieval hit for a natural-language feature query.
type ChatMatch struct {
	ScoredHotel
	Confidence         int      // 0..100
	RelevantFacilities []string // facilities mentioning a query word
	MatchSummary       string
}
