package app

import (
	"encoding/json"
	"strconv"
	"strings"

	"hotelrec/internal/domain"
)

/********** alias registries (single source of truth) **********/

var hotelAliases = map[string][]string{
	"id":       {"property_id", "hotel_id", "id"},
	"name":     {"property_name", "hotel_name", "name"},
	"city":     {"city", "locality", "town"},
	"address":  {"address", "full_address", "address_raw"},
	"segment":  {"customer_segment", "segment", "persona"},
	"overall":  {"overall_score", "recommendation_score", "score"},
	"price":    {"price_range", "price"},
	"star":     {"hotel_star_rating", "star_rating", "stars"},
	"average":  {"average_platform_rating", "average_rating", "rating"},
	"lat":      {"lat", "latitude"},
	"lng":      {"lng", "lon", "longitude"},
	"desc":     {"hotel_description", "description"},
	"summary":  {"reviews_summary", "review_summary"},
	"positive": {"top_positive_review", "positive_review"},
	"negative": {"top_negative_review", "negative_review"},
}

/********** record mapper **********/

// MapHotelRecord builds a Hotel from a raw header->value record (CSV row
// or flat JSON object). Numeric fields that fail to parse stay nil;
// platform ratings are always coerced to numbers.
func MapHotelRecord(rec map[string]string) domain.Hotel {
	h := domain.Hotel{
		ID:                firstAlias(rec, "id"),
		Name:              firstAlias(rec, "name"),
		City:              firstAlias(rec, "city"),
		Address:           firstAlias(rec, "address"),
		Segment:           firstAlias(rec, "segment"),
		Description:       firstAlias(rec, "desc"),
		ReviewsSummary:    firstAlias(rec, "summary"),
		TopPositiveReview: firstAlias(rec, "positive"),
		TopNegativeReview: firstAlias(rec, "negative"),
		OverallScore:      floatAlias(rec, "overall"),
		PriceRange:        floatAlias(rec, "price"),
		StarRating:        floatAlias(rec, "star"),
		AverageRating:     floatAlias(rec, "average"),
	}

	if lat, lng := floatAlias(rec, "lat"), floatAlias(rec, "lng"); lat != nil && lng != nil {
		h.Coords = &domain.Coords{Lat: *lat, Lng: *lng}
	}

	// Facilities arrive pipe-separated in the source data.
	if raw := rec["hotel_facilities"]; raw != "" {
		for _, f := range strings.Split(raw, "|") {
			if t := strings.TrimSpace(f); t != "" {
				h.Facilities = append(h.Facilities, t)
			}
		}
	}

	if raw := rec["platform_ratings"]; raw != "" {
		var m map[string]any
		if err := json.Unmarshal([]byte(raw), &m); err == nil {
			h.PlatformRatings = NormalizePlatformRatings(m)
		}
	}
	return h
}

// NormalizePlatformRatings coerces a raw platform->payload mapping into
// numeric {rating, reviews_count}. Missing or invalid entries become
// {0,0}; nothing is left as raw unvalidated input.
func NormalizePlatformRatings(raw map[string]any) map[string]domain.PlatformRating {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]domain.PlatformRating, len(raw))
	for platform, v := range raw {
		var pr domain.PlatformRating
		if m, ok := v.(map[string]any); ok {
			pr.Rating = coerceFloat(m["rating"])
			pr.ReviewsCount = coerceFloat(m["reviews_count"])
		} else {
			// bare number means "rating only"
			pr.Rating = coerceFloat(v)
		}
		out[platform] = pr
	}
	return out
}

/********** tiny helpers **********/

func firstAlias(rec map[string]string, key string) string {
	for _, k := range hotelAliases[key] {
		if s := strings.TrimSpace(rec[k]); s != "" {
			return s
		}
	}
	return ""
}

func floatAlias(rec map[string]string, key string) *float64 {
	for _, k := range hotelAliases[key] {
		s := strings.TrimSpace(strings.ReplaceAll(rec[k], ",", "."))
		if s == "" {
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

// coerceFloat accepts float64/int/string forms; anything else is 0.
func coerceFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}
