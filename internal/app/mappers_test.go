package app_test

import (
	"testing"

	"hotelrec/internal/app"
)

func TestMapHotelRecord(t *testing.T) {
	rec := map[string]string{
		"property_id":             "H123",
		"property_name":           "The Imperial",
		"city":                    "New Delhi",
		"address":                 "Janpath, Connaught Place",
		"customer_segment":        "couple",
		"price_range":             "4 500,50", // comma decimal, thousands space is invalid -> nil
		"hotel_star_rating":       "5",
		"average_platform_rating": "4,6",
		"lat":                     "28.625",
		"lng":                     "77.219",
		"hotel_facilities":        "WiFi| Pool |  |Spa",
		"platform_ratings":        `{"booking":{"rating":"8,7","reviews_count":1204},"google":4.6,"broken":[1]}`,
	}
	h := app.MapHotelRecord(rec)

	if h.ID != "H123" || h.Name != "The Imperial" || h.City != "New Delhi" {
		t.Fatalf("identity fields: %+v", h)
	}
	if h.Segment != "couple" {
		t.Fatalf("segment = %q", h.Segment)
	}
	if h.PriceRange != nil {
		t.Fatalf("unparseable price must stay nil, got %v", *h.PriceRange)
	}
	if h.StarRating == nil || *h.StarRating != 5 {
		t.Fatalf("star = %v", h.StarRating)
	}
	if h.AverageRating == nil || *h.AverageRating != 4.6 {
		t.Fatalf("average = %v", h.AverageRating)
	}
	if h.Coords == nil || h.Coords.Lat != 28.625 || h.Coords.Lng != 77.219 {
		t.Fatalf("coords = %+v", h.Coords)
	}

	if len(h.Facilities) != 3 || h.Facilities[0] != "WiFi" || h.Facilities[1] != "Pool" || h.Facilities[2] != "Spa" {
		t.Fatalf("facilities = %v", h.Facilities)
	}

	pr := h.PlatformRatings
	if pr["booking"].Rating != 8.7 || pr["booking"].ReviewsCount != 1204 {
		t.Fatalf("booking = %+v", pr["booking"])
	}
	if pr["google"].Rating != 4.6 || pr["google"].ReviewsCount != 0 {
		t.Fatalf("google = %+v", pr["google"])
	}
	// invalid entries coerce to zeroes, never stay raw
	if pr["broken"].Rating != 0 || pr["broken"].ReviewsCount != 0 {
		t.Fatalf("broken = %+v", pr["broken"])
	}
}

func TestMapHotelRecord_AliasFallbacks(t *testing.T) {
	rec := map[string]string{
		"hotel_id":   "H9",
		"hotel_name": "Fallback Inn",
		"locality":   "Mumbai",
		"persona":    "solo",
		"latitude":   "19.07",
		"longitude":  "72.87",
	}
	h := app.MapHotelRecord(rec)
	if h.ID != "H9" || h.Name != "Fallback Inn" || h.City != "Mumbai" || h.Segment != "solo" {
		t.Fatalf("aliases: %+v", h)
	}
	if h.Coords == nil || h.Coords.Lat != 19.07 {
		t.Fatalf("coords = %+v", h.Coords)
	}
}

func TestMapHotelRecord_MissingCoordStaysNil(t *testing.T) {
	h := app.MapHotelRecord(map[string]string{"lat": "28.6"})
	if h.Coords != nil {
		t.Fatalf("coords = %+v", h.Coords)
	}
}
