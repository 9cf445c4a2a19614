// internal/adapters/remotefilter/client.go
package remotefilter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hotelrec/internal/adapters/observability"
	"hotelrec/internal/domain"
)

// Client posts a local result set plus filter criteria to an external
// /filter endpoint. Strictly best-effort: callers keep their local set on
// any error.
type Client struct {
	base string
	hc   *http.Client
}

func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type request struct {
	Hotels           []hotelPayload `json:"hotels"`
	Address          string         `json:"address,omitempty"`
	PriceMin         *float64       `json:"price_min,omitempty"`
	PriceMax         *float64       `json:"price_max,omitempty"`
	HotelStarRating  *float64       `json:"hotel_star_rating,omitempty"`
	MinAverageRating *float64       `json:"average_rating,omitempty"`
}

type hotelPayload struct {
	Name          string   `json:"property_name"`
	City          string   `json:"city"`
	Address       string   `json:"address"`
	Price         *float64 `json:"price,omitempty"`
	StarRating    *float64 `json:"hotel_star_rating,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
}

func (c *Client) Refine(ctx context.Context, hotels []domain.ScoredHotel, crit domain.FilterCriteria) ([]domain.ScoredHotel, error) {
	payload := request{
		Hotels:           make([]hotelPayload, len(hotels)),
		Address:          crit.Address,
		PriceMin:         crit.PriceMin,
		PriceMax:         crit.PriceMax,
		HotelStarRating:  crit.StarRating,
		MinAverageRating: crit.MinAverageRating,
	}
	for i, h := range hotels {
		payload.Hotels[i] = hotelPayload{
			Name:          h.Name,
			City:          h.City,
			Address:       h.Address,
			Price:         h.PriceRange,
			StarRating:    h.StarRating,
			AverageRating: h.AverageRating,
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/filter", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("remote_filter", "/filter", 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("remote_filter", "/filter", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote filter status %d", resp.StatusCode)
	}

	var kept []hotelPayload
	if err := json.NewDecoder(resp.Body).Decode(&kept); err != nil {
		return nil, fmt.Errorf("decode remote filter: %w", err)
	}

	// Map the refined list back onto the local records so scores and
	// feature data survive the round trip.
	byKey := make(map[string]domain.ScoredHotel, len(hotels))
	for _, h := range hotels {
		byKey[h.Key()] = h
	}
	out := make([]domain.ScoredHotel, 0, len(kept))
	for _, k := range kept {
		key := k.Name + "|" + strings.ToLower(k.City)
		if h, ok := byKey[key]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}
