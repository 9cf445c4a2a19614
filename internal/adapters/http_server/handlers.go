// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"hotelrec/internal/adapters/observability"
	"hotelrec/internal/app"
	"hotelrec/internal/domain"
)

type Handlers struct{ R *app.RecommendationService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/recommendations", h.recommend)
	s.mux.Post("/v1/search", h.search)
	s.mux.Post("/v1/filter", h.filter)
	s.mux.Post("/v1/chat", h.chat)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// ---- wire shapes ----

type featureScores struct {
	Cleanliness int `json:"cleanliness"`
	Location    int `json:"location"`
	Service     int `json:"service"`
}

type hotelResponse struct {
	PropertyID      string        `json:"property_id"`
	PropertyName    string        `json:"property_name"`
	Address         string        `json:"address"`
	City            string        `json:"city"`
	HotelStarRating float64       `json:"hotel_star_rating"`
	AverageRating   float64       `json:"average_rating"`
	Price           float64       `json:"price"`
	CombinedScore   float64       `json:"combined_score"`
	FeatureScores   featureScores `json:"feature_scores"`
}

func toHotelResponse(h domain.ScoredHotel) hotelResponse {
	val := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return hotelResponse{
		PropertyID:      h.ID,
		PropertyName:    h.Name,
		Address:         h.Address,
		City:            h.City,
		HotelStarRating: val(h.StarRating),
		AverageRating:   val(h.AverageRating),
		Price:           val(h.PriceRange),
		CombinedScore:   h.Scores.Combined,
		FeatureScores: featureScores{
			Cleanliness: h.FeatureScores["cleanliness"],
			Location:    h.FeatureScores["location"],
			Service:     h.FeatureScores["service"],
		},
	}
}

// ---- POST /v1/recommendations ----

type recommendRequest struct {
	City    string `json:"city"`
	Segment string `json:"customer_segment"`
}

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON {city, customer_segment}")
		return
	}
	if strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.Segment) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "city and customer_segment are required")
		return
	}

	scored, err := h.R.Recommend(r.Context(), req.City, req.Segment)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal error", "recommendation failed")
		return
	}

	out := make([]hotelResponse, len(scored))
	for i, sh := range scored {
		out[i] = toHotelResponse(sh)
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- POST /v1/search ----

type searchRequest struct {
	City            string   `json:"city"`
	Segment         string   `json:"customer_segment"`
	SortBy          string   `json:"sort_by"`
	PriceMin        *float64 `json:"price_min"`
	PriceMax        *float64 `json:"price_max"`
	HotelStarRating *float64 `json:"hotel_star_rating"`
	AreaQuery       string   `json:"area_query"`
}

type searchHotel struct {
	PropertyID      string   `json:"property_id"`
	PropertyName    string   `json:"property_name"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	HotelStarRating float64  `json:"hotel_star_rating"`
	Price           float64  `json:"price"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
}

type searchResponse struct {
	Status    string             `json:"status"`
	Message   string             `json:"message,omitempty"`
	Center    *domain.Coords     `json:"center,omitempty"`
	Hotels    []searchHotel      `json:"hotels"`
	Distances map[string]float64 `json:"distances,omitempty"`
}

func sortKey(s string) (domain.SortKey, bool) {
	switch s {
	case "", string(domain.SortByScore):
		return domain.SortByScore, true
	case string(domain.SortByPrice):
		return domain.SortByPrice, true
	case string(domain.SortByStar):
		return domain.SortByStar, true
	}
	return "", false
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "malformed JSON")
		return
	}
	key, ok := sortKey(req.SortBy)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid sort_by", "sort_by must be one of ai_score, price, star")
		return
	}

	opts := domain.RankOptions{City: req.City, Sort: key, StarRating: req.HotelStarRating}
	if req.PriceMin != nil || req.PriceMax != nil {
		pr := domain.PriceRange{Min: 0, Max: math.MaxFloat64}
		if req.PriceMin != nil {
			pr.Min = *req.PriceMin
		}
		if req.PriceMax != nil {
			pr.Max = *req.PriceMax
		}
		opts.Price = &pr
	}

	res, err := h.R.Search(r.Context(), opts, req.Segment, req.AreaQuery)
	if err != nil {
		if errors.Is(err, domain.ErrSuperseded) {
			// a newer query won; nothing to render for this one
			writeProblem(w, http.StatusConflict, "Superseded", "a newer search superseded this one")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal error", "search failed")
		return
	}
	observability.ObserveResolution(string(res.Status))

	out := searchResponse{
		Status:    string(res.Status),
		Message:   res.Message,
		Center:    res.Center,
		Hotels:    make([]searchHotel, len(res.Hotels)),
		Distances: res.Distances,
	}
	val := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	for i, hh := range res.Hotels {
		sh := searchHotel{
			PropertyID:      hh.ID,
			PropertyName:    hh.Name,
			Address:         hh.Address,
			City:            hh.City,
			HotelStarRating: val(hh.StarRating),
			Price:           val(hh.PriceRange),
		}
		if res.Distances != nil {
			if d, ok := res.Distances[hh.Key()]; ok {
				sh.DistanceKm = &d
			}
		}
		out.Hotels[i] = sh
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- POST /v1/chat ----

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	hotelResponse
	MatchConfidence    int      `json:"match_confidence"`
	RelevantFacilities []string `json:"relevant_facilities"`
	MatchSummary       string   `json:"match_summary"`
}

func (h *Handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON {query}")
		return
	}

	matches, err := h.R.Chat(r.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuery):
			writeProblem(w, http.StatusBadRequest, "Invalid query", err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
		default:
			writeProblem(w, http.StatusInternalServerError, "Internal error", "chat search failed")
		}
		return
	}

	out := make([]chatResponse, len(matches))
	for i, m := range matches {
		rf := m.RelevantFacilities
		if rf == nil {
			rf = []string{} // marshal as [], not null
		}
		out[i] = chatResponse{
			hotelResponse:      toHotelResponse(m.ScoredHotel),
			MatchConfidence:    m.Confidence,
			RelevantFacilities: rf,
			MatchSummary:       m.MatchSummary,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- POST /v1/filter ----

type filterSortRequest struct {
	By    string `json:"sort_by"`
	Order string `json:"sort_order"`
}

// toFilterSort validates the wire sort: only the three known fields and
// asc/desc (default desc) are accepted, anything else is a client error.
func (f *filterSortRequest) toFilterSort() (*domain.FilterSort, bool) {
	if f == nil {
		return nil, true
	}
	switch f.By {
	case "price", "hotel_star_rating", "average_rating":
	default:
		return nil, false
	}
	order := domain.SortOrder(f.Order)
	switch order {
	case "":
		order = domain.SortDesc
	case domain.SortAsc, domain.SortDesc:
	default:
		return nil, false
	}
	return &domain.FilterSort{By: f.By, Order: order}, true
}

type filterRequest struct {
	City             string             `json:"city"`
	Segment          string             `json:"customer_segment"`
	Address          string             `json:"address,omitempty"`
	PriceMin         *float64           `json:"price_min,omitempty"`
	PriceMax         *float64           `json:"price_max,omitempty"`
	HotelStarRating  *float64           `json:"hotel_star_rating,omitempty"`
	MinAverageRating *float64           `json:"average_rating_min,omitempty"`
	Sort             *filterSortRequest `json:"sort,omitempty"`
	Remote           bool               `json:"remote,omitempty"` // also refine via the remote endpoint
}

func (h *Handlers) filter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "malformed JSON")
		return
	}
	if strings.TrimSpace(req.City) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "city is required")
		return
	}
	fs, ok := req.Sort.toFilterSort()
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid sort",
			"sort_by must be one of price, hotel_star_rating, average_rating; sort_order asc or desc")
		return
	}

	crit := domain.FilterCriteria{
		City:             req.City,
		Segment:          req.Segment,
		Address:          req.Address,
		PriceMin:         req.PriceMin,
		PriceMax:         req.PriceMax,
		StarRating:       req.HotelStarRating,
		MinAverageRating: req.MinAverageRating,
		Sort:             fs,
	}
	scored, err := h.R.Filter(r.Context(), crit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal error", "filter failed")
		return
	}
	if req.Remote {
		scored = h.R.RefineRemote(r.Context(), scored, crit)
	}

	out := make([]hotelResponse, len(scored))
	for i, sh := range scored {
		out[i] = toHotelResponse(sh)
	}
	writeJSON(w, http.StatusOK, out)
}
