package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"hotelrec/internal/domain"
)

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

const defaultListLimit = 500

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	facilities, _ := json.Marshal(h.Facilities)
	ratings, _ := json.Marshal(h.PlatformRatings)

	var lat, lng any
	if h.Coords != nil {
		lat, lng = h.Coords.Lat, h.Coords.Lng
	}

	_, err := r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID,
		h.Name,
		h.City,
		h.Address,
		h.Segment,
		valF64(h.OverallScore),
		valF64(h.PriceRange),
		valF64(h.StarRating),
		valF64(h.AverageRating),
		lat,
		lng,
		string(facilities),
		h.Description,
		h.ReviewsSummary,
		h.TopPositiveReview,
		h.TopNegativeReview,
		string(ratings),
	)
	return err
}

func (r *Repo) ListHotels(ctx context.Context, q domain.CatalogQuery) ([]domain.Hotel, error) {
	city := strings.TrimSpace(q.City)
	if strings.EqualFold(city, domain.CityAll) {
		city = ""
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.db.QueryContext(ctx, listHotelsSQL, city, city, q.Segment, q.Segment, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var (
			h                             domain.Hotel
			address, segment, desc        sql.NullString
			summary, positive, negative   sql.NullString
			overall, price, star, average sql.NullFloat64
			lat, lng                      sql.NullFloat64
			facilitiesJSON, ratingsJSON   []byte
		)
		if err := rows.Scan(
			&h.ID, &h.Name, &h.City, &address, &segment,
			&overall, &price, &star, &average,
			&lat, &lng, &facilitiesJSON, &desc,
			&summary, &positive, &negative, &ratingsJSON,
		); err != nil {
			return nil, err
		}

		h.Address = address.String
		h.Segment = segment.String
		h.Description = desc.String
		h.ReviewsSummary = summary.String
		h.TopPositiveReview = positive.String
		h.TopNegativeReview = negative.String

		if overall.Valid {
			f := overall.Float64
			h.OverallScore = &f
		}
		if price.Valid {
			f := price.Float64
			h.PriceRange = &f
		}
		if star.Valid {
			f := star.Float64
			h.StarRating = &f
		}
		if average.Valid {
			f := average.Float64
			h.AverageRating = &f
		}
		if lat.Valid && lng.Valid {
			h.Coords = &domain.Coords{Lat: lat.Float64, Lng: lng.Float64}
		}
		_ = json.Unmarshal(facilitiesJSON, &h.Facilities)
		_ = json.Unmarshal(ratingsJSON, &h.PlatformRatings)

		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Cities(ctx context.Context) ([]string, error) {
	return r.listStrings(ctx, citiesSQL)
}

func (r *Repo) Segments(ctx context.Context) ([]string, error) {
	return r.listStrings(ctx, segmentsSQL)
}

func (r *Repo) listStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
