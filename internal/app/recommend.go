package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotelrec/internal/domain"
)

// RecommendationService owns the candidate ranking and query-resolution
// pipeline: persona recommendations, the filter/sort/top-N search, and
// criteria filtering.
type RecommendationService struct {
	catalog  domain.Catalog
	cache    domain.Cache
	scorer   *Scorer
	resolver *Resolver
	remote   domain.RemoteFilter // optional, best-effort
	cacheTTL time.Duration
}

func NewRecommendationService(
	catalog domain.Catalog,
	cache domain.Cache,
	scorer *Scorer,
	resolver *Resolver,
	remote domain.RemoteFilter,
	ttl time.Duration,
) *RecommendationService {
	return &RecommendationService{
		catalog:  catalog,
		cache:    cache,
		scorer:   scorer,
		resolver: resolver,
		remote:   remote,
		cacheTTL: ttl,
	}
}

// Recommend returns the top-5 hotels for a city and customer segment,
// ranked by combined score descending. Scores are computed once per hotel
// per run and not mutated afterward.
func (s *RecommendationService) Recommend(ctx context.Context, city, segment string) ([]domain.ScoredHotel, error) {
	key := fmt.Sprintf("recommend:%s:%s", strings.ToLower(city), strings.ToLower(segment))
	var cached []domain.ScoredHotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	hotels, err := s.catalog.ListHotels(ctx, domain.CatalogQuery{City: city, Segment: segment})
	if err != nil {
		return nil, err
	}
	if len(hotels) == 0 {
		return nil, fmt.Errorf("no hotels for %q in %q: %w", segment, city, domain.ErrNotFound)
	}

	scored := s.scoreAll(ctx, hotels)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Scores.Combined > scored[j].Scores.Combined
	})
	if len(scored) > TopN {
		scored = scored[:TopN]
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, scored, int(s.cacheTTL.Seconds()))
	}
	return scored, nil
}

// Search runs the ranking pipeline and, when an area query is present,
// the resolver on top of the pipeline's candidate set. The resolver only
// ever subsets the filtered candidates, so the final result still
// satisfies every pipeline filter.
func (s *RecommendationService) Search(ctx context.Context, opts domain.RankOptions, segment, areaQuery string) (domain.Resolution, error) {
	hotels, err := s.catalog.ListHotels(ctx, domain.CatalogQuery{City: opts.City, Segment: segment})
	if err != nil {
		return domain.Resolution{}, err
	}
	candidates := Rank(hotels, opts)

	if strings.TrimSpace(areaQuery) == "" {
		// A blank query still goes through the resolver so any previously
		// committed resolution is cleared, not just bypassed.
		res, err := s.resolver.Resolve(ctx, "", opts.City, nil)
		if err != nil {
			return domain.Resolution{}, err
		}
		res.Hotels = candidates
		return res, nil
	}
	return s.resolver.Resolve(ctx, areaQuery, opts.City, candidates)
}

// Filter applies the criteria-filter operation: base city+segment, then
// optional address substring, price bounds, exact star rating and minimum
// average rating, then an optional sort. Unknown city or segment is
// ErrNotFound; an empty result after valid filters is not.
func (s *RecommendationService) Filter(ctx context.Context, c domain.FilterCriteria) ([]domain.ScoredHotel, error) {
	if err := s.validateCriteria(ctx, c); err != nil {
		return nil, err
	}

	hotels, err := s.catalog.ListHotels(ctx, domain.CatalogQuery{City: c.City, Segment: c.Segment})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if c.Address != "" && !strings.Contains(strings.ToLower(h.Address), strings.ToLower(c.Address)) {
			continue
		}
		price := valueOr(h.PriceRange, domain.DefaultPrice)
		if c.PriceMin != nil && price < *c.PriceMin {
			continue
		}
		if c.PriceMax != nil && price > *c.PriceMax {
			continue
		}
		if c.StarRating != nil && valueOr(h.StarRating, 0) != *c.StarRating {
			continue
		}
		if c.MinAverageRating != nil && valueOr(h.AverageRating, 0) < *c.MinAverageRating {
			continue
		}
		out = append(out, h)
	}

	if c.Sort != nil {
		sortByCriteria(out, *c.Sort)
	}
	return s.scoreAll(ctx, out), nil
}

// RefineRemote posts the local set plus criteria to the remote filter
// endpoint. Any failure keeps the local set unchanged.
func (s *RecommendationService) RefineRemote(ctx context.Context, local []domain.ScoredHotel, c domain.FilterCriteria) []domain.ScoredHotel {
	if s.remote == nil {
		return local
	}
	refined, err := s.remote.Refine(ctx, local, c)
	if err != nil {
		log.Warn().Err(err).Msg("remote filter failed; keeping local result")
		return local
	}
	return refined
}

// Resolution exposes the resolver's last committed state for display.
func (s *RecommendationService) Resolution() *domain.Resolution {
	return s.resolver.Current()
}

func (s *RecommendationService) scoreAll(ctx context.Context, hotels []domain.Hotel) []domain.ScoredHotel {
	scored := make([]domain.ScoredHotel, len(hotels))
	for i, h := range hotels {
		scored[i] = domain.ScoredHotel{
			Hotel:         h,
			Scores:        s.scorer.Score(ctx, h),
			FeatureScores: s.scorer.FeatureScores(ctx, h),
		}
	}
	return scored
}

func (s *RecommendationService) validateCriteria(ctx context.Context, c domain.FilterCriteria) error {
	cities, err := s.catalog.Cities(ctx)
	if err != nil {
		return err
	}
	if !containsFold(cities, c.City) {
		return fmt.Errorf("unknown city %q: %w", c.City, domain.ErrNotFound)
	}
	segments, err := s.catalog.Segments(ctx)
	if err != nil {
		return err
	}
	if c.Segment != "" && !containsFold(segments, c.Segment) {
		return fmt.Errorf("unknown segment %q: %w", c.Segment, domain.ErrNotFound)
	}
	return nil
}

func sortByCriteria(hotels []domain.Hotel, fs domain.FilterSort) {
	key := func(h domain.Hotel) float64 {
		switch fs.By {
		case "price":
			return valueOr(h.PriceRange, domain.DefaultPrice)
		case "hotel_star_rating":
			return valueOr(h.StarRating, 0)
		default: // average_rating
			return valueOr(h.AverageRating, 0)
		}
	}
	sort.SliceStable(hotels, func(i, j int) bool {
		if fs.Order == domain.SortAsc {
			return key(hotels[i]) < key(hotels[j])
		}
		return key(hotels[i]) > key(hotels[j])
	})
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
