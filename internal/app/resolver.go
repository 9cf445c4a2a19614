package app

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"hotelrec/internal/domain"
	"hotelrec/internal/geo"
	"hotelrec/internal/match"
)

const (
	fuzzyMaxMatches    = 10
	fuzzyMinSimilarity = 0.6

	noMatchMessage = "no exact match; showing top results"
	failedMessage  = "search failed; showing top results"
)

// Resolver turns a free-text area query into a hotel subset via a
// three-stage fallback: fuzzy address match, then geocode-and-distance,
// then an unranked default. A newer query supersedes any in-flight one:
// each resolution captures a generation at start and commits only if it
// is still the latest, so stale results never overwrite state.
type Resolver struct {
	geocoder domain.Geocoder

	gen     atomic.Uint64
	mu      sync.Mutex
	current *domain.Resolution
}

func NewResolver(g domain.Geocoder) *Resolver { return &Resolver{geocoder: g} }

// Resolve expects candidates to be the already city/price/sort-filtered
// set from the ranking pipeline; any subset it returns therefore still
// satisfies those filters. Returns domain.ErrSuperseded when a newer
// query won.
func (r *Resolver) Resolve(ctx context.Context, query, city string, candidates []domain.Hotel) (domain.Resolution, error) {
	gen := r.gen.Add(1)

	query = strings.TrimSpace(query)
	if query == "" {
		// Blank query short-circuits to "no active search".
		return r.commit(gen, domain.Resolution{Status: domain.ResolutionIdle})
	}

	// Address pool: each hotel contributes its address and city strings,
	// mapped back to owners so duplicate address text across hotels still
	// resolves every owner.
	pool := make([]string, 0, 2*len(candidates))
	owners := make(map[string][]domain.Hotel, 2*len(candidates))
	for _, h := range candidates {
		for _, text := range []string{h.Address, h.City} {
			if strings.TrimSpace(text) == "" {
				continue
			}
			if _, dup := owners[text]; !dup {
				pool = append(pool, text)
			}
			owners[text] = append(owners[text], h)
		}
	}

	if matches := match.CloseMatches(query, pool, fuzzyMaxMatches, fuzzyMinSimilarity); len(matches) > 0 {
		seen := make(map[string]bool)
		var hotels []domain.Hotel
		for _, m := range matches {
			for _, h := range owners[m] {
				if seen[h.Key()] {
					continue
				}
				seen[h.Key()] = true
				hotels = append(hotels, h)
			}
		}
		if len(hotels) > TopN {
			hotels = hotels[:TopN]
		}
		return r.commit(gen, domain.Resolution{
			Query:  query,
			Status: domain.ResolutionFuzzy,
			Hotels: hotels,
		})
	}

	lookup := query
	if city != "" && !strings.EqualFold(city, domain.CityAll) {
		lookup = query + ", " + city
	}
	center, err := r.geocoder.Geocode(ctx, lookup)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("geocode failed; falling back to top results")
		return r.commit(gen, domain.Resolution{
			Query:   query,
			Status:  domain.ResolutionFailed,
			Hotels:  firstN(candidates, TopN),
			Message: failedMessage,
		})
	}
	if center == nil {
		return r.commit(gen, domain.Resolution{
			Query:   query,
			Status:  domain.ResolutionNoMatch,
			Hotels:  firstN(candidates, TopN),
			Message: noMatchMessage,
		})
	}

	distances := make(map[string]float64, len(candidates))
	ranked := make([]domain.Hotel, 0, len(candidates))
	for _, h := range candidates {
		if h.Coords == nil {
			continue
		}
		distances[h.Key()] = geo.Distance(*center, *h.Coords)
		ranked = append(ranked, h)
	}
	if len(ranked) == 0 {
		// Geocoded fine but nothing to measure against.
		return r.commit(gen, domain.Resolution{
			Query:   query,
			Status:  domain.ResolutionNoMatch,
			Hotels:  firstN(candidates, TopN),
			Message: noMatchMessage,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return distances[ranked[i].Key()] < distances[ranked[j].Key()]
	})
	return r.commit(gen, domain.Resolution{
		Query:     query,
		Status:    domain.ResolutionNearest,
		Hotels:    firstN(ranked, TopN),
		Center:    center,
		Distances: distances,
	})
}

// Current returns the last committed resolution, or nil when no search is
// active.
func (r *Resolver) Current() *domain.Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil
	}
	res := *r.current
	return &res
}

func (r *Resolver) commit(gen uint64, res domain.Resolution) (domain.Resolution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen.Load() != gen {
		return domain.Resolution{}, domain.ErrSuperseded
	}
	if res.Status == domain.ResolutionIdle {
		r.current = nil
	} else {
		r.current = &res
	}
	return res, nil
}

func firstN(hotels []domain.Hotel, n int) []domain.Hotel {
	if len(hotels) > n {
		hotels = hotels[:n]
	}
	out := make([]domain.Hotel, len(hotels))
	copy(out, hotels)
	return out
}
