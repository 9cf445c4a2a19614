package app

import (
	"sort"
	"strings"

	"hotelrec/internal/domain"
)

// TopN is the hard result cap applied by the ranking pipeline.
const TopN = 5

// rankStage is one named step of the pipeline. The stage order below is a
// contract, not incidental: truncation to TopN happens BEFORE the price
// filter, so price filtering narrows within the already-truncated top 5
// and never re-expands the candidate pool. The star filter runs last and
// only when sorting by star.
type rankStage struct {
	name  string
	apply func([]domain.Hotel, domain.RankOptions) []domain.Hotel
}

var rankStages = []rankStage{
	{name: "city_filter", apply: cityFilter},
	{name: "sort", apply: sortByKey},
	{name: "truncate", apply: truncateTopN},
	{name: "price_filter", apply: priceFilter},
	{name: "star_filter", apply: starFilter},
}

// Rank applies the fixed filter/sort/top-N pipeline. Pure: the input
// slice and its records are never mutated. An empty result is valid
// output, not an error.
func Rank(hotels []domain.Hotel, opts domain.RankOptions) []domain.Hotel {
	out := make([]domain.Hotel, len(hotels))
	copy(out, hotels)
	for _, st := range rankStages {
		out = st.apply(out, opts)
	}
	return out
}

func cityFilter(hotels []domain.Hotel, opts domain.RankOptions) []domain.Hotel {
	if opts.City == "" || strings.EqualFold(opts.City, domain.CityAll) {
		return hotels
	}
	out := hotels[:0]
	for _, h := range hotels {
		if strings.EqualFold(h.City, opts.City) {
			out = append(out, h)
		}
	}
	return out
}

func sortByKey(hotels []domain.Hotel, opts domain.RankOptions) []domain.Hotel {
	switch opts.Sort {
	case domain.SortByPrice:
		sort.SliceStable(hotels, func(i, j int) bool {
			return valueOr(hotels[i].PriceRange, 0) < valueOr(hotels[j].PriceRange, 0)
		})
	case domain.SortByStar:
		sort.SliceStable(hotels, func(i, j int) bool {
			return valueOr(hotels[i].StarRating, 0) > valueOr(hotels[j].StarRating, 0)
		})
	default: // SortByScore
		sort.SliceStable(hotels, func(i, j int) bool {
			return valueOr(hotels[i].OverallScore, 0) > valueOr(hotels[j].OverallScore, 0)
		})
	}
	return hotels
}

func truncateTopN(hotels []domain.Hotel, _ domain.RankOptions) []domain.Hotel {
	if len(hotels) > TopN {
		return hotels[:TopN]
	}
	return hotels
}

func priceFilter(hotels []domain.Hotel, opts domain.RankOptions) []domain.Hotel {
	if opts.Price == nil {
		return hotels
	}
	out := hotels[:0]
	for _, h := range hotels {
		p := valueOr(h.PriceRange, domain.DefaultPrice)
		if p >= opts.Price.Min && p <= opts.Price.Max {
			out = append(out, h)
		}
	}
	return out
}

func starFilter(hotels []domain.Hotel, opts domain.RankOptions) []domain.Hotel {
	if opts.Sort != domain.SortByStar || opts.StarRating == nil {
		return hotels
	}
	out := hotels[:0]
	for _, h := range hotels {
		if valueOr(h.StarRating, 0) == *opts.StarRating {
			out = append(out, h)
		}
	}
	return out
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
