package domain

// SortKey selects the ranking pipeline sort stage.
type SortKey string

const (
	SortByScore SortKey = "ai_score" // overall_score descending
	SortByPrice SortKey = "price"    // price_range ascending
	SortByStar  SortKey = "star"     // hotel_star_rating descending
)

// CityAll is the sentinel that disables the city filter.
const CityAll = "all"

// PriceRange bounds are inclusive; hotels without a price are tested
// against DefaultPrice.
type PriceRange struct{ Min, Max float64 }

// DefaultPrice substitutes a missing price_range during filtering.
const DefaultPrice = 2500

// RankOptions drive the filter/sort/top-N pipeline. StarRating is only
// consulted when Sort == SortByStar.
type RankOptions struct {
	City       string
	Sort       SortKey
	Price      *PriceRange
	StarRating *float64
}

// ResolutionStatus reports the terminal state of an area-query resolution.
type ResolutionStatus string

const (
	ResolutionIdle    ResolutionStatus = "idle"     // blank query, no active search
	ResolutionFuzzy   ResolutionStatus = "fuzzy"    // fuzzy address match succeeded
	ResolutionNearest ResolutionStatus = "nearest"  // geocoded, ranked by distance
	ResolutionNoMatch ResolutionStatus = "no_match" // no match anywhere, unranked fallback
	ResolutionFailed  ResolutionStatus = "failed"   // adapter failure, unranked fallback
)

// Resolution is the read model handed to the presentation boundary. It is
// recreated per query and superseded wholesale by the next one.
type Resolution struct {
	Query     string
	Status    ResolutionStatus
	Hotels    []Hotel
	Center    *Coords            // set when Status == ResolutionNearest
	Distances map[string]float64 // composite key -> km from Center
	Message   string             // user-facing advisory for no_match / failed
}

// SortOrder for criteria filtering.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterSort names a criteria-filter sort field and direction.
type FilterSort struct {
	By    string // price | hotel_star_rating | average_rating
	Order SortOrder
}

// FilterCriteria is the criteria-filter request shape; it is also what the
// remote filter endpoint accepts alongside the local top-5.
type FilterCriteria struct {
	City             string
	Segment          string
	Address          string
	PriceMin         *float64
	PriceMax         *float64
	StarRating       *float64
	MinAverageRating *float64
	Sort             *FilterSort
}
