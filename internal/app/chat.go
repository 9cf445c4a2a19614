package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"hotelrec/internal/domain"
	"hotelrec/internal/match"
)

const (
	// chatMinQueryLen rejects queries too short to carry intent.
	chatMinQueryLen = 3

	// chatMinConfidence drops hotels whose context barely resembles the
	// query; below this the match is noise, not a recommendation.
	chatMinConfidence = 0.2
)

// Chat answers a natural-language feature query by retrieving the hotels
// whose search context (facilities, review summary, description) best
// matches it. Returns up to TopN matches ordered by confidence descending,
// each with the facilities that triggered the match and a summary of why
// it was selected.
func (s *RecommendationService) Chat(ctx context.Context, query string) ([]domain.ChatMatch, error) {
	q := strings.TrimSpace(query)
	if len(q) < chatMinQueryLen {
		return nil, fmt.Errorf("query must be at least %d characters: %w", chatMinQueryLen, domain.ErrInvalidQuery)
	}

	hotels, err := s.catalog.ListHotels(ctx, domain.CatalogQuery{})
	if err != nil {
		return nil, err
	}

	queryTokens := queryTerms(q)
	type candidate struct {
		hotel domain.Hotel
		conf  float64
	}
	candidates := make([]candidate, 0, len(hotels))
	for _, h := range hotels {
		conf := contextConfidence(queryTokens, h.SearchContext())
		if conf < chatMinConfidence {
			continue
		}
		candidates = append(candidates, candidate{hotel: h, conf: conf})
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no hotels match %q: %w", q, domain.ErrNotFound)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].conf > candidates[j].conf
	})
	if len(candidates) > TopN {
		candidates = candidates[:TopN]
	}

	out := make([]domain.ChatMatch, len(candidates))
	for i, c := range candidates {
		scored := domain.ScoredHotel{
			Hotel:         c.hotel,
			Scores:        s.scorer.Score(ctx, c.hotel),
			FeatureScores: s.scorer.FeatureScores(ctx, c.hotel),
		}
		m := domain.ChatMatch{
			ScoredHotel:        scored,
			Confidence:         int(c.conf*100 + 0.5),
			RelevantFacilities: relevantFacilities(q, c.hotel.Facilities),
		}
		m.MatchSummary = matchSummary(q, m)
		out[i] = m
	}
	return out, nil
}

// queryTerms tokenizes a query into lower-cased terms long enough to
// carry meaning.
func queryTerms(q string) []string {
	fields := strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= chatMinQueryLen {
			out = append(out, f)
		}
	}
	return out
}

// contextConfidence scores how well a search context covers the query
// terms: each term contributes its best fuzzy similarity against the
// context tokens, averaged over all terms.
func contextConfidence(queryTokens []string, context string) float64 {
	if len(queryTokens) == 0 || strings.TrimSpace(context) == "" {
		return 0
	}
	ctxTokens := queryTerms(context)
	if len(ctxTokens) == 0 {
		return 0
	}

	var sum float64
	for _, qt := range queryTokens {
		best := 0.0
		for _, ct := range ctxTokens {
			if sim := match.Similarity(qt, ct); sim > best {
				best = sim
				if best == 1 {
					break
				}
			}
		}
		sum += best
	}
	return sum / float64(len(queryTokens))
}

// relevantFacilities keeps the facilities mentioning any query word.
func relevantFacilities(query string, facilities []string) []string {
	words := strings.Fields(strings.ToLower(query))
	var out []string
	for _, f := range facilities {
		low := strings.ToLower(f)
		for _, w := range words {
			if strings.Contains(low, w) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// matchSummary explains a hit: confidence, triggering facilities, and the
// feature scores the query asked about. Features are walked in sorted
// order so the summary is deterministic.
func matchSummary(query string, m domain.ChatMatch) string {
	parts := []string{fmt.Sprintf("This hotel matches your query with %d%% confidence.", m.Confidence)}
	if len(m.RelevantFacilities) > 0 {
		parts = append(parts, fmt.Sprintf("It features: %s.", strings.Join(m.RelevantFacilities, ", ")))
	}

	low := strings.ToLower(query)
	features := make([]string, 0, len(featureKeywords))
	for f := range featureKeywords {
		features = append(features, f)
	}
	sort.Strings(features)
	for _, feature := range features {
		for _, kw := range featureKeywords[feature] {
			if strings.Contains(low, kw) {
				parts = append(parts, fmt.Sprintf("%s score: %d%%.", titleWord(feature), m.FeatureScores[feature]))
				break
			}
		}
	}
	return strings.Join(parts, " ")
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
