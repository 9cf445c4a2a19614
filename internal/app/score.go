package app

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"hotelrec/internal/domain"
)

const (
	// FallbackSentiment substitutes the sentiment signal at the scoring
	// call site whenever the classifier is unavailable or errors.
	// Sentiment analysis is best-effort, never blocking.
	FallbackSentiment = 0.7

	// defaultNormalizedRating is used when a hotel has no average rating.
	defaultNormalizedRating = 0.5

	// maxSentimentInput caps the text handed to the classifier.
	maxSentimentInput = 512
)

// featureKeywords drive the per-feature review scores surfaced alongside
// recommendations.
var featureKeywords = map[string][]string{
	"cleanliness": {"clean", "tidy", "spotless", "dirty", "messy", "hygiene"},
	"location":    {"location", "central", "convenient", "accessible", "nearby", "far"},
	"service":     {"service", "staff", "helpful", "friendly", "rude", "unprofessional"},
}

// Fuse combines a sentiment score with a normalized rating into one
// comparable bundle. normalizedRating = clamp(avg/5, 0, 1) when an
// average exists, else exactly 0.5. Combined is always in [0,1].
func Fuse(sentiment float64, avgOutOf5 *float64) domain.ScoreBundle {
	nr := defaultNormalizedRating
	if avgOutOf5 != nil {
		nr = clamp01(*avgOutOf5 / 5)
	}
	s := clamp01(sentiment)
	return domain.ScoreBundle{
		Sentiment:        s,
		NormalizedRating: nr,
		Combined:         (s + nr) / 2,
	}
}

// ClassifierFactory builds the process-wide sentiment classifier. It runs
// at most once; a construction error degrades every score to the fixed
// fallback instead of failing callers.
type ClassifierFactory func() (domain.SentimentClassifier, error)

// Scorer is the shared, lazily-initialized handle around the sentiment
// model. Safe for concurrent use; the classifier is read-only after init.
type Scorer struct {
	factory ClassifierFactory

	once    sync.Once
	cl      domain.SentimentClassifier
	initErr error
}

func NewScorer(f ClassifierFactory) *Scorer { return &Scorer{factory: f} }

func (s *Scorer) classifier() (domain.SentimentClassifier, error) {
	s.once.Do(func() {
		s.cl, s.initErr = s.factory()
		if s.initErr != nil {
			log.Warn().Err(s.initErr).Msg("sentiment classifier init failed; scoring with fallback")
		}
	})
	return s.cl, s.initErr
}

// SentimentScore classifies text into [0,1]. NEGATIVE labels invert the
// model score. Blank text and any adapter error yield FallbackSentiment.
func (s *Scorer) SentimentScore(ctx context.Context, text string) float64 {
	if strings.TrimSpace(text) == "" {
		return FallbackSentiment
	}
	cl, err := s.classifier()
	if err != nil {
		return FallbackSentiment
	}
	out, err := cl.Classify(ctx, text, maxSentimentInput)
	if err != nil {
		log.Warn().Err(err).Msg("sentiment classify failed; using fallback")
		return FallbackSentiment
	}
	if strings.EqualFold(out.Label, "NEGATIVE") {
		return clamp01(1 - out.Score)
	}
	return clamp01(out.Score)
}

// Score computes the ranking bundle for one hotel.
func (s *Scorer) Score(ctx context.Context, h domain.Hotel) domain.ScoreBundle {
	return Fuse(s.SentimentScore(ctx, h.ReviewText()), h.AverageRating)
}

// FeatureScores rates each feature 0-100 from the review sentences that
// mention it. Features never mentioned score 0.
func (s *Scorer) FeatureScores(ctx context.Context, h domain.Hotel) map[string]int {
	text := h.ReviewText()
	out := make(map[string]int, len(featureKeywords))
	for feature, keywords := range featureKeywords {
		mentions := sentencesMentioning(text, keywords)
		if mentions == "" {
			out[feature] = 0
			continue
		}
		out[feature] = int(s.SentimentScore(ctx, mentions)*100 + 0.5)
	}
	return out
}

func sentencesMentioning(text string, keywords []string) string {
	if text == "" {
		return ""
	}
	var hits []string
	for _, sentence := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		low := strings.ToLower(sentence)
		for _, kw := range keywords {
			if strings.Contains(low, kw) {
				hits = append(hits, strings.TrimSpace(sentence))
				break
			}
		}
	}
	return strings.Join(hits, ". ")
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
