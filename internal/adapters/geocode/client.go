// internal/adapters/geocode/client.go
package geocode

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotelrec/internal/adapters/observability"
	"hotelrec/internal/domain"
)

// Client resolves free text to a coordinate against a Nominatim-style
// search endpoint. Lookups are rate-limited client-side (usage policy)
// and retried on transient failures.
type Client struct {
	base string
	hc   *http.Client
	ua   string
	rl   *rate.Limiter
}

func New(base, userAgent string, rps int) *Client {
	if rps <= 0 {
		rps = 1
	}
	if userAgent == "" {
		userAgent = "hotelrec/1.0"
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
		ua:   userAgent,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns (nil, nil) when the service resolves nothing for the
// text; an error only for transport-level failures.
func (c *Client) Geocode(ctx context.Context, text string) (*domain.Coords, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("format", "json")
	q.Set("limit", "1")
	u := c.base + "/search?" + q.Encode()

	start := time.Now()
	var out []place
	status, err := c.get(ctx, u, &out)
	observability.ObserveExternal("geocode", "/search", status, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", text, err)
	}
	if len(out) == 0 {
		return nil, nil
	}

	lat, latErr := strconv.ParseFloat(out[0].Lat, 64)
	lng, lngErr := strconv.ParseFloat(out[0].Lon, 64)
	if latErr != nil || lngErr != nil {
		// malformed payload counts as "no center resolved"
		return nil, nil
	}
	return &domain.Coords{Lat: lat, Lng: lng}, nil
}

// get performs a GET with retries on 429 and transient 5xx, honoring
// Retry-After when provided. Returns the last HTTP status for metrics.
func (c *Client) get(ctx context.Context, url string, out any) (int, error) {
	var lastErr error
	lastStatus := 0
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.ua)

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			return 0, lastErr
		}

		lastStatus = resp.StatusCode
		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return lastStatus, err

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return lastStatus, ctx.Err()
			}
			return lastStatus, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return lastStatus, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastStatus, lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles each attempt (200ms, 400ms, 800ms...) with up to +50%
// jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
