package geocode

import (
	"context"
	"strings"

	"hotelrec/internal/domain"
)

// Cached wraps a Geocoder with the shared cache. Negative lookups are
// cached too, so repeated misses do not burn the upstream rate limit.
type Cached struct {
	next  domain.Geocoder
	cache domain.Cache
	ttl   int // seconds
}

func WithCache(next domain.Geocoder, cache domain.Cache, ttlSec int) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttlSec}
}

type cachedCenter struct {
	Found  bool           `json:"found"`
	Center *domain.Coords `json:"center,omitempty"`
}

func (c *Cached) Geocode(ctx context.Context, text string) (*domain.Coords, error) {
	key := "geocode:" + strings.ToLower(strings.TrimSpace(text))

	var hit cachedCenter
	if ok, _ := c.cache.Get(ctx, key, &hit); ok {
		if !hit.Found {
			return nil, nil
		}
		return hit.Center, nil
	}

	center, err := c.next.Geocode(ctx, text)
	if err != nil {
		// transport failures are not cached
		return nil, err
	}
	_ = c.cache.Set(ctx, key, cachedCenter{Found: center != nil, Center: center}, c.ttl)
	return center, nil
}
