package providers

import (
	"context"
	"strings"
	"time"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"

	"github.com/i474232898/skycast/internal/weather"
)

// CachedGeocoder wraps a Geocoder and memoizes successful forward searches.
// Misses and errors always go to the wrapped geocoder; reverse lookups are not cached.
type CachedGeocoder struct {
	inner weather.Geocoder
	cache *freecache.Cache
	ttl   int
}

// NewCachedGeocoder returns inner unchanged when sizeMB or ttl is not positive.
func NewCachedGeocoder(inner weather.Geocoder, sizeMB int, ttl time.Duration) weather.Geocoder {
	if sizeMB <= 0 || ttl <= 0 {
		return inner
	}
	return &CachedGeocoder{
		inner: inner,
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   max(int(ttl.Seconds()), 1),
	}
}

func (c *CachedGeocoder) Name() string {
	return c.inner.Name() + " [cached]"
}

func (c *CachedGeocoder) Search(ctx context.Context, q weather.PlaceQuery) (weather.Place, error) {
	key := []byte("search:" + strings.ToLower(q.String()))
	if data, err := c.cache.Get(key); err == nil {
		var place weather.Place
		if err := json.Unmarshal(data, &place); err == nil {
			return place, nil
		}
	}

	place, err := c.inner.Search(ctx, q)
	if err != nil {
		return weather.Place{}, err
	}
	if data, err := json.Marshal(place); err == nil {
		_ = c.cache.Set(key, data, c.ttl)
	}
	return place, nil
}

func (c *CachedGeocoder) Reverse(ctx context.Context, lat, lon float64) (weather.Place, error) {
	return c.inner.Reverse(ctx, lat, lon)
}

// Stats returns cache hit and miss counts.
func (c *CachedGeocoder) Stats() (hits, misses int64) {
	return c.cache.HitCount(), c.cache.MissCount()
}
