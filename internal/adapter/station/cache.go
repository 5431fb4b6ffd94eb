package station

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/storm-flight-track/internal/domain"
	"github.com/couchcryptid/storm-flight-track/internal/geodesy"
)

// CachedResolver wraps a StationResolver with an LRU cache.
type CachedResolver struct {
	inner domain.StationResolver
	cache *lru.Cache[string, geodesy.Point]
}

// NewCachedResolver creates a cache decorator around a resolver. A size
// below one is treated as one.
func NewCachedResolver(inner domain.StationResolver, size int) (*CachedResolver, error) {
	if size < 1 {
		size = 1
	}
	cache, err := lru.New[string, geodesy.Point](size)
	if err != nil {
		return nil, err
	}
	return &CachedResolver{inner: inner, cache: cache}, nil
}

func (c *CachedResolver) Resolve(name string) (geodesy.Point, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if p, ok := c.cache.Get(key); ok {
		return p, true
	}
	p, ok := c.inner.Resolve(name)
	// Only hits are cached.
	if ok {
		c.cache.Add(key, p)
	}
	return p, ok
}

// Len returns the number of cached stations.
func (c *CachedResolver) Len() int { return c.cache.Len() }
