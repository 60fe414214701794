package sky

import (
	"math"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/litescript/ls-sidereal/internal/astro"
)

// DefaultCacheSize covers a paused frame plus a few seconds of redraws.
const DefaultCacheSize = 256

type frameKey struct {
	t        uint64
	lat, lon uint64
	gmst0    uint64
	sunLon   uint64
}

func keyFor(t float64, obs astro.Observer, ref astro.Reference) frameKey {
	return frameKey{
		t:      math.Float64bits(t),
		lat:    math.Float64bits(obs.Latitude),
		lon:    math.Float64bits(obs.Longitude),
		gmst0:  math.Float64bits(ref.GMST),
		sunLon: math.Float64bits(ref.SunLon),
	}
}

// Cache memoizes Compute. A paused or stepped simulation asks for the same
// instant many times per second; frames are immutable so they can be shared.
// Safe for concurrent use.
type Cache struct {
	frames *lru.Cache // frameKey -> Frame
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache returns a cache holding up to size frames. Non-positive sizes use
// DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	frames, _ := lru.New(size)
	return &Cache{frames: frames}
}

// Frame returns the frame for t, computing it on a miss.
func (c *Cache) Frame(t float64, obs astro.Observer, ref astro.Reference) Frame {
	k := keyFor(t, obs, ref)
	if val, ok := c.frames.Get(k); ok {
		c.hits.Add(1)
		return val.(Frame)
	}
	c.misses.Add(1)
	f := Compute(t, obs, ref)
	c.frames.Add(k, f)
	return f
}

// Stats returns cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Len is the number of cached frames.
func (c *Cache) Len() int {
	return c.frames.Len()
}

// Purge drops every cached frame.
func (c *Cache) Purge() {
	c.frames.Purge()
}
