package cache

import (
	"fmt"
	"nbprates/internal/domain"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
)

// RistrettoSessionCache keeps the dataset each client session loaded last.
type RistrettoSessionCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewSessionCache(maxItems int64, ttl time.Duration) (*RistrettoSessionCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
		// every session costs 1, so MaxCost is the number of sessions
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache failed: %w", err)
	}
	return &RistrettoSessionCache{cache: c, ttl: ttl}, nil
}

func (c *RistrettoSessionCache) Get(sessionID uuid.UUID) (domain.Dataset, bool) {
	if v, ok := c.cache.Get(sessionID.String()); ok {
		ds, ok := v.(domain.Dataset)
		return ds, ok
	}
	return domain.Dataset{}, false
}

// Set replaces the session's dataset. Once the cache is full the admission policy may refuse a
// new session in favour of frequently read ones; that is reported as ErrSessionStoreFull.
func (c *RistrettoSessionCache) Set(sessionID uuid.UUID, dataset domain.Dataset) error {
	key := sessionID.String()
	var accepted bool
	if c.ttl > 0 {
		accepted = c.cache.SetWithTTL(key, dataset, 1, c.ttl)
	} else {
		accepted = c.cache.Set(key, dataset, 1)
	}
	c.cache.Wait()

	// admission is decided asynchronously, so a buffered write can still be dropped
	if !accepted {
		return domain.ErrSessionStoreFull
	}
	if _, ok := c.cache.Get(key); !ok {
		return domain.ErrSessionStoreFull
	}
	return nil
}

func (c *RistrettoSessionCache) Close() { c.cache.Close() }
