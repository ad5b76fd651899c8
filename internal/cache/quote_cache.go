package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"pty_logistics/internal/pricing"
)

// QuoteCache memoizes computed price breakdowns in redis. Entries expire on
// a short TTL rather than being invalidated on catalog edits; a stale quote
// can outlive a price change by at most the TTL.
type QuoteCache struct {
	c   *redis.Client
	ttl time.Duration
}

func NewQuoteCache(addr string, ttl time.Duration) *QuoteCache {
	return &QuoteCache{
		c: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
		ttl: ttl,
	}
}

// Key builds the cache key for one quote request.
func (q *QuoteCache) Key(routeID uint, routeType string, passengers int, waitingHours float64) string {
	return fmt.Sprintf("quote:%d:%s:%d:%g", routeID, routeType, passengers, waitingHours)
}

func (q *QuoteCache) Get(ctx context.Context, key string) (pricing.Breakdown, bool, error) {
	val, err := q.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return pricing.Breakdown{}, false, nil
	}
	if err != nil {
		return pricing.Breakdown{}, false, errors.Wrap(err, "quote cache get")
	}
	var b pricing.Breakdown
	if err := json.Unmarshal(val, &b); err != nil {
		return pricing.Breakdown{}, false, errors.Wrap(err, "quote cache decode")
	}
	return b, true, nil
}

func (q *QuoteCache) Set(ctx context.Context, key string, b pricing.Breakdown) error {
	val, err := json.Marshal(b)
	if err != nil {
		return errors.Wrap(err, "quote cache encode")
	}
	if err := q.c.Set(ctx, key, val, q.ttl).Err(); err != nil {
		return errors.Wrap(err, "quote cache set")
	}
	return nil
}
