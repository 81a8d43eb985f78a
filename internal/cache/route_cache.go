package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"invoice-dashboard-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	keyRoutePrefix    = "route:"
	keyRouteGenPrefix = "route-gen:"
)

// RouteCache keeps rendered page data in Redis keyed by route path.
//
// Each path has a generation counter bumped by Invalidate. A fill only lands
// if the generation it was computed under is still current, so a listing read
// before a write cannot be cached after that write's invalidation.
type RouteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRouteCache returns a new RouteCache.
func NewRouteCache(rdb *redis.Client, ttl time.Duration) *RouteCache {
	return &RouteCache{rdb: rdb, ttl: ttl}
}

// GetInvoices returns the cached invoice list for path and the path's current
// generation. ok is false on a miss; gen is still valid and should be passed
// to SetInvoices when refilling.
func (c *RouteCache) GetInvoices(ctx context.Context, path string) (list []models.Invoice, gen int64, ok bool, err error) {
	vals, err := c.rdb.MGet(ctx, keyRoutePrefix+path, keyRouteGenPrefix+path).Result()
	if err != nil {
		return nil, 0, false, err
	}
	if gen, err = parseGen(vals[1]); err != nil {
		return nil, 0, false, err
	}
	raw, hit := vals[0].(string)
	if !hit {
		return nil, gen, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, gen, false, err
	}
	return list, gen, true, nil
}

// SetInvoices stores the invoice list for path if the path is still at
// generation gen. A stale fill is dropped silently.
func (c *RouteCache) SetInvoices(ctx context.Context, path string, gen int64, list []models.Invoice) error {
	if list == nil {
		list = []models.Invoice{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}

	genKey := keyRouteGenPrefix + path
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		curGen, err := parseGen(nilIfMissing(cur, err))
		if err != nil {
			return err
		}
		if curGen != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyRoutePrefix+path, b, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate bumps the generation of path and drops whatever is cached for it
// so the next read recomputes it.
func (c *RouteCache) Invalidate(ctx context.Context, path string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, keyRouteGenPrefix+path)
		pipe.Del(ctx, keyRoutePrefix+path)
		return nil
	})
	return err
}

func nilIfMissing(v string, err error) any {
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return v
}

func parseGen(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("route generation %q: %w", s, err)
	}
	return gen, nil
}
