package books

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
)

const (
	listKey   = "catalog:books"
	bookKeyNS = "catalog:book:"

	// loadTimeout bounds a coalesced database load, which runs detached
	// from the deadline of the caller that started it.
	loadTimeout = 10 * time.Second
)

var _ Repository = (*CachedRepository)(nil)

// CachedRepository is a cache-aside decorator over another Repository.
// Redis calls go through a circuit breaker; whenever Redis misbehaves or the
// breaker is open, reads fall through to next. Concurrent misses for the
// same key are coalesced.
type CachedRepository struct {
	next Repository
	rdb  redis.Cmdable
	cb   *gobreaker.CircuitBreaker
	sf   singleflight.Group
	ttl  time.Duration
	log  logging.Logger
}

func NewCachedRepository(next Repository, rdb redis.Cmdable, ttl time.Duration, log logging.Logger) *CachedRepository {
	st := gobreaker.Settings{
		Name:        "catalog-redis",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn(context.Background(), "circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &CachedRepository{
		next: next,
		rdb:  rdb,
		cb:   gobreaker.NewCircuitBreaker(st),
		ttl:  ttl,
		log:  log,
	}
}

func (c *CachedRepository) List(ctx context.Context) ([]models.Book, error) {
	var cached []models.Book
	if c.lookup(ctx, listKey, &cached) {
		return cached, nil
	}

	v, err := c.load(ctx, listKey, func(ctx context.Context) (interface{}, error) {
		books, err := c.next.List(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, listKey, books)
		return books, nil
	})
	if err != nil {
		return nil, err
	}

	shared := v.([]models.Book)
	out := make([]models.Book, len(shared))
	copy(out, shared)
	return out, nil
}

func (c *CachedRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	key := bookKeyNS + id

	var cached models.Book
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	v, err := c.load(ctx, key, func(ctx context.Context) (interface{}, error) {
		book, err := c.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, book)
		return book, nil
	})
	if err != nil {
		return nil, err
	}

	b := *v.(*models.Book)
	return &b, nil
}

// load runs fn once per key for all concurrent callers. fn gets a context
// detached from any single caller, so one caller going away does not fail
// the others; each caller still stops waiting when its own ctx ends.
func (c *CachedRepository) load(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := c.sf.DoChan(key, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return fn(lctx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// lookup decodes the cached value at key into dst and reports whether it
// was a usable hit.
func (c *CachedRepository) lookup(ctx context.Context, key string, dst any) bool {
	val, err := c.cb.Execute(func() (interface{}, error) {
		res, err := c.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	if err != nil {
		c.log.Warn(ctx, "catalog cache read skipped", "key", key, "error", err)
		return false
	}
	if val == nil {
		return false
	}

	if err := json.Unmarshal(val.([]byte), dst); err != nil {
		c.log.Warn(ctx, "catalog cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (c *CachedRepository) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn(ctx, "catalog cache encode failed", "key", key, "error", err)
		return
	}

	_, err = c.cb.Execute(func() (interface{}, error) {
		return nil, c.rdb.Set(ctx, key, data, c.jitteredTTL()).Err()
	})
	if err != nil {
		c.log.Warn(ctx, "catalog cache write failed", "key", key, "error", err)
	}
}

// jitteredTTL spreads expiry over [ttl, ttl*1.1] so entries loaded together
// do not expire together.
func (c *CachedRepository) jitteredTTL() time.Duration {
	spread := int64(c.ttl / 10)
	if spread <= 0 {
		return c.ttl
	}
	return c.ttl + time.Duration(rand.Int64N(spread+1))
}
