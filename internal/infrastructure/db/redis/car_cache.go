package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/binarcar/car-rental/internal/core/domain"
	"github.com/binarcar/car-rental/internal/pkg/metrics"
)

const (
	defaultCarTTL    = time.Minute
	defaultOpTimeout = 500 * time.Millisecond
)

// Config holds the connection settings of the car cache. OpTimeout bounds
// dialing and each read or write, so an unhealthy Redis costs a request at
// most that long before the cache reports a miss.
type Config struct {
	Addr      string
	DB        int
	OpTimeout time.Duration
}

func clientOptions(cfg Config) *redis.Options {
	timeout := cfg.OpTimeout
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	return &redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		// A retried cache command only delays the fallback to storage.
		MaxRetries: -1,
	}
}

// Connect opens the cache client and pings it once so a wrong address fails
// at startup rather than as a stream of misses.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := clientOptions(cfg)
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout+opts.ReadTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Key format: cars:list for the inventory, cars:<id> for one car.
const (
	carListKey   = "cars:list"
	carKeyPrefix = "cars:"
)

// CarCache implements ports.CarCache on Redis. Entries are JSON encoded and
// expire after ttl. Cache failures are logged and treated as misses.
type CarCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCarCache creates a CarCache wrapping the given Redis client.
func NewCarCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *CarCache {
	if ttl <= 0 {
		ttl = defaultCarTTL
	}
	return &CarCache{client: client, ttl: ttl, log: log}
}

func (c *CarCache) GetCar(ctx context.Context, id string) (*domain.Car, bool) {
	var car domain.Car
	if !c.get(ctx, "car", carKeyPrefix+id, &car) {
		return nil, false
	}
	return &car, true
}

func (c *CarCache) SetCar(ctx context.Context, car *domain.Car) {
	c.set(ctx, carKeyPrefix+car.ID, car)
}

func (c *CarCache) GetList(ctx context.Context) ([]*domain.Car, bool) {
	var cars []*domain.Car
	if !c.get(ctx, "list", carListKey, &cars) {
		return nil, false
	}
	return cars, true
}

func (c *CarCache) SetList(ctx context.Context, cars []*domain.Car) {
	c.set(ctx, carListKey, cars)
}

// Invalidate drops the list entry and the given cars.
func (c *CarCache) Invalidate(ctx context.Context, ids ...string) {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, carListKey)
	for _, id := range ids {
		keys = append(keys, carKeyPrefix+id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Strs("keys", keys).Msg("car cache invalidation failed")
	}
}

// Ping reports Redis reachability for the readiness probe.
func (c *CarCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *CarCache) get(ctx context.Context, kind, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.CarCacheLookupsTotal.WithLabelValues(kind, "miss").Inc()
		return false
	case err != nil:
		metrics.CarCacheLookupsTotal.WithLabelValues(kind, "error").Inc()
		c.log.Warn().Err(err).Str("key", key).Msg("car cache read failed")
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		metrics.CarCacheLookupsTotal.WithLabelValues(kind, "error").Inc()
		c.log.Warn().Err(err).Str("key", key).Msg("car cache entry is corrupt")
		return false
	}
	metrics.CarCacheLookupsTotal.WithLabelValues(kind, "hit").Inc()
	return true
}

func (c *CarCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("car cache encode failed")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("car cache write failed")
	}
}
