package redis

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/binarcar/car-rental/internal/core/domain"
)

// unreachableClient points at a closed port so every command fails fast.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(clientOptions(Config{Addr: "127.0.0.1:1", OpTimeout: 50 * time.Millisecond}))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCarCache_UnreachableRedisDegradesToMiss(t *testing.T) {
	cache := NewCarCache(unreachableClient(t), time.Minute, zerolog.New(io.Discard))
	ctx := context.Background()

	cache.SetCar(ctx, &domain.Car{ID: "car-1", Name: "Avanza"})
	cache.SetList(ctx, []*domain.Car{{ID: "car-1"}})
	cache.Invalidate(ctx, "car-1")

	if car, ok := cache.GetCar(ctx, "car-1"); ok || car != nil {
		t.Fatalf("expected a miss, got %+v", car)
	}
	if cars, ok := cache.GetList(ctx); ok || cars != nil {
		t.Fatalf("expected a miss, got %+v", cars)
	}
	if err := cache.Ping(ctx); err == nil {
		t.Fatalf("expected ping to fail")
	}
}

func TestNewCarCache_DefaultTTL(t *testing.T) {
	cache := NewCarCache(unreachableClient(t), 0, zerolog.New(io.Discard))

	if cache.ttl != defaultCarTTL {
		t.Fatalf("expected default ttl %s, got %s", defaultCarTTL, cache.ttl)
	}
}

func TestClientOptions_BoundsEveryOperation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want time.Duration
	}{
		{name: "default", cfg: Config{Addr: "cache:6379"}, want: defaultOpTimeout},
		{name: "configured", cfg: Config{Addr: "cache:6379", DB: 2, OpTimeout: 2 * time.Second}, want: 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := clientOptions(tt.cfg)

			if opts.Addr != tt.cfg.Addr || opts.DB != tt.cfg.DB {
				t.Fatalf("unexpected target %s/%d", opts.Addr, opts.DB)
			}
			if opts.DialTimeout != tt.want || opts.ReadTimeout != tt.want || opts.WriteTimeout != tt.want {
				t.Fatalf("expected every timeout to be %s, got dial=%s read=%s write=%s",
					tt.want, opts.DialTimeout, opts.ReadTimeout, opts.WriteTimeout)
			}
			if opts.MaxRetries != -1 {
				t.Fatalf("expected retries disabled, got %d", opts.MaxRetries)
			}
		})
	}
}

func TestConnect_UnreachableFailsWithinTimeout(t *testing.T) {
	start := time.Now()
	client, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", OpTimeout: 50 * time.Millisecond})
	if err == nil {
		_ = client.Close()
		t.Fatalf("expected connect to fail")
	}
	if !strings.Contains(err.Error(), "redis ping 127.0.0.1:1") {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("connect took %s, expected the op timeout to bound it", elapsed)
	}
}
