package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dwikikusuma/marki-secure/internal/cart/app"
)

type Options struct {
	Addr   string
	Prefix string
	// TTL of zero keeps values until they are overwritten.
	TTL time.Duration
}

type Backend struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Dial connects to Redis and pings it before returning.
func Dial(ctx context.Context, opts Options) (*Backend, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewBackend(rdb, opts.Prefix, opts.TTL), nil
}

func NewBackend(rdb goredis.UniversalClient, prefix string, ttl time.Duration) *Backend {
	return &Backend{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (b *Backend) Load(ctx context.Context, key string) ([]byte, error) {
	raw, err := b.rdb.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, app.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return raw, nil
}

func (b *Backend) Save(ctx context.Context, key string, data []byte) error {
	if err := b.rdb.Set(ctx, b.prefix+key, data, b.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (b *Backend) Close() error {
	return b.rdb.Close()
}
