package main

import (
	"context"
	"fmt"

	cartapp "github.com/dwikikusuma/marki-secure/internal/cart/app"
	"github.com/dwikikusuma/marki-secure/internal/cart/infra/file"
	"github.com/dwikikusuma/marki-secure/internal/cart/infra/memory"
	"github.com/dwikikusuma/marki-secure/internal/cart/infra/redis"
	"github.com/dwikikusuma/marki-secure/internal/cart/infra/sqlkv"
	"github.com/dwikikusuma/marki-secure/pkg/config"
)

func openBackend(ctx context.Context, cfg config.CartConfig) (cartapp.Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewBackend(), noop, nil

	case config.BackendFile:
		b, err := file.NewBackend(cfg.StateDir)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil

	case config.BackendRedis:
		b, err := redis.Dial(ctx, redis.Options{
			Addr:   cfg.RedisAddr,
			Prefix: cfg.RedisPrefix,
			TTL:    cfg.RedisTTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil

	case config.BackendPostgres, config.BackendSQLite:
		b, err := sqlkv.Open(cfg.Backend, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown cart backend %q", cfg.Backend)
	}
}
