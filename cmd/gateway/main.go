package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/dwikikusuma/marki-secure/internal/product/app"
	"github.com/dwikikusuma/marki-secure/internal/product/httpapi"
	"github.com/dwikikusuma/marki-secure/internal/product/infra/gormrepo"
	"github.com/dwikikusuma/marki-secure/internal/product/infra/memory"
	"github.com/dwikikusuma/marki-secure/internal/product/infra/seed"
	"github.com/dwikikusuma/marki-secure/pkg/config"
	"github.com/dwikikusuma/marki-secure/pkg/database"
	"github.com/dwikikusuma/marki-secure/pkg/logger"
	"github.com/dwikikusuma/marki-secure/pkg/metrics"
	"github.com/dwikikusuma/marki-secure/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Service:   "gateway",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root, log)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("gateway stopped", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	svc := app.NewService(st.products, st.brands, cfg.Gateway.AdminEmails, cfg.Gateway.PublicBaseURL)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Handler:     httpapi.NewHandler(svc),
		Log:         log.With("component", "http"),
		Metrics:     metrics.NewServerMetrics(reg, "gateway"),
		Gatherer:    reg,
		CORSOrigins: cfg.Gateway.CORSOrigins,
		Ready:       st.ready,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

type stores struct {
	products app.ProductRepo
	brands   app.ManufacturerRepo
	ready    func() error
	close    func()
}

// openStores picks the gorm stores when a DSN is configured, otherwise
// in-memory ones. The seed file, if any, is loaded into either.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, error) {
	st := stores{close: func() {}}

	if dsn := cfg.Gateway.DatabaseDSN; dsn != "" {
		dialect := database.DialectFor(dsn)
		db, err := database.Open(dialect, dsn)
		if err != nil {
			return stores{}, err
		}
		products, err := gormrepo.NewProductRepo(db)
		if err != nil {
			_ = database.Close(db)
			return stores{}, fmt.Errorf("migrate products: %w", err)
		}
		brands, err := gormrepo.NewManufacturerRepo(db)
		if err != nil {
			_ = database.Close(db)
			return stores{}, fmt.Errorf("migrate manufacturers: %w", err)
		}
		st.products, st.brands = products, brands
		st.ready = pinger(db)
		st.close = func() { _ = database.Close(db) }
		log.Info("product store", slog.String("kind", dialect))
	} else {
		st.products, st.brands = memory.NewProductRepo(), memory.NewManufacturerRepo()
		log.Info("product store", slog.String("kind", "memory"))
	}

	if path := cfg.Gateway.ProductsSeed; path != "" {
		n, err := seed.Load(ctx, st.products, st.brands, path)
		if err != nil {
			st.close()
			return stores{}, err
		}
		log.Info("products seeded", slog.Int("count", n), slog.String("path", path))
	}
	return st, nil
}

func pinger(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return sqlDB.PingContext(ctx)
	}
}
