package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dwikikusuma/marki-secure/pkg/metrics"
)

type RouterConfig struct {
	Handler     *Handler
	Log         *slog.Logger
	Metrics     *metrics.ServerMetrics
	Gatherer    prometheus.Gatherer // nil serves the default registry
	CORSOrigins []string
	// Ready reports whether dependencies are reachable; nil means always ready.
	Ready func() error
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(CORS(cfg.CORSOrigins))
	if cfg.Log != nil {
		router.Use(RequestLogger(cfg.Log))
	}
	router.Use(Metrics(cfg.Metrics))

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/readyz", func(c *gin.Context) {
		if cfg.Ready != nil {
			if err := cfg.Ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
		}
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler(cfg.Gatherer)))

	api := router.Group("/api")
	{
		api.GET("/products", cfg.Handler.ListMine)
		api.POST("/products/:id/purchase", cfg.Handler.Purchase)
		api.GET("/verify/:id", cfg.Handler.Verify)
		api.POST("/user/products", cfg.Handler.Register)
		api.GET("/me", cfg.Handler.Me)

		api.POST("/manufacturers", cfg.Handler.CreateManufacturer)
		api.GET("/manufacturers", cfg.Handler.ListManufacturers)
		api.GET("/manufacturers/:slug", cfg.Handler.GetManufacturer)
		api.POST("/manufacturers/:slug/verify", cfg.Handler.VerifyManufacturer)
		api.POST("/manufacturer/products", cfg.Handler.CreateCompanyProduct)
	}

	return router
}
