package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	HTTPPort int `yaml:"http_port"`

	API     APIConfig     `yaml:"api"`
	Cart    CartConfig    `yaml:"cart"`
	Gateway GatewayConfig `yaml:"gateway"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`

	// User is the identity reference sent as X-User. Overrides the signed-in session.
	User  string `yaml:"user"`
	Token string `yaml:"token"`

	PurchaseTimeout time.Duration `yaml:"purchase_timeout"`
	ReportLimit     int           `yaml:"report_limit"`
}

type CartConfig struct {
	Backend  string `yaml:"backend"` // file | memory | redis | postgres | sqlite
	Key      string `yaml:"key"`
	StateDir string `yaml:"state_dir"`

	RedisAddr   string        `yaml:"redis_addr"`
	RedisPrefix string        `yaml:"redis_prefix"`
	RedisTTL    time.Duration `yaml:"redis_ttl"`

	DatabaseDSN string `yaml:"database_dsn"`
}

type GatewayConfig struct {
	ProductsSeed string   `yaml:"products_seed"`
	AdminEmails  []string `yaml:"admin_emails"`
	CORSOrigins  []string `yaml:"cors_origins"`

	// PublicBaseURL prefixes the details link stored on registered products.
	PublicBaseURL string `yaml:"public_base_url"`
	// DatabaseDSN selects the gorm product store; empty keeps products in memory.
	DatabaseDSN string `yaml:"database_dsn"`
}

const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

func Default() Config {
	return Config{
		AppEnv:   "dev",
		LogLevel: "info",
		HTTPPort: 8080,
		API: APIConfig{
			BaseURL:         "http://localhost:8080",
			PurchaseTimeout: 8 * time.Second,
			ReportLimit:     5,
		},
		Cart: CartConfig{
			Backend:     BackendFile,
			Key:         "marki.cart.v1",
			StateDir:    defaultStateDir(),
			RedisAddr:   "localhost:6379",
			RedisPrefix: "marki:",
		},
		Gateway: GatewayConfig{
			CORSOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:5173"},
			PublicBaseURL: "http://localhost:8080",
		},
	}
}

// Load builds the config from defaults, the YAML file named by MARKI_CONFIG
// (if any), then environment overrides.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("MARKI_CONFIG")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.HTTPPort = getEnvInt("HTTP_PORT", c.HTTPPort)

	c.API.BaseURL = getEnv("MARKI_API_URL", c.API.BaseURL)
	c.API.User = getEnv("MARKI_USER", c.API.User)
	c.API.Token = getEnv("MARKI_TOKEN", c.API.Token)
	if ms := getEnvInt("PURCHASE_TIMEOUT_MS", 0); ms > 0 {
		c.API.PurchaseTimeout = time.Duration(ms) * time.Millisecond
	}
	c.API.ReportLimit = getEnvInt("REPORT_LIMIT", c.API.ReportLimit)

	c.Cart.Backend = strings.ToLower(getEnv("CART_BACKEND", c.Cart.Backend))
	c.Cart.Key = getEnv("CART_KEY", c.Cart.Key)
	c.Cart.StateDir = getEnv("MARKI_STATE_DIR", c.Cart.StateDir)
	c.Cart.RedisAddr = getEnv("REDIS_ADDR", c.Cart.RedisAddr)
	c.Cart.RedisPrefix = getEnv("REDIS_PREFIX", c.Cart.RedisPrefix)
	c.Cart.DatabaseDSN = getEnv("DATABASE_DSN", c.Cart.DatabaseDSN)

	c.Gateway.ProductsSeed = getEnv("PRODUCTS_SEED", c.Gateway.ProductsSeed)
	if v := os.Getenv("ADMIN_EMAILS"); v != "" {
		c.Gateway.AdminEmails = splitList(v)
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Gateway.CORSOrigins = splitList(v)
	}
	c.Gateway.PublicBaseURL = getEnv("PUBLIC_BASE_URL", c.Gateway.PublicBaseURL)
	c.Gateway.DatabaseDSN = getEnv("GATEWAY_DATABASE_DSN", c.Gateway.DatabaseDSN)
}

func (c Config) Validate() error {
	switch c.Cart.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("unknown cart backend %q", c.Cart.Backend)
	}
	if strings.TrimSpace(c.Cart.Key) == "" {
		return fmt.Errorf("cart key must not be empty")
	}
	if (c.Cart.Backend == BackendPostgres || c.Cart.Backend == BackendSQLite) && c.Cart.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required for the %s backend", c.Cart.Backend)
	}
	return nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "marki")
	}
	return ".marki"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
