package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MARKI_CONFIG", "")
	t.Setenv("CART_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Cart.Backend)
	assert.Equal(t, "marki.cart.v1", cfg.Cart.Key)
	assert.Equal(t, 5, cfg.API.ReportLimit)
	assert.Equal(t, 8*time.Second, cfg.API.PurchaseTimeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marki.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
api:
  base_url: http://api.example
  user: file@example.com
  purchase_timeout: 3s
cart:
  backend: memory
  key: custom.cart
gateway:
  admin_emails: [root@example.com]
`), 0o600))

	t.Setenv("MARKI_CONFIG", path)
	t.Setenv("MARKI_USER", "env@example.com")
	t.Setenv("ADMIN_EMAILS", " A@example.com , b@example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://api.example", cfg.API.BaseURL)
	assert.Equal(t, "env@example.com", cfg.API.User, "env overrides file")
	assert.Equal(t, 3*time.Second, cfg.API.PurchaseTimeout)
	assert.Equal(t, BackendMemory, cfg.Cart.Backend)
	assert.Equal(t, "custom.cart", cfg.Cart.Key)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Gateway.AdminEmails)
}

func TestLoadRejectsBadBackend(t *testing.T) {
	t.Setenv("MARKI_CONFIG", "")

	t.Run("unknown backend -> error", func(t *testing.T) {
		t.Setenv("CART_BACKEND", "floppy")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("sql backend without dsn -> error", func(t *testing.T) {
		t.Setenv("CART_BACKEND", "sqlite")
		t.Setenv("DATABASE_DSN", "")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("MARKI_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestLoadGatewayOverrides(t *testing.T) {
	t.Setenv("MARKI_CONFIG", "")
	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.example")
	t.Setenv("PUBLIC_BASE_URL", "https://marki.example")
	t.Setenv("GATEWAY_DATABASE_DSN", "postgres://localhost/marki")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.Gateway.CORSOrigins)
	assert.Equal(t, "https://marki.example", cfg.Gateway.PublicBaseURL)
	assert.Equal(t, "postgres://localhost/marki", cfg.Gateway.DatabaseDSN)
}
