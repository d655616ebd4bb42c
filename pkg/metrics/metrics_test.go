package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.ItemAttempted("succeeded")
	m.ItemAttempted("succeeded")
	m.ItemAttempted("failed")
	m.CheckoutFinished(time.Second, 2, 1)
	m.CheckoutFinished(time.Second, 1, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Items.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Items.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("full")))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)
	m.ItemAttempted("failed")

	path := filepath.Join(t.TempDir(), "checkout.prom")
	require.NoError(t, WriteTextfile(reg, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `marki_checkout_items_total{outcome="failed"} 1`))
}
