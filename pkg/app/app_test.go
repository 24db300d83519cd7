package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stebinsabu13/fastlane/pkg/catalog"
	"github.com/stebinsabu13/fastlane/pkg/config"
	"github.com/stebinsabu13/fastlane/pkg/models"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Storage:           "memory",
		CartKey:           "cart",
		CartWriteTimeout:  time.Second,
		NotificationDelay: time.Second,
		CatalogSource:     "http",
		CatalogBaseURL:    baseURL,
		CatalogPath:       catalog.DefaultPath,
		CatalogTimeout:    5 * time.Second,
	}
}

func TestBootstrap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":"ferrari","name":"Scuderia Ferrari","variant":"v","icon":"i","type":"team"}]`)
	}))
	defer srv.Close()

	a, err := Bootstrap(context.Background(), testConfig(srv.URL))
	require.NoError(t, err)
	defer a.Close()

	assert.Empty(t, a.Cart.Items())
	assert.Empty(t, a.Catalog.Err())
	assert.True(t, a.Catalog.CategoryExists("ferrari"))

	a.Cart.AddToCart(models.Product{ID: 1, Name: "RB19", Price: decimal.NewFromInt(100)})
	assert.Equal(t, 1, a.Cart.ItemCount())
	assert.True(t, a.Notifier.Current().Visible)
}

func TestBootstrapFallsBackWhenCatalogUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a, err := Bootstrap(context.Background(), testConfig(srv.URL))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, catalog.LoadFailedMessage, a.Catalog.Err())
	assert.False(t, a.Catalog.Loading())
	assert.Equal(t, catalog.DefaultFallback(), a.Catalog.Categories())
}

func TestNewCatalogLoaderWithFallbackCSV(t *testing.T) {
	file := filepath.Join(t.TempDir(), "fallback.csv")
	require.NoError(t, os.WriteFile(file, []byte(
		"id,name,description,variant,icon,type\nscale-1-18,1:18,,variant-soft-success,lucide:maximize,scale\n"), 0o600))

	cfg := testConfig("http://127.0.0.1:1")
	cfg.FallbackCSV = file
	loader, err := NewCatalogLoader(cfg)
	require.NoError(t, err)

	loader.Load(context.Background())
	require.Len(t, loader.Categories(), 1)
	assert.Equal(t, models.Scale, loader.Categories()[0].Type)
}

func TestNewCatalogLoaderMissingCSV(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.FallbackCSV = filepath.Join(t.TempDir(), "nope.csv")
	_, err := NewCatalogLoader(cfg)
	assert.Error(t, err)
}
