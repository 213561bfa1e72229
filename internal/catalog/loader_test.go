package catalog_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/linemk/wegx-store/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `{
  "categories": [
    {"id": "motores", "name": "Motores", "order": 2},
    {"id": "drives", "name": "Drives", "order": 1}
  ],
  "products": [
    {"id": "p1", "sku": "W22-1", "name": "Motor W22", "price": 1299.90, "original_price": 1499.90,
     "stock": 3, "category_id": "motores", "express_delivery": true,
     "images": ["https://cdn/p1.jpg"], "specs": [{"label": "Potência", "value": "1 cv"}]},
    {"id": "p2", "sku": "CFW-500", "name": "Inversor CFW500", "price": 899, "stock": 0,
     "category_id": "drives", "express_delivery": false}
  ]
}`

func writeCatalog(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestLoader_FromFile(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	loader := catalog.NewLoader(logger(), path, nil)

	doc, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Categories, 2)
	require.Len(t, doc.Products, 2)

	p1 := doc.Products[0]
	assert.Equal(t, "1299.9", p1.Price.String())
	assert.True(t, p1.HasDiscount())
	assert.True(t, p1.ExpressEligible())
	assert.Equal(t, "https://cdn/p1.jpg", p1.MainImage())
	assert.False(t, doc.Products[1].Available())
}

func TestLoader_CachesSuccessfulLoad(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	loader := catalog.NewLoader(logger(), path, nil)

	first, err := loader.Load(context.Background())
	require.NoError(t, err)

	// изменения файла после загрузки не видны в рамках процесса
	require.NoError(t, os.WriteFile(path, []byte(`{"categories":[],"products":[]}`), 0o644))
	second, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoader_FailureIsNotCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	loader := catalog.NewLoader(logger(), path, nil)

	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, catalog.ErrUnavailable)

	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))
	doc, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Products, 2)
}

func TestLoader_ParseError(t *testing.T) {
	loader := catalog.NewLoader(logger(), writeCatalog(t, "{broken"), nil)
	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestLoader_ValidationError(t *testing.T) {
	content := `{"categories":[],"products":[{"id":"p1","name":"Motor","price":10,"stock":-1}]}`
	loader := catalog.NewLoader(logger(), writeCatalog(t, content), nil)
	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestLoader_FromHTTP(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleCatalog))
	}))
	defer srv.Close()

	loader := catalog.NewLoader(logger(), srv.URL+"/data/products.json", srv.Client())
	_, err := loader.Load(context.Background())
	require.NoError(t, err)
	_, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "catalog must be fetched once")
}

func TestLoader_HTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	loader := catalog.NewLoader(logger(), srv.URL, srv.Client())
	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
}
