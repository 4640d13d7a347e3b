//go:build integration

package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/basket-service/internal/circuitbreaker"
	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/guttosm/basket-service/internal/i18n"
	"github.com/guttosm/basket-service/internal/repository"
	"github.com/guttosm/basket-service/internal/service"
	"github.com/guttosm/basket-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupIntegrationRouter wires the full stack against a fresh database.
func setupIntegrationRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := repository.NewMongoDB(testutil.GetSharedContainerURI(), testutil.SanitizeDBName(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Close(ctx)
	})

	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	products := repository.NewProductRepositoryWithCircuitBreaker(repository.NewProductRepository(db), cb)
	stores := repository.NewStoreRepositoryWithCircuitBreaker(repository.NewStoreRepository(db), cb)
	lists := repository.NewShoppingListRepositoryWithCircuitBreaker(repository.NewShoppingListRepository(db), cb)

	scorer := service.NewScorerService()
	optimizer := service.NewKnapsackOptimizerService()
	catalog := service.NewCatalogService(products, stores, lists, scorer, optimizer)

	handler := NewHandler(
		scorer,
		optimizer,
		service.NewSubstitutionEngineService(scorer),
		service.NewRouteOptimizerService(),
		service.NewImpactAnalyzerService(scorer, i18n.GetTranslator()),
		WithCatalog(catalog),
	)

	health := NewHealthHandler()
	health.RegisterChecker("database", db)
	health.RegisterCircuitBreaker("catalog", cb)

	cfg := DefaultRouterConfig()
	cfg.RateLimit = 0
	cfg.Catalog = NewCatalogHandler(catalog)
	return NewRouter(handler, health, cfg)
}

func TestCatalog_Integration(t *testing.T) {
	router := setupIntegrationRouter(t)

	for _, body := range []string{
		riceJSON,
		greensJSON,
		`{"id":"milk","name":"Milk","category":"milk","price":120,"net_quantity":1,"unit":"l","origin":"national"}`,
		`{"id":"beef","name":"Beef","category":"meat","price":4500,"net_quantity":0.5,"unit":"kg","origin":"overseas"}`,
	} {
		w := doRequest(router, http.MethodPost, "/api/products", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	t.Run("duplicate product", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/products", riceJSON)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("list by category", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/products?category=grains,vegetables", "")
		require.Equal(t, http.StatusOK, w.Code)
		var products []model.Product
		decodeData(t, w, &products)
		require.Len(t, products, 2)
		assert.Equal(t, "greens", products[0].ID, "cheapest first")
	})

	t.Run("averages", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/products/averages", "")
		require.Equal(t, http.StatusOK, w.Code)
		var avg map[model.Category]int64
		decodeData(t, w, &avg)
		assert.Equal(t, int64(1000), avg[model.CategoryGrains])
		assert.Equal(t, int64(120), avg[model.CategoryMilk])
	})

	t.Run("substitutes from the catalog pool", func(t *testing.T) {
		w := postJSON(router, "/api/substitutes", `{"product":`+riceJSON+`,"max_price_increase_pct":0.5}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var results []model.SubstitutionResult
		decodeData(t, w, &results)
		for _, r := range results {
			assert.NotEqual(t, "rice", r.Candidate.ID)
		}
	})

	t.Run("shopping list round trip", func(t *testing.T) {
		w := postJSON(router, "/api/shopping-lists",
			`{"name":"Weekly","budget":1500,"items":[{"product_id":"rice","quantity":1,"priority":5},{"product_id":"milk","quantity":2},{"product_id":"caviar","quantity":1}]}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var list model.ShoppingList
		decodeData(t, w, &list)
		require.NotEmpty(t, list.ID)

		w = doRequest(router, http.MethodPost, "/api/shopping-lists/"+list.ID+"/optimize", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result model.ShoppingListOptimization
		decodeData(t, w, &result)
		assert.Equal(t, []string{"caviar"}, result.Missing)
		require.NotNil(t, result.List.LastOptimization)
		assert.LessOrEqual(t, result.List.LastOptimization.Stats.TotalCost, int64(1500))
		assert.NotNil(t, result.List.OptimizedAt)

		w = doRequest(router, http.MethodGet, "/api/shopping-lists/"+list.ID, "")
		require.Equal(t, http.StatusOK, w.Code)
		var stored model.ShoppingList
		decodeData(t, w, &stored)
		require.NotNil(t, stored.LastOptimization)
		assert.Equal(t, result.List.LastOptimization.Quantities, stored.LastOptimization.Quantities)
	})

	t.Run("unknown list", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/shopping-lists/nope/optimize", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStores_Integration(t *testing.T) {
	router := setupIntegrationRouter(t)

	for _, body := range []string{
		`{"id":"sol","name":"Sol","location":{"latitude":40.4169,"longitude":-3.7035}}`,
		`{"id":"retiro","name":"Retiro","location":{"latitude":40.4153,"longitude":-3.6845}}`,
		`{"id":"toledo","name":"Toledo","location":{"latitude":39.8628,"longitude":-4.0273}}`,
	} {
		w := doRequest(router, http.MethodPost, "/api/stores", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	t.Run("nearby", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/stores/nearby?lat=40.4168&lon=-3.7038&radius_km=5", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var stores []model.Store
		decodeData(t, w, &stores)
		require.Len(t, stores, 2)
		assert.Equal(t, "sol", stores[0].ID)
	})

	t.Run("route by store ids", func(t *testing.T) {
		w := postJSON(router, "/api/route", `{"start":{"latitude":40.4168,"longitude":-3.7038},"store_ids":["retiro","sol"]}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var route model.Route
		decodeData(t, w, &route)
		assert.Len(t, route.Order, 2)
	})

	t.Run("readiness", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/readyz", "")
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}
