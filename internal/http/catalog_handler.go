package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/basket-service/internal/domain/dto"
	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/guttosm/basket-service/internal/metrics"
	"github.com/guttosm/basket-service/internal/repository"
	"github.com/guttosm/basket-service/internal/service"
)

// CatalogHandler serves the persisted products, stores and shopping lists.
type CatalogHandler struct {
	catalog service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler instance.
func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateProduct handles POST /api/products requests.
//
// @Summary      Create a product
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        request body model.Product true "Product"
// @Success      201 {object} dto.SuccessResponse "Created product"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Failure      409 {object} dto.ErrorResponse "Duplicate id"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	builder := NewResponseBuilder(c)

	p, err := BindAndValidate[model.Product](c)
	if err != nil {
		builder.FromError(err)
		return
	}
	if err := h.catalog.CreateProduct(c.Request.Context(), p); err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessCreated(p)
}

// GetProduct handles GET /api/products/:id requests.
//
// @Summary      Get a product
// @Tags         Catalog
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.SuccessResponse "Product"
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	builder := NewResponseBuilder(c)

	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(p)
}

// ListProducts handles GET /api/products requests.
//
// @Summary      List products
// @Description  Lists products cheapest first, optionally filtered.
// @Tags         Catalog
// @Produce      json
// @Param        category  query string false "Comma separated categories"
// @Param        label     query string false "Required label"
// @Param        max_price query int    false "Maximum price in minor units"
// @Param        limit     query int    false "Page size"
// @Param        skip      query int    false "Offset"
// @Success      200 {object} dto.SuccessResponse "Products"
// @Failure      400 {object} dto.ErrorResponse "Invalid query"
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	builder := NewResponseBuilder(c)

	filter := repository.ProductFilter{Label: c.Query("label")}
	for _, cat := range strings.Split(c.Query("category"), ",") {
		if cat = strings.TrimSpace(cat); cat != "" {
			filter.Categories = append(filter.Categories, model.Category(strings.ToLower(cat)))
		}
	}

	var err error
	if filter.MaxPrice, err = queryInt64(c, "max_price", 0); err != nil {
		builder.FromError(err)
		return
	}
	if filter.Limit, err = queryInt64(c, "limit", dto.DefaultListLimit); err != nil {
		builder.FromError(err)
		return
	}
	if filter.Skip, err = queryInt64(c, "skip", 0); err != nil {
		builder.FromError(err)
		return
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(products)
}

// CategoryAverages handles GET /api/products/averages requests.
//
// @Summary      Category average prices
// @Tags         Catalog
// @Produce      json
// @Success      200 {object} dto.SuccessResponse "Average price per category in minor units"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Router       /api/products/averages [get]
func (h *CatalogHandler) CategoryAverages(c *gin.Context) {
	builder := NewResponseBuilder(c)

	avg, err := h.catalog.CategoryAverages(c.Request.Context())
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(avg)
}

// CreateStore handles POST /api/stores requests.
//
// @Summary      Create a store
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        request body model.Store true "Store"
// @Success      201 {object} dto.SuccessResponse "Created store"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Router       /api/stores [post]
func (h *CatalogHandler) CreateStore(c *gin.Context) {
	builder := NewResponseBuilder(c)

	s, err := BindAndValidate[model.Store](c)
	if err != nil {
		builder.FromError(err)
		return
	}
	if err := h.catalog.CreateStore(c.Request.Context(), s); err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessCreated(s)
}

// ListStores handles GET /api/stores requests.
//
// @Summary      List stores
// @Tags         Catalog
// @Produce      json
// @Param        limit query int false "Page size"
// @Success      200 {object} dto.SuccessResponse "Stores"
// @Router       /api/stores [get]
func (h *CatalogHandler) ListStores(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit, err := queryInt64(c, "limit", dto.DefaultListLimit)
	if err != nil {
		builder.FromError(err)
		return
	}
	stores, err := h.catalog.ListStores(c.Request.Context(), limit)
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(stores)
}

// NearbyStores handles GET /api/stores/nearby requests.
//
// @Summary      Stores near a point
// @Description  Uses the geospatial index to find catalog stores within the radius, nearest first.
// @Tags         Catalog
// @Produce      json
// @Param        lat       query number true  "Latitude"
// @Param        lon       query number true  "Longitude"
// @Param        radius_km query number false "Radius in km (default 10)"
// @Param        limit     query int    false "Page size"
// @Success      200 {object} dto.SuccessResponse "Stores"
// @Failure      400 {object} dto.ErrorResponse "Invalid query"
// @Router       /api/stores/nearby [get]
func (h *CatalogHandler) NearbyStores(c *gin.Context) {
	builder := NewResponseBuilder(c)

	lat, err := queryFloat(c, "lat", nil)
	if err != nil {
		builder.FromError(err)
		return
	}
	lon, err := queryFloat(c, "lon", nil)
	if err != nil {
		builder.FromError(err)
		return
	}
	radiusDefault := dto.DefaultNearbyRadiusKm
	radius, err := queryFloat(c, "radius_km", &radiusDefault)
	if err != nil {
		builder.FromError(err)
		return
	}
	limit, err := queryInt64(c, "limit", dto.DefaultListLimit)
	if err != nil {
		builder.FromError(err)
		return
	}

	stores, err := h.catalog.NearbyStores(c.Request.Context(), model.Location{Latitude: lat, Longitude: lon}, radius, limit)
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(stores)
}

// CreateShoppingList handles POST /api/shopping-lists requests.
//
// @Summary      Create a shopping list
// @Tags         Shopping Lists
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateShoppingListRequest true "Shopping list"
// @Success      201 {object} dto.SuccessResponse "Created list"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Router       /api/shopping-lists [post]
func (h *CatalogHandler) CreateShoppingList(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BindAndValidate[dto.CreateShoppingListRequest](c)
	if err != nil {
		builder.FromError(err)
		return
	}
	list := req.ToModel()
	if err := h.catalog.CreateShoppingList(c.Request.Context(), list); err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessCreated(list)
}

// GetShoppingList handles GET /api/shopping-lists/:id requests.
//
// @Summary      Get a shopping list
// @Tags         Shopping Lists
// @Produce      json
// @Param        id path string true "List ID"
// @Success      200 {object} dto.SuccessResponse "Shopping list"
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Router       /api/shopping-lists/{id} [get]
func (h *CatalogHandler) GetShoppingList(c *gin.Context) {
	builder := NewResponseBuilder(c)

	list, err := h.catalog.GetShoppingList(c.Request.Context(), c.Param("id"))
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(list)
}

// ListShoppingLists handles GET /api/shopping-lists requests.
//
// @Summary      List shopping lists
// @Tags         Shopping Lists
// @Produce      json
// @Param        limit query int false "Page size"
// @Success      200 {object} dto.SuccessResponse "Shopping lists, most recently updated first"
// @Router       /api/shopping-lists [get]
func (h *CatalogHandler) ListShoppingLists(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit, err := queryInt64(c, "limit", dto.DefaultListLimit)
	if err != nil {
		builder.FromError(err)
		return
	}
	lists, err := h.catalog.ListShoppingLists(c.Request.Context(), limit)
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(lists)
}

// OptimizeShoppingList handles POST /api/shopping-lists/:id/optimize requests.
//
// @Summary      Optimize a stored shopping list
// @Description  Scores the list products, runs the knapsack over the list budget and stores the selection on the list.
// @Tags         Shopping Lists
// @Accept       json
// @Produce      json
// @Param        id      path string                          true  "List ID"
// @Param        request body dto.OptimizeShoppingListRequest false "Weights and mode"
// @Success      200 {object} dto.SuccessResponse "Optimized list"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Router       /api/shopping-lists/{id}/optimize [post]
func (h *CatalogHandler) OptimizeShoppingList(c *gin.Context) {
	builder := NewResponseBuilder(c)
	start := time.Now()

	var req dto.OptimizeShoppingListRequest
	if c.Request.ContentLength != 0 {
		r, err := BindAndValidate[dto.OptimizeShoppingListRequest](c)
		if err != nil {
			builder.FromError(err)
			return
		}
		req = *r
	}

	opts := service.ShoppingListOptions{
		Weights:    service.WeightsFor(req.PrioritizeSustainability, req.PrioritizeSavings),
		Essentials: req.EssentialsMode,
	}
	if req.Weights != nil {
		opts.Weights = *req.Weights
	}

	result, err := h.catalog.OptimizeShoppingList(c.Request.Context(), c.Param("id"), opts)
	metrics.RecordOptimization(metrics.KindKnapsack, time.Since(start), err)
	if err != nil {
		builder.FromError(err)
		return
	}
	if sel := result.List.LastOptimization; sel != nil {
		metrics.RecordBudgetUtilization(sel.Stats.BudgetUsedPercent)
	}
	builder.SuccessOK(result)
}

func queryInt64(c *gin.Context, key string, def int64) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, model.NewValidationError(key, "must be a non-negative integer")
	}
	return v, nil
}

// queryFloat parses a float query parameter. A nil default makes it required.
func queryFloat(c *gin.Context, key string, def *float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		if def == nil {
			return 0, model.NewValidationError(key, "is required")
		}
		return *def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, model.NewValidationError(key, "must be a number")
	}
	return v, nil
}
