package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/basket-service/internal/domain/dto"
	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/guttosm/basket-service/internal/i18n"
	"github.com/guttosm/basket-service/internal/metrics"
	"github.com/guttosm/basket-service/internal/service"
	"github.com/rs/zerolog/log"
)

// Handler serves the optimization endpoints. The catalog is optional; without
// it requests must carry their own category averages, pools and stores.
type Handler struct {
	scorer      service.Scorer
	optimizer   service.BasketOptimizer
	substitutes service.SubstituteFinder
	routes      service.RoutePlanner
	analyzer    service.ImpactAnalyzer
	catalog     service.CatalogService
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithCatalog lets handlers fall back to catalog averages, pools and stores.
func WithCatalog(catalog service.CatalogService) HandlerOption {
	return func(h *Handler) {
		h.catalog = catalog
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(
	scorer service.Scorer,
	optimizer service.BasketOptimizer,
	substitutes service.SubstituteFinder,
	routes service.RoutePlanner,
	analyzer service.ImpactAnalyzer,
	opts ...HandlerOption,
) *Handler {
	h := &Handler{
		scorer:      scorer,
		optimizer:   optimizer,
		substitutes: substitutes,
		routes:      routes,
		analyzer:    analyzer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// catalogAverages returns catalog category averages, or an empty map when
// the catalog is disabled or failing. Scoring still works without them.
func (h *Handler) catalogAverages(ctx context.Context) map[model.Category]int64 {
	if h.catalog == nil {
		return map[model.Category]int64{}
	}
	avg, err := h.catalog.CategoryAverages(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Category averages unavailable")
		return map[model.Category]int64{}
	}
	return avg
}

func (h *Handler) averageFor(ctx context.Context, explicit *int64, category model.Category, cached *map[model.Category]int64) int64 {
	if explicit != nil {
		return *explicit
	}
	if *cached == nil {
		*cached = h.catalogAverages(ctx)
	}
	return (*cached)[category]
}

// Score handles POST /api/score requests.
//
// @Summary      Score a product
// @Description  Computes the economic, environmental and social scores of a product and the weighted overall score.
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Param        request body dto.ScoreRequest true "Product to score"
// @Success      200 {object} dto.SuccessResponse "Sustainability score"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Failure      429 {object} dto.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/score [post]
func (h *Handler) Score(c *gin.Context) {
	builder := NewResponseBuilder(c)
	start := time.Now()

	req, err := BindAndValidate[dto.ScoreRequest](c)
	if err != nil {
		builder.FromError(err)
		return
	}

	var cached map[model.Category]int64
	avg := h.averageFor(c.Request.Context(), req.CategoryAverage, req.Product.Category, &cached)

	var opts []service.ScoreOption
	if req.Quantity > 0 {
		opts = append(opts, service.WithPurchasedQuantity(req.Quantity))
	}
	score, err := h.scorer.Score(req.Product, avg, opts...)
	metrics.RecordOptimization(metrics.KindScore, time.Since(start), err)
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(score)
}

// Compare handles POST /api/score/compare requests.
//
// @Summary      Compare two products
// @Description  Scores both products and recommends the more sustainable one.
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Param        Accept-Language header string false "Locale of the recommendation (en, es, pt)"
// @Param        request body dto.CompareRequest true "Products to compare"
// @Success      200 {object} dto.SuccessResponse "Comparison"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/score/compare [post]
func (h *Handler) Compare(c *gin.Context) {
	builder := NewResponseBuilder(c)
	start := time.Now()

	req, err := BindAndValidate[dto.CompareRequest](c)
	if err != nil {
		builder.FromError(err)
		return
	}

	ctx := c.Request.Context()
	var cached map[model.Category]int64
	avgA := h.averageFor(ctx, req.FirstAverage, req.First.Category, &cached)
	avgB := h.averageFor(ctx, req.SecondAverage, req.Second.Category, &cached)

	cmp, err := h.scorer.Compare(req.First, avgA, req.Second, avgB)
	metrics.RecordOptimization(metrics.KindCompare, time.Since(start), err)
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(cmp)
}

// Optimize handles POST /api/optimize requests.
//
// @Summary      Optimize a basket
// @Description  Chooses item quantities that maximise sustainability, savings and priority within the budget. Money is in minor currency units.
// @Tags         Optimization
// @Accept       json
// @Produce      json
// @Param        request body dto.OptimizeRequest true "Basket and budget"
// @Success      200 {object} dto.SuccessResponse "Selection"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/optimize [post]
func (h *Handler) Optimize(c *gin.Context) {
	builder := NewResponseBuilder(c)
	start := time.Now()

	req, err := BindAndValidate[dto.OptimizeRequest](c)
	if err != nil {
		builder.FromError(err)
		return
	}

	weights := service.WeightsFor(req.PrioritizeSustainability, req.PrioritizeSavings)
	if req.Weights != nil {
		weights = *req.Weights
	}

	result, err := h.optimize(c.Request.Context(), req.Items, req.Budget, weights, req.EssentialsMode, 0)
	metrics.RecordOptimization(metrics.KindKnapsack, time.Since(start), err)
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(result)
}

// QuickOptimize handles POST /api/optimize/quick requests.
//
// @Summary      Quick basket optimization
// @Description  Runs the knapsack with fixed weights and the same priority for every item.
// @Tags         Optimization
// @Accept       json
// @Produce      json
// @Param        request body dto.QuickOptimizeRequest true "Basket and budget"
// @Success      200 {object} dto.SuccessResponse "Selection"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/optimize/quick [post]
func (h *Handler) QuickOptimize(c *gin.Context) {
	builder := NewResponseBuilder(c)
	start := time.Now()

	req, err := BindAndValidate[dto.QuickOptimizeRequest](c)
	if err != nil {
		builder.FromError(err)
		return
	}

	result, err := h.optimize(c.Request.Context(), req.Items, req.Budget, service.QuickWeights, false, service.QuickPriority)
	metrics.RecordOptimization(metrics.KindKnapsack, time.Since(start), err)
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(result)
}

// optimize scores the items that lack a score and runs the knapsack.
// A non-zero priority overrides every item priority.
func (h *Handler) optimize(ctx context.Context, in []dto.OptimizeItem, budget int64, weights model.OptimizationWeights, essentials bool, priority int) (dto.OptimizeResponse, error) {
	var cached map[model.Category]int64
	items := make([]model.BasketItem, len(in))
	for i, it := range in {
		avg := h.averageFor(ctx, it.CategoryAverage, it.Product.Category, &cached)
		item := model.BasketItem{
			Product:         it.Product,
			DesiredQuantity: it.Quantity,
			Priority:        it.Priority,
			Essential:       it.Essential,
			CategoryAverage: avg,
		}
		if priority > 0 {
			item.Priority = priority
		}
		if it.SustainabilityScore != nil {
			item.SustainabilityScore = *it.SustainabilityScore
		} else {
			score, err := h.scorer.Score(it.Product, avg)
			if err != nil {
				return dto.OptimizeResponse{}, err
			}
			item.SustainabilityScore = score.Overall
		}
		items[i] = item
	}

	var (
		sel model.Selection
		err error
	)
	if essentials {
		sel, err = h.optimizer.OptimizeWithEssentials(items, budget, weights)
	} else {
		sel, err = h.optimizer.Optimize(items, budget, weights)
	}
	if err != nil {
		return dto.OptimizeResponse{}, err
	}

	metrics.RecordBudgetUtilization(sel.Stats.BudgetUsedPercent)
	return dto.OptimizeResponse{Selection: sel, Lines: sel.Lines(items), Weights: weights}, nil
}

// Substitutes handles POST /api/substitutes requests.
//
// @Summary      Find substitutes
// @Description  Ranks cheaper or more sustainable alternatives to a product. Without a pool the catalog is searched.
// @Tags         Substitution
// @Accept       json
// @Produce      json
// @Param        Accept-Language header string false "Locale of the reasons (en, es, pt)"
// @Param        request body dto.SubstitutesRequest true "Product and candidate pool"
// @Success      200 {object} dto.SuccessResponse "Ranked substitutes"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Router       /api/substitutes [post]
func (h *Handler) Substitutes(c *gin.Context) {
	builder := NewResponseBuilder(c)
	start := time.Now()

	req, err := BindAndValidate[dto.SubstitutesRequest](c)
	if err != nil {
		builder.FromError(err)
		return
	}

	ctx := c.Request.Context()
	pool := req.Pool
	if len(pool) == 0 {
		if pool, err = h.catalogPool(ctx, []model.Product{req.Product}); err != nil {
			builder.FromError(err)
			return
		}
	}

	criteria := req.Criteria(i18n.GetLocale(c))
	if criteria.CategoryAverages == nil {
		criteria.CategoryAverages = h.catalogAverages(ctx)
	}

	results, err := h.substitutes.FindSubstitutes(req.Product, pool, criteria)
	metrics.RecordOptimization(metrics.KindSubstitution, time.Since(start), err)
	if err != nil {
		builder.FromError(err)
		return
	}
	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}
	metrics.RecordSubstitutesFound(len(results))
	builder.SuccessOK(results)
}

// BatchSubstitutes handles POST /api/substitutes/batch requests.
//
// @Summary      Batch substitution
// @Description  Finds the best substitute for each product over a shared pool and summarises the savings.
// @Tags         Substitution
// @Accept       json
// @Produce      json
// @Param        request body dto.BatchSubstitutesRequest true "Products and candidate pool"
// @Success      200 {object} dto.SuccessResponse "Batch result and savings report"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Router       /api/substitutes/batch [post]
func (h *Handler) BatchSubstitutes(c *gin.Context) {
	builder := NewResponseBuilder(c)
	start := time.Now()

	req, err := BindAndValidate[dto.BatchSubstitutesRequest](c)
	if err != nil {
		builder.FromError(err)
		return
	}

	ctx := c.Request.Context()
	pool := req.Pool
	if len(pool) == 0 {
		if pool, err = h.catalogPool(ctx, req.Products); err != nil {
			builder.FromError(err)
			return
		}
	}

	criteria := req.Criteria(i18n.GetLocale(c))
	if criteria.CategoryAverages == nil {
		criteria.CategoryAverages = h.catalogAverages(ctx)
	}

	batch, err := h.substitutes.FindBatch(req.Products, pool, criteria, req.MaxSubstitutions)
	metrics.RecordOptimization(metrics.KindSubstitution, time.Since(start), err)
	if err != nil {
		builder.FromError(err)
		return
	}
	metrics.RecordSubstitutesFound(len(batch.Substitutions))
	builder.SuccessOK(dto.BatchSubstitutesResponse{Batch: batch, Report: service.SavingsReport(batch)})
}

// catalogPool collects substitute candidates for products from the catalog.
func (h *Handler) catalogPool(ctx context.Context, products []model.Product) ([]model.Product, error) {
	if h.catalog == nil {
		return nil, model.NewValidationError("pool", "is required when the catalog is disabled")
	}
	seen := make(map[string]bool)
	var pool []model.Product
	for _, p := range products {
		candidates, err := h.catalog.SubstitutePool(ctx, p)
		if err != nil {
			return nil, err
		}
		for _, cand := range candidates {
			if !seen[cand.ID] {
				seen[cand.ID] = true
				pool = append(pool, cand)
			}
		}
	}
	return pool, nil
}

// Route handles POST /api/route requests.
//
// @Summary      Optimize a store route
// @Description  Orders the stores into a short round trip from the start point using nearest neighbour and 2-opt.
// @Tags         Routes
// @Accept       json
// @Produce      json
// @Param        request body dto.RouteRequest true "Start point and stores"
// @Success      200 {object} dto.SuccessResponse "Route"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Failure      404 {object} dto.ErrorResponse "Unknown store"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Router       /api/route [post]
func (h *Handler) Route(c *gin.Context) {
	builder := NewResponseBuilder(c)
	start := time.Now()

	req, err := BindAndValidate[dto.RouteRequest](c)
	if err != nil {
		builder.FromError(err)
		return
	}

	stores := req.Stores
	if len(req.StoreIDs) > 0 {
		if stores, err = h.storesByID(c.Request.Context(), req.StoreIDs); err != nil {
			builder.FromError(err)
			return
		}
	}

	route, err := h.routes.Optimize(stores, req.Start)
	metrics.RecordOptimization(metrics.KindRoute, time.Since(start), err)
	if err != nil {
		builder.FromError(err)
		return
	}
	metrics.RecordRouteDistance(route.TotalDistanceKm)
	builder.SuccessOK(route)
}

func (h *Handler) storesByID(ctx context.Context, ids []string) ([]model.Store, error) {
	if h.catalog == nil {
		return nil, service.ErrRepositoryNotConfigured
	}
	stores, err := h.catalog.GetStores(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(stores) != len(ids) {
		return nil, model.NewValidationError("store_ids", "contains unknown stores")
	}
	return stores, nil
}

// CompareRoutes handles POST /api/route/compare requests.
//
// @Summary      Compare visiting orders
// @Description  Evaluates the optimized, input and reversed orders plus any supplied alternatives.
// @Tags         Routes
// @Accept       json
// @Produce      json
// @Param        request body dto.RouteCompareRequest true "Stores and alternatives"
// @Success      200 {object} dto.SuccessResponse "Comparison"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Router       /api/route/compare [post]
func (h *Handler) CompareRoutes(c *gin.Context) {
	builder := NewResponseBuilder(c)
	start := time.Now()

	req, err := BindAndValidate[dto.RouteCompareRequest](c)
	if err != nil {
		builder.FromError(err)
		return
	}

	cmp, err := h.routes.Compare(req.Stores, req.Start, req.Alternatives)
	metrics.RecordOptimization(metrics.KindRoute, time.Since(start), err)
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(cmp)
}

// NearbyRoute handles POST /api/route/nearby requests.
//
// @Summary      Stores near a point
// @Description  Filters the supplied stores to those within the radius, nearest first.
// @Tags         Routes
// @Accept       json
// @Produce      json
// @Param        request body dto.NearbyRequest true "Point, radius and stores"
// @Success      200 {object} dto.SuccessResponse "Nearby stores"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Router       /api/route/nearby [post]
func (h *Handler) NearbyRoute(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BindAndValidate[dto.NearbyRequest](c)
	if err != nil {
		builder.FromError(err)
		return
	}

	nearby, err := h.routes.Nearby(req.Stores, req.At, req.RadiusKm)
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(nearby)
}

// Impact handles POST /api/analysis/impact requests.
//
// @Summary      Basket impact analysis
// @Description  Aggregates cost, carbon footprint and average scores of a basket and suggests improvements.
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        Accept-Language header string false "Locale of the recommendations (en, es, pt)"
// @Param        request body dto.ImpactRequest true "Basket lines"
// @Success      200 {object} dto.SuccessResponse "Analysis"
// @Failure      400 {object} dto.ErrorResponse "Invalid input"
// @Router       /api/analysis/impact [post]
func (h *Handler) Impact(c *gin.Context) {
	builder := NewResponseBuilder(c)
	start := time.Now()

	req, err := BindAndValidate[dto.ImpactRequest](c)
	if err != nil {
		builder.FromError(err)
		return
	}

	averages := req.CategoryAverages
	if averages == nil {
		averages = h.catalogAverages(c.Request.Context())
	}

	analysis, err := h.analyzer.AnalyzeBasket(req.Lines, averages, i18n.GetLocale(c))
	metrics.RecordOptimization(metrics.KindAnalysis, time.Since(start), err)
	if err != nil {
		builder.FromError(err)
		return
	}
	builder.SuccessOK(analysis)
}
