package http

import (
	"github.com/gin-gonic/gin"
)

// PublicRouteGroup is a set of routes registered on the API group.
type PublicRouteGroup interface {
	RegisterPublicRoutes(rg *gin.RouterGroup)
}

// OptimizationRoutes registers the engine endpoints.
type OptimizationRoutes struct {
	handler *Handler
}

// NewOptimizationRoutes creates a new OptimizationRoutes instance.
func NewOptimizationRoutes(handler *Handler) *OptimizationRoutes {
	return &OptimizationRoutes{handler: handler}
}

// RegisterPublicRoutes registers the scoring, optimization, substitution, route and analysis endpoints.
func (r *OptimizationRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/score", r.handler.Score)
	rg.POST("/score/compare", r.handler.Compare)

	rg.POST("/optimize", r.handler.Optimize)
	rg.POST("/optimize/quick", r.handler.QuickOptimize)

	rg.POST("/substitutes", r.handler.Substitutes)
	rg.POST("/substitutes/batch", r.handler.BatchSubstitutes)

	rg.POST("/route", r.handler.Route)
	rg.POST("/route/compare", r.handler.CompareRoutes)
	rg.POST("/route/nearby", r.handler.NearbyRoute)

	rg.POST("/analysis/impact", r.handler.Impact)
}

// CatalogRoutes registers the catalog endpoints. They only exist when the
// catalog database is enabled.
type CatalogRoutes struct {
	handler *CatalogHandler
}

// NewCatalogRoutes creates a new CatalogRoutes instance.
func NewCatalogRoutes(handler *CatalogHandler) *CatalogRoutes {
	return &CatalogRoutes{handler: handler}
}

func (r *CatalogRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", r.handler.ListProducts)
	products.POST("", r.handler.CreateProduct)
	products.GET("/averages", r.handler.CategoryAverages)
	products.GET("/:id", r.handler.GetProduct)

	stores := rg.Group("/stores")
	stores.GET("", r.handler.ListStores)
	stores.POST("", r.handler.CreateStore)
	stores.GET("/nearby", r.handler.NearbyStores)

	lists := rg.Group("/shopping-lists")
	lists.GET("", r.handler.ListShoppingLists)
	lists.POST("", r.handler.CreateShoppingList)
	lists.GET("/:id", r.handler.GetShoppingList)
	lists.POST("/:id/optimize", r.handler.OptimizeShoppingList)
}
