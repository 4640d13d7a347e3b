package app

import (
	"github.com/guttosm/basket-service/config"
	"github.com/guttosm/basket-service/internal/http"
	"github.com/guttosm/basket-service/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter builds the handlers and router configuration. Catalog
// endpoints and fallbacks are only wired when dbComponents is not nil.
func InitializeRouter(services *ServiceComponents, dbComponents *DatabaseComponents, cfg config.Config) *RouterComponents {
	healthHandler := http.NewHealthHandler()

	routerCfg := http.RouterConfig{
		RateLimit:      cfg.Server.RateLimit,
		RateWindow:     cfg.Server.RateWindow,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
		SwaggerUser:    cfg.Server.SwaggerUser,
		SwaggerPass:    cfg.Server.SwaggerPass,
	}

	var handlerOpts []http.HandlerOption
	if dbComponents != nil {
		catalog := service.NewCatalogService(
			dbComponents.Products,
			dbComponents.Stores,
			dbComponents.ShoppingLists,
			services.Scorer,
			services.Optimizer,
		)
		handlerOpts = append(handlerOpts, http.WithCatalog(catalog))
		routerCfg.Catalog = http.NewCatalogHandler(catalog)

		if dbComponents.DB != nil {
			healthHandler.RegisterChecker("mongodb", dbComponents.DB)
		}
		for name, cb := range dbComponents.CircuitBreakers {
			healthHandler.RegisterCircuitBreaker(name, cb)
		}
	}

	handler := http.NewHandler(
		services.Scorer,
		services.Optimizer,
		services.Substitutes,
		services.Routes,
		services.Analyzer,
		handlerOpts...,
	)

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
