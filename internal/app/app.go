// Package app provides application initialization and dependency injection.
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/basket-service/config"
	"github.com/guttosm/basket-service/internal/http"
	"github.com/rs/zerolog/log"
)

// InitializeApp creates and wires all application dependencies. The returned
// cleanup func releases the score cache and the database connection.
func InitializeApp(cfg config.Config) (*gin.Engine, func(context.Context), error) {
	InitializeLogger(cfg.Log)

	serviceComponents, err := InitializeServices(cfg)
	if err != nil {
		return nil, nil, err
	}

	// The catalog is optional; the engines work on request payloads alone.
	dbComponents := InitializeDatabase(cfg.Database)

	routerComponents := InitializeRouter(serviceComponents, dbComponents, cfg)
	router := http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config)

	cleanup := func(ctx context.Context) {
		if serviceComponents.Cache != nil {
			serviceComponents.Cache.Stop()
		}
		if dbComponents != nil {
			if err := dbComponents.DB.Close(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to close MongoDB connection")
			}
		}
	}
	return router, cleanup, nil
}
