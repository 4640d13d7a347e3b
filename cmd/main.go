// Package main is the entry point for the basket-service application.
//
// @title           Basket Service API
// @version         1.0.0
// @description     API for sustainable shopping: product scoring, budget-constrained basket optimization, substitute search and store route planning.
//
//	Money is always expressed in minor currency units (cents).
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/basket-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @tag.name        Scoring
// @tag.description Sustainability scoring of products
//
// @tag.name        Optimization
// @tag.description Budget-constrained basket optimization
//
// @tag.name        Substitution
// @tag.description Substitute search and savings reports
//
// @tag.name        Routes
// @tag.description Store route planning
//
// @tag.name        Analysis
// @tag.description Basket impact analysis
//
// @tag.name        Catalog
// @tag.description Products, stores and shopping lists
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"

	_ "github.com/guttosm/basket-service/docs" // swagger docs

	"github.com/guttosm/basket-service/config"
	"github.com/guttosm/basket-service/internal/app"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}
	cfg := config.Load()

	router, cleanup, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(router, cfg.Server)
	runErr := server.Run(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	cleanup(ctx)
	cancel()

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
