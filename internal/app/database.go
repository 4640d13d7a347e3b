package app

import (
	"github.com/guttosm/basket-service/config"
	"github.com/guttosm/basket-service/internal/circuitbreaker"
	"github.com/guttosm/basket-service/internal/metrics"
	"github.com/guttosm/basket-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// Circuit breaker names, also used as health check and metric labels.
const (
	productsBreaker      = "mongodb_products"
	storesBreaker        = "mongodb_stores"
	shoppingListsBreaker = "mongodb_shopping_lists"
)

// DatabaseComponents holds the catalog repositories, each behind its own breaker.
type DatabaseComponents struct {
	DB              *repository.MongoDB
	Products        repository.ProductRepositoryInterface
	Stores          repository.StoreRepositoryInterface
	ShoppingLists   repository.ShoppingListRepositoryInterface
	CircuitBreakers map[string]*circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and builds the catalog repositories.
// Returns nil if the database is disabled or the connection fails.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	mongoCfg := repository.DefaultMongoConfig()
	if cfg.Timeout > 0 {
		mongoCfg.ConnectTimeout = cfg.Timeout
		mongoCfg.ServerSelectionTimeout = cfg.Timeout
	}
	db, err := repository.NewMongoDBWithConfig(cfg.URI, cfg.DatabaseName, mongoCfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without catalog")
		return nil
	}
	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	return newDatabaseComponents(db, cfg)
}

func newDatabaseComponents(db *repository.MongoDB, cfg config.DatabaseConfig) *DatabaseComponents {
	breakers := map[string]*circuitbreaker.CircuitBreaker{
		productsBreaker:      newCircuitBreaker(productsBreaker, cfg),
		storesBreaker:        newCircuitBreaker(storesBreaker, cfg),
		shoppingListsBreaker: newCircuitBreaker(shoppingListsBreaker, cfg),
	}

	return &DatabaseComponents{
		DB: db,
		Products: repository.NewProductRepositoryWithCircuitBreaker(
			repository.NewProductRepository(db), breakers[productsBreaker]),
		Stores: repository.NewStoreRepositoryWithCircuitBreaker(
			repository.NewStoreRepository(db), breakers[storesBreaker]),
		ShoppingLists: repository.NewShoppingListRepositoryWithCircuitBreaker(
			repository.NewShoppingListRepository(db), breakers[shoppingListsBreaker]),
		CircuitBreakers: breakers,
	}
}

// newCircuitBreaker publishes every state change as a gauge.
func newCircuitBreaker(name string, cfg config.DatabaseConfig) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		OnStateChange: func(name string, _, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
}
