package app

import (
	"fmt"
	"strings"

	"github.com/guttosm/basket-service/config"
	"github.com/guttosm/basket-service/internal/i18n"
	"github.com/guttosm/basket-service/internal/service"
	"github.com/guttosm/basket-service/internal/service/cache"
	"github.com/rs/zerolog/log"
)

// ServiceComponents holds the optimization engines.
type ServiceComponents struct {
	Scorer      service.Scorer
	Optimizer   service.BasketOptimizer
	Substitutes service.SubstituteFinder
	Routes      service.RoutePlanner
	Analyzer    service.ImpactAnalyzer
	// Cache is nil when score caching is disabled.
	Cache cache.Cache
}

// InitializeServices builds the engines. It fails only when a configured
// scoring tables file cannot be loaded.
func InitializeServices(cfg config.Config) (*ServiceComponents, error) {
	tables, err := loadScoringTables(cfg.Scoring)
	if err != nil {
		return nil, err
	}

	scorerOpts := []service.ScorerOption{service.WithScoringTables(tables)}
	scoreCache := newScoreCache(cfg.Cache)
	if scoreCache != nil {
		scorerOpts = append(scorerOpts, service.WithScoreCache(scoreCache))
	}
	scorer := service.NewScorerService(scorerOpts...)

	var knapsackOpts []service.KnapsackOption
	if o := cfg.Optimizer; o.MaxQuantityPerItem > 0 {
		knapsackOpts = append(knapsackOpts, service.WithMaxQuantityPerItem(o.MaxQuantityPerItem))
	}
	if o := cfg.Optimizer; o.MaxBudgetUnits > 0 {
		knapsackOpts = append(knapsackOpts, service.WithMaxBudgetUnits(int64(o.MaxBudgetUnits)))
	}
	if o := cfg.Optimizer; o.MaxTableCells > 0 {
		knapsackOpts = append(knapsackOpts, service.WithMaxTableCells(int64(o.MaxTableCells)))
	}

	var routeOpts []service.RouteOption
	if o := cfg.Optimizer; o.MaxStores > 0 {
		routeOpts = append(routeOpts, service.WithMaxStores(o.MaxStores))
	}
	if o := cfg.Optimizer; o.MaxPasses > 0 {
		routeOpts = append(routeOpts, service.WithMaxPasses(o.MaxPasses))
	}
	if o := cfg.Optimizer; o.SpeedKmh > 0 {
		routeOpts = append(routeOpts, service.WithSpeedKmh(o.SpeedKmh))
	}
	if o := cfg.Optimizer; o.DwellMinutes > 0 {
		routeOpts = append(routeOpts, service.WithDwellMinutes(o.DwellMinutes))
	}

	translator := i18n.GetTranslator()
	components := &ServiceComponents{
		Scorer:      scorer,
		Optimizer:   service.NewKnapsackOptimizerService(knapsackOpts...),
		Substitutes: service.NewSubstitutionEngineService(scorer, service.WithTranslator(translator)),
		Routes:      service.NewRouteOptimizerService(routeOpts...),
		Analyzer:    service.NewImpactAnalyzerService(scorer, translator),
		Cache:       scoreCache,
	}
	return components, nil
}

func loadScoringTables(cfg config.ScoringConfig) (service.ScoringTables, error) {
	tables := service.DefaultScoringTables()
	if cfg.TablesFile != "" {
		loaded, err := service.LoadScoringTablesFile(cfg.TablesFile)
		if err != nil {
			return service.ScoringTables{}, fmt.Errorf("load scoring tables: %w", err)
		}
		tables = loaded
		log.Info().Str("file", cfg.TablesFile).Msg("Loaded scoring tables")
	}
	if country := strings.TrimSpace(cfg.HomeCountry); country != "" {
		tables.HomeCountry = strings.ToLower(country)
	}
	return tables, nil
}

// newScoreCache returns nil when caching is disabled. An unreachable Redis
// falls back to the in-process cache.
func newScoreCache(cfg config.CacheConfig) cache.Cache {
	if !cfg.Enabled || cfg.Size <= 0 {
		return nil
	}
	if cfg.Backend == config.CacheBackendRedis {
		redisCache, err := service.NewRedisScoreCacheFromURL(cfg.RedisURL, cfg.TTL)
		if err == nil {
			log.Info().Msg("Using Redis score cache")
			return redisCache
		}
		log.Warn().Err(err).Msg("Redis unavailable - falling back to in-memory score cache")
	}
	return service.NewShardedCache(cfg.Size, cfg.TTL, cfg.Shards)
}
