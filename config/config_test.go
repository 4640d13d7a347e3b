package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.Pretty)
		assert.True(t, cfg.Cache.Enabled)
		assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
		assert.Equal(t, 10000, cfg.Cache.Size)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
		assert.False(t, cfg.Database.Enabled)
		assert.Equal(t, "basket_service", cfg.Database.DatabaseName)
		assert.Equal(t, 20, cfg.Optimizer.MaxQuantityPerItem)
		assert.Equal(t, 200000, cfg.Optimizer.MaxBudgetUnits)
		assert.Equal(t, 20, cfg.Optimizer.MaxStores)
		assert.Equal(t, 100, cfg.Optimizer.MaxPasses)
		assert.Equal(t, 30.0, cfg.Optimizer.SpeedKmh)
		assert.Equal(t, 15.0, cfg.Optimizer.DwellMinutes)
		assert.Empty(t, cfg.Scoring.TablesFile)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PORT", "9090")
		_ = os.Setenv("RATE_LIMIT", "50")
		_ = os.Setenv("RATE_WINDOW", "30s")
		_ = os.Setenv("LOG_LEVEL", "debug")
		_ = os.Setenv("LOG_PRETTY", "true")
		_ = os.Setenv("CACHE_BACKEND", "Redis")
		_ = os.Setenv("CACHE_SIZE", "500")
		_ = os.Setenv("CACHE_TTL", "1m")
		_ = os.Setenv("REDIS_URL", "redis://cache:6379/1")
		_ = os.Setenv("MONGODB_ENABLED", "true")
		_ = os.Setenv("ROUTE_SPEED_KMH", "22.5")
		_ = os.Setenv("OPTIMIZER_MAX_QUANTITY", "10")
		_ = os.Setenv("SCORING_TABLES_FILE", "/etc/basket/tables.yaml")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Server.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Log.Pretty)
		assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
		assert.Equal(t, 500, cfg.Cache.Size)
		assert.Equal(t, time.Minute, cfg.Cache.TTL)
		assert.Equal(t, "redis://cache:6379/1", cfg.Cache.RedisURL)
		assert.True(t, cfg.Database.Enabled)
		assert.Equal(t, 22.5, cfg.Optimizer.SpeedKmh)
		assert.Equal(t, 10, cfg.Optimizer.MaxQuantityPerItem)
		assert.Equal(t, "/etc/basket/tables.yaml", cfg.Scoring.TablesFile)
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("RATE_LIMIT", "invalid")
		_ = os.Setenv("MONGODB_ENABLED", "invalid")
		_ = os.Setenv("RATE_WINDOW", "invalid")
		_ = os.Setenv("ROUTE_DWELL_MINUTES", "ten")
		_ = os.Setenv("CACHE_BACKEND", "memcached")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.False(t, cfg.Database.Enabled)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, 15.0, cfg.Optimizer.DwellMinutes)
		assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	})

	t.Run("appends CORS origins to the defaults", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("CORS_ORIGINS", " https://basket.example , ")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000", "https://basket.example"}, cfg.Server.CORSOrigins)
	})
}
