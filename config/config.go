// Package config provides configuration management for the basket service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds the complete application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Cache     CacheConfig
	Database  DatabaseConfig
	Optimizer OptimizerConfig
	Scoring   ScoringConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string
	RateLimit       int
	RateWindow      time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	SwaggerUser     string
	SwaggerPass     string
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// CacheConfig holds score cache configuration.
type CacheConfig struct {
	Enabled  bool
	Backend  string
	Size     int
	Shards   int
	TTL      time.Duration
	RedisURL string
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	Enabled      bool
	Timeout      time.Duration
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// OptimizerConfig holds the ceilings of the knapsack and route engines.
type OptimizerConfig struct {
	MaxQuantityPerItem int
	MaxBudgetUnits     int
	MaxTableCells      int
	MaxStores          int
	MaxPasses          int
	SpeedKmh           float64
	DwellMinutes       float64
}

// ScoringConfig points at optional scoring table overrides.
type ScoringConfig struct {
	TablesFile  string
	HomeCountry string
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			RateLimit:       getEnvInt("RATE_LIMIT", 100),
			RateWindow:      getEnvDuration("RATE_WINDOW", time.Minute),
			RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSOrigins:     parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:     getEnv("SWAGGER_USER", ""),
			SwaggerPass:     getEnv("SWAGGER_PASS", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Cache: CacheConfig{
			Enabled:  getEnvBool("CACHE_ENABLED", true),
			Backend:  parseCacheBackend(os.Getenv("CACHE_BACKEND")),
			Size:     getEnvInt("CACHE_SIZE", 10000),
			Shards:   getEnvInt("CACHE_SHARDS", 16),
			TTL:      getEnvDuration("CACHE_TTL", 10*time.Minute),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "basket_service"),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			Timeout:                        getEnvDuration("MONGODB_TIMEOUT", 5*time.Second),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Optimizer: OptimizerConfig{
			MaxQuantityPerItem: getEnvInt("OPTIMIZER_MAX_QUANTITY", 20),
			MaxBudgetUnits:     getEnvInt("OPTIMIZER_MAX_BUDGET_UNITS", 200000),
			MaxTableCells:      getEnvInt("OPTIMIZER_MAX_TABLE_CELLS", 20000000),
			MaxStores:          getEnvInt("ROUTE_MAX_STORES", 20),
			MaxPasses:          getEnvInt("ROUTE_MAX_PASSES", 100),
			SpeedKmh:           getEnvFloat("ROUTE_SPEED_KMH", 30),
			DwellMinutes:       getEnvFloat("ROUTE_DWELL_MINUTES", 15),
		},
		Scoring: ScoringConfig{
			TablesFile:  getEnv("SCORING_TABLES_FILE", ""),
			HomeCountry: getEnv("SCORING_HOME_COUNTRY", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseCacheBackend(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), CacheBackendRedis) {
		return CacheBackendRedis
	}
	return CacheBackendMemory
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
