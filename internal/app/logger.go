package app

import (
	"github.com/guttosm/basket-service/config"
	"github.com/guttosm/basket-service/internal/logger"
)

// InitializeLogger initializes the JSON logger from the log configuration.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(cfg.Level, cfg.Pretty)
}
