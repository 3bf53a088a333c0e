package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/teachme-bot/internal/config"
)

// New builds the application logger for the configured environment.
func New(cfg *config.Config) (*zap.Logger, error) {
	build := zap.NewDevelopment
	if cfg.Env == "production" {
		build = zap.NewProduction
	}

	l, err := build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return l.Named("teachme").With(
		zap.String("env", cfg.Env),
		zap.String("storage_driver", cfg.Storage.Driver),
	), nil
}
