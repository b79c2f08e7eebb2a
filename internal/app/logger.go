package app

import (
	"fmt"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"github.com/portfolio/internal/config"
)

// newLogger builds a zap core and exposes it through slog. Production logs are
// JSON on stdout; development logs use the console encoder.
func newLogger(cfg *config.Config) (*slog.Logger, *zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	zc.OutputPaths = []string{"stdout"}
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.MessageKey = "msg"

	zl, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build zap logger: %w", err)
	}

	logger := slog.New(zapslog.NewHandler(zl.Core(), zapslog.WithCaller(true)))
	slog.SetDefault(logger)
	return logger, zl, nil
}
