// Package logging builds the process-wide zap logger and carries
// request-scoped loggers through echo contexts.
package logging

import (
	"fmt"

	"savor/internal/config"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	contextKey   = "logger"
	RequestIDKey = "X-Request-ID"
)

// New builds a logger for the configured environment. Production emits JSON,
// anything else emits colored console output.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var logConfig zap.Config
	if cfg.Environment == "production" {
		logConfig = zap.NewProductionConfig()
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	logConfig.Level.SetLevel(level)

	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	logger.Info("Logger initialized", zap.String("level", level.String()), zap.String("environment", cfg.Environment))
	return logger, nil
}

// Attach stores a request-scoped logger on the echo context.
func Attach(c echo.Context, logger *zap.Logger) {
	c.Set(contextKey, logger)
}

// FromContext returns the request logger, or fallback tagged with the
// request ID when none was attached.
func FromContext(c echo.Context, fallback *zap.Logger) *zap.Logger {
	if logger, ok := c.Get(contextKey).(*zap.Logger); ok {
		return logger
	}

	requestID := c.Request().Header.Get(RequestIDKey)
	if requestID == "" {
		requestID = "unknown"
	}
	return fallback.With(zap.String("request_id", requestID))
}
