// Package log builds the application logger on top of Uber's Zap.
//
// Components take a *slog.Logger; New returns one backed by a zap core so the
// dev and prod encoders apply to every log line.
//
// See the Zap docs for more details: https://pkg.go.dev/go.uber.org/zap
package log

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/blendle/zapdriver"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// Env selects a logger configuration.
type Env string

// String implements the Stringer interface.
func (e Env) String() string {
	return string(e)
}

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

// New creates a logger for env at the given level ("debug", "info", ...).
// The returned sync func flushes buffered entries and should be deferred.
func New(env, level string) (*slog.Logger, func() error, error) {
	var lvl zapcore.Level
	if level == "" {
		level = "info"
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("log: invalid level %q: %w", level, err)
	}

	var (
		logger *zap.Logger
		err    error
	)
	switch Env(strings.ToLower(env)) {
	case EnvProd:
		config := zapdriver.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(lvl)
		// Make sure sampling is disabled.
		config.Sampling = nil
		logger, err = config.Build(zapdriver.WrapCore())
	case EnvDev, "":
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(lvl)
		logger, err = config.Build()
	default:
		return nil, nil, fmt.Errorf("log: unknown env %q", env)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("log: build: %w", err)
	}

	return FromCore(logger.Core()), logger.Sync, nil
}

// FromCore wraps a zap core as a *slog.Logger.
func FromCore(core zapcore.Core) *slog.Logger {
	return slog.New(zapslog.NewHandler(core, zapslog.WithCaller(true)))
}
