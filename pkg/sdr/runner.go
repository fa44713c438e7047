// Package sdr runs the external power scan tool and stores its output.
package sdr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Runner executes scans for one Config, one at a time.
type Runner struct {
	config  Config
	binPath string
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner validates config and locates its runtime on PATH.
func NewRunner(config Config, opts ...Option) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	binPath, err := exec.LookPath(config.Runtime)
	if err != nil {
		return nil, fmt.Errorf("error finding runtime: %w", err)
	}

	r := &Runner{
		config:  config,
		binPath: binPath,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Config returns the acquisition settings.
func (r *Runner) Config() Config {
	return r.config
}

// Run blocks until the tool exits and returns the path of the scan file.
// The tool's stdout replaces the previous scan file only when the tool
// succeeds; a failed run leaves it untouched.
func (r *Runner) Run(ctx context.Context) (string, error) {
	args, err := r.config.Args()
	if err != nil {
		return "", err
	}

	dir, name := filepath.Split(r.config.Output)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("creating scan file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binPath, args...)
	cmd.Stdout = tmp
	cmd.Stderr = &stderr

	r.logger.Info("scanning frequencies",
		slog.String("runtime", r.binPath),
		slog.String("args", strings.Join(args, " ")),
		slog.String("output", r.config.Output),
	)

	start := time.Now()
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("command failed: %w", err)
		}
		return "", fmt.Errorf("command failed: %w: %s", err, msg)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("writing scan file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing scan file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("writing scan file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.config.Output); err != nil {
		return "", fmt.Errorf("replacing scan file: %w", err)
	}

	r.logger.Info("scan complete",
		slog.String("output", r.config.Output),
		slog.Duration("elapsed", time.Since(start)),
	)
	return r.config.Output, nil
}
