// Package app wires configuration, logging and the scan pipeline into the
// spectrashield command line.
package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hed1ad/spectrashield/pkg/config"
	"github.com/hed1ad/spectrashield/pkg/log"
)

// state is shared by the subcommands of one invocation.
type state struct {
	configPath string
	logEnv     string
	logLevel   string

	config *config.Config
	logger *slog.Logger
	sync   func() error
}

// NewRootCommand builds the spectrashield command tree.
func NewRootCommand() *cobra.Command {
	s := &state{}

	root := &cobra.Command{
		Use:           "spectrashield",
		Short:         "Scan an RF band and flag anomalous power readings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return s.init()
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if s.sync != nil {
				// Syncing stderr fails on some terminals; nothing to recover.
				_ = s.sync()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&s.configPath, "config", "c", "", "path to the YAML configuration file")
	flags.StringVar(&s.logEnv, "log-env", "", "logger configuration: dev or prod (overrides config)")
	flags.StringVar(&s.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(
		newScanCommand(s),
		newDetectCommand(s),
		newDashboardCommand(s),
	)

	return root
}

func (s *state) init() error {
	cfg := config.Default()
	if s.configPath != "" {
		loaded, err := config.Load(s.configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration file: %w", err)
		}
		cfg = *loaded
	}
	if s.logEnv != "" {
		cfg.Settings.LogEnv = s.logEnv
	}
	if s.logLevel != "" {
		cfg.Settings.LogLevel = s.logLevel
	}

	logger, sync, err := log.New(cfg.Settings.LogEnv, cfg.Settings.LogLevel)
	if err != nil {
		return err
	}

	s.config = &cfg
	s.logger = logger
	s.sync = sync
	return nil
}
