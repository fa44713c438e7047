package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hed1ad/spectrashield/pkg/report"
	"github.com/hed1ad/spectrashield/pkg/sdr"
)

func newScanCommand(s *state) *cobra.Command {
	var (
		output string
		detect bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the SDR power scan and write the scan file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := s.config.Scan
			if output != "" {
				cfg.Output = output
			}

			runner, err := sdr.NewRunner(cfg, sdr.WithLogger(s.logger))
			if err != nil {
				return err
			}
			path, err := runner.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scan complete: %s\n", path)

			if !detect {
				return nil
			}
			_, res, err := s.analyze(path, true)
			if err != nil {
				return err
			}
			return report.WriteText(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "scan file path (overrides config)")
	cmd.Flags().BoolVar(&detect, "detect", false, "run anomaly detection on the new scan")
	return cmd
}

func newDetectCommand(s *state) *cobra.Command {
	var (
		asJSON       bool
		stdThreshold float64
		saveModel    string
	)

	cmd := &cobra.Command{
		Use:   "detect [scan-file]",
		Short: "Flag anomalous power readings in a scan file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("std-threshold") {
				s.config.Detection.StdThreshold = stdThreshold
			}

			_, res, err := s.analyze(s.inputPath(args), true)
			if err != nil {
				return err
			}
			if saveModel != "" {
				if err := s.saveModel(res, saveModel); err != nil {
					return err
				}
			}
			if asJSON {
				return report.WriteJSON(cmd.OutOrStdout(), res)
			}
			return report.WriteText(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "write the result as JSON")
	cmd.Flags().Float64Var(&stdThreshold, "std-threshold", 0, "base standard deviation threshold (overrides config)")
	cmd.Flags().StringVar(&saveModel, "save-model", "", "write the fitted isolation forest to this file")
	return cmd
}

func newDashboardCommand(s *state) *cobra.Command {
	var (
		output   string
		noDetect bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard [scan-file]",
		Short: "Render the scan and its anomalies as an HTML page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detect := s.config.Detection.Enabled && !noDetect
			scan, res, err := s.analyze(s.inputPath(args), detect)
			if err != nil {
				return err
			}

			if output == "" {
				output = s.config.Dashboard.Output
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating dashboard: %w", err)
			}
			defer f.Close()

			if err := report.WriteDashboard(f, scan, res, report.DashboardOptions{Title: s.config.Dashboard.Title}); err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing dashboard: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Dashboard written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "HTML file path (overrides config)")
	cmd.Flags().BoolVar(&noDetect, "no-detect", false, "plot the spectrum without anomaly detection")
	return cmd
}
