package app

import (
	"fmt"
	"os"

	"github.com/hed1ad/spectrashield/pkg/anomaly"
	scanio "github.com/hed1ad/spectrashield/pkg/io"
	"github.com/hed1ad/spectrashield/pkg/spectrum"
)

// analyze loads the scan at path and, when enabled, runs detection on it.
// The result is nil when detection is disabled.
func (s *state) analyze(path string, detect bool) (spectrum.Scan, *anomaly.Result, error) {
	scan, err := scanio.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if len(scan) == 0 {
		return nil, nil, fmt.Errorf("no valid data found in %s", path)
	}

	lo, hi := scan.PowerBounds()
	s.logger.Info("scan loaded",
		"path", path,
		"samples", len(scan),
		"power_min", lo,
		"power_max", hi,
	)

	if !detect {
		return scan, nil, nil
	}

	opts := append(s.config.Detection.Options(), anomaly.WithLogger(s.logger))
	res, err := anomaly.New(opts...).Detect(scan)
	if err != nil {
		return nil, nil, fmt.Errorf("detecting anomalies: %w", err)
	}

	s.logger.Info("anomaly detection complete",
		"anomalies", res.Stats.Combined,
		"stability", res.Stats.Stability,
		"mode", res.Params.Mode.String(),
	)
	return scan, res, nil
}

func (s *state) inputPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return s.config.Scan.Output
}

// saveModel writes the density model fitted for res to path.
func (s *state) saveModel(res *anomaly.Result, path string) error {
	data, err := res.Model().Save()
	if err != nil {
		return fmt.Errorf("saving model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving model: %w", err)
	}
	s.logger.Info("model saved", "path", path, "bytes", len(data))
	return nil
}
