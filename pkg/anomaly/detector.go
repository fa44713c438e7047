// Package anomaly flags outlier power readings in a single spectrum scan.
//
// Detection combines an isolation forest over the standardised power column
// with a two-sided sigma test on the raw powers. How aggressive both tests
// are, and whether they must agree, depends on the dynamic range of the scan:
// a quiet channel is searched with tighter limits, a busy one with looser
// limits to avoid over-flagging.
package anomaly

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/hed1ad/spectrashield/pkg/detectors"
	"github.com/hed1ad/spectrashield/pkg/detectors/iforest"
	"github.com/hed1ad/spectrashield/pkg/detectors/sigma"
	"github.com/hed1ad/spectrashield/pkg/spectrum"
)

// DensityFactory builds the density-based labeler for one detection run.
type DensityFactory func(cfg detectors.Config) detectors.Labeler

// Detector runs range-adaptive anomaly detection. It holds no per-scan state
// and may be shared between goroutines.
type Detector struct {
	stdThreshold float64
	seed         int64
	trees        int
	sampleSize   int
	density      DensityFactory
	logger       *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithStdThreshold sets the base sigma multiplier before range scaling.
func WithStdThreshold(k float64) Option {
	return func(d *Detector) {
		d.stdThreshold = k
	}
}

// WithSeed sets the seed of the isolation forest.
func WithSeed(seed int64) Option {
	return func(d *Detector) {
		d.seed = seed
	}
}

// WithTrees sets the number of isolation trees.
func WithTrees(n int) Option {
	return func(d *Detector) {
		d.trees = n
	}
}

// WithSampleSize sets the per-tree subsample size.
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		d.sampleSize = n
	}
}

// WithDensity replaces the isolation forest with another labeler.
func WithDensity(f DensityFactory) Option {
	return func(d *Detector) {
		d.density = f
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{
		stdThreshold: DefaultStdThreshold,
		seed:         detectors.DefaultConfig().RandomSeed,
		trees:        100,
		sampleSize:   256,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.density == nil {
		d.density = d.isolationForest
	}
	return d
}

func (d *Detector) isolationForest(cfg detectors.Config) detectors.Labeler {
	return iforest.New(
		iforest.WithConfig(cfg),
		iforest.WithTrees(d.trees),
		iforest.WithSampleSize(d.sampleSize),
	)
}

// Detect runs detection over samples with the given base sigma threshold
// and default settings otherwise.
func Detect(samples []spectrum.Sample, stdThreshold float64) (*Result, error) {
	return New(WithStdThreshold(stdThreshold)).Detect(samples)
}

// Detect flags the anomalous samples of one scan. samples is not modified.
func (d *Detector) Detect(samples []spectrum.Sample) (*Result, error) {
	if err := checkThreshold(d.stdThreshold); err != nil {
		return nil, err
	}
	if err := checkSamples(samples); err != nil {
		return nil, err
	}

	scan := spectrum.Scan(samples).Clone()
	lo, hi := scan.PowerBounds()
	if !isFinite(hi - lo) {
		return nil, overflowError(scan, "overflows the power range")
	}
	params := SelectParams(hi-lo, d.stdThreshold)

	powers := scan.Powers()
	z := sigma.ZScores(powers)
	rows := make([][]float64, len(z))
	for i, v := range z {
		if !isFinite(v) {
			return nil, overflowError(scan, "overflows the power statistics")
		}
		rows[i] = []float64{v}
	}

	labeler := d.density(detectors.Config{
		Contamination: params.Contamination,
		RandomSeed:    d.seed,
	})
	scores, err := labeler.FitScore(rows)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(rows) {
		return nil, fmt.Errorf("anomaly: density test returned %d scores for %d samples", len(scores), len(rows))
	}

	sig, err := sigma.Test(powers, params.StdThreshold)
	if err != nil {
		return nil, err
	}
	if !isFinite(sig.Mean) || !isFinite(sig.StdDev) {
		return nil, overflowError(scan, "overflows the power statistics")
	}

	res := &Result{
		Samples: make([]FlaggedSample, len(scan)),
		Params:  params,
		Stats: Stats{
			PowerMin:   lo,
			PowerMax:   hi,
			PowerRange: params.PowerRange,
			Mean:       sig.Mean,
			StdDev:     sig.StdDev,
			Stability:  params.Stability,
		},
		model: labeler,
	}
	for i, s := range scan {
		fs := FlaggedSample{
			Sample:         s,
			IsolationScore: scores[i].Value,
			IFFlag:         scores[i].IsAnomaly,
			StdFlag:        sig.Flags[i],
		}
		fs.Anomaly = params.Mode.combine(fs.IFFlag, fs.StdFlag)

		if fs.IFFlag {
			res.Stats.IFCount++
		}
		if fs.StdFlag {
			res.Stats.StdCount++
		}
		if fs.Anomaly {
			res.Stats.Combined++
		}
		res.Samples[i] = fs
	}
	if params.PowerRange > 0 {
		res.Stats.AnomaliesPerDB = float64(res.Stats.Combined) / params.PowerRange
	}

	d.logger.Debug("anomaly detection complete",
		slog.Int("samples", len(scan)),
		slog.Float64("power_range", params.PowerRange),
		slog.Float64("contamination", params.Contamination),
		slog.Float64("std_threshold", params.StdThreshold),
		slog.String("mode", params.Mode.String()),
		slog.Int("if_count", res.Stats.IFCount),
		slog.Int("std_count", res.Stats.StdCount),
		slog.Int("combined", res.Stats.Combined),
	)

	return res, nil
}

func checkThreshold(k float64) error {
	if k <= 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return &InvalidParameterError{Name: "std_threshold", Value: k}
	}
	return nil
}

func checkSamples(samples []spectrum.Sample) error {
	if len(samples) < 2 {
		return &InsufficientDataError{Samples: len(samples)}
	}

	finite := 0
	for _, s := range samples {
		if isFinite(s.Power) {
			finite++
		}
	}
	if finite == 0 {
		return &InsufficientDataError{Samples: len(samples)}
	}

	for i, s := range samples {
		if !isFinite(s.Power) {
			return &InvalidSampleError{Index: i, Field: "power", Value: s.Power}
		}
		if !isFinite(s.Frequency) {
			return &InvalidSampleError{Index: i, Field: "frequency", Value: s.Frequency}
		}
	}
	return nil
}

// overflowError blames the sample with the largest power magnitude.
func overflowError(scan spectrum.Scan, reason string) error {
	worst := 0
	for i, s := range scan {
		if math.Abs(s.Power) > math.Abs(scan[worst].Power) {
			worst = i
		}
	}
	return &InvalidSampleError{Index: worst, Field: "power", Value: scan[worst].Power, Reason: reason}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
