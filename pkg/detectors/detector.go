// Package detectors provides unsupervised outlier detectors for scan power data.
package detectors

// Detector is the common interface for trainable outlier detectors.
type Detector interface {
	// Fit trains the detector.
	// data is a 2D slice where each row is a sample and each column is a feature.
	Fit(data [][]float64) error

	// Predict returns anomaly scores for the given samples.
	// Scores are normalized to [0, 1] where higher values indicate anomalies.
	Predict(data [][]float64) ([]float64, error)

	// PredictOne returns the anomaly score for a single sample.
	PredictOne(sample []float64) (float64, error)

	// Save serializes the trained model to bytes.
	Save() ([]byte, error)

	// Load deserializes a trained model from bytes.
	Load(data []byte) error
}

// Labeler is a Detector that can fit a dataset and label each of its rows
// in one pass, the way a detection run over a single scan needs it.
type Labeler interface {
	Detector

	// FitScore trains on data and returns one Score per row of data.
	FitScore(data [][]float64) ([]Score, error)
}

// Score is the verdict for one sample.
type Score struct {
	// Value is the anomaly score in [0, 1].
	Value float64
	// IsAnomaly is set when Value exceeds the fitted threshold.
	IsAnomaly bool
	// Features holds the input row.
	Features []float64
}

// Config holds common configuration for detectors.
type Config struct {
	// Contamination is the expected proportion of anomalies in training data.
	Contamination float64
	// Threshold is the score threshold used when Contamination is zero.
	Threshold float64
	// RandomSeed for reproducibility.
	RandomSeed int64
}

// DefaultConfig returns the configuration used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		Contamination: 0.1,
		Threshold:     0.5,
		RandomSeed:    42,
	}
}
