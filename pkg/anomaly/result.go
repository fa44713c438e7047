package anomaly

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hed1ad/spectrashield/pkg/detectors"
	"github.com/hed1ad/spectrashield/pkg/spectrum"
)

// FlaggedSample is a scan sample with the verdicts of one detection run.
type FlaggedSample struct {
	spectrum.Sample
	// IsolationScore is the isolation forest score in [0, 1].
	IsolationScore float64 `json:"isolation_score"`
	IFFlag         bool    `json:"if_flag"`
	StdFlag        bool    `json:"std_flag"`
	Anomaly        bool    `json:"anomaly"`
}

// Stats summarises one detection run.
type Stats struct {
	IFCount  int `json:"if_anomaly_count"`
	StdCount int `json:"std_anomaly_count"`
	Combined int `json:"combined_anomaly_count"`

	PowerMin   float64 `json:"power_min"`
	PowerMax   float64 `json:"power_max"`
	PowerRange float64 `json:"power_range"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Stability  string  `json:"stability"`

	// AnomaliesPerDB is Combined divided by PowerRange, zero for a flat scan.
	AnomaliesPerDB float64 `json:"anomalies_per_db"`
}

// Result pairs the flagged samples of a scan with the run parameters and statistics.
type Result struct {
	Samples []FlaggedSample `json:"samples"`
	Params  Params          `json:"params"`
	Stats   Stats           `json:"stats"`

	model detectors.Detector
}

// Model returns the density model fitted during the run, nil for results
// that were not produced by Detect.
func (r *Result) Model() detectors.Detector {
	return r.model
}

// Anomalies returns the samples with a positive combined verdict, in scan order.
func (r *Result) Anomalies() []FlaggedSample {
	var out []FlaggedSample
	for _, s := range r.Samples {
		if s.Anomaly {
			out = append(out, s)
		}
	}
	return out
}

// Histogram is a binned count of anomalous powers.
type Histogram struct {
	// Edges has len(Counts)+1 entries; bin i covers [Edges[i], Edges[i+1]).
	Edges  []float64
	Counts []float64
}

// Histogram bins the powers of the anomalous samples into n equal-width bins.
// It returns an empty histogram when there are no anomalies.
func (r *Result) Histogram(n int) Histogram {
	anomalies := r.Anomalies()
	if len(anomalies) == 0 || n < 1 {
		return Histogram{}
	}

	powers := make([]float64, len(anomalies))
	for i, s := range anomalies {
		powers[i] = s.Power
	}
	slices.Sort(powers)

	lo, hi := powers[0], powers[len(powers)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := make([]float64, n+1)
	floats.Span(edges, lo, hi)
	// stat.Histogram bins are half-open; nudge the top edge to keep the maximum.
	edges[n] = math.Nextafter(hi, math.Inf(1))

	return Histogram{
		Edges:  edges,
		Counts: stat.Histogram(nil, edges, powers, nil),
	}
}
