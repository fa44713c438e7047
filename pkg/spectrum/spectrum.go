// Package spectrum defines the power spectrum samples produced by an SDR scan.
package spectrum

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Sample is a single frequency bin of a power scan.
type Sample struct {
	// Frequency is the bin centre in Hz.
	Frequency float64 `json:"frequency_hz"`
	// Power is the measured power spectral density in dB/Hz.
	Power float64 `json:"power_db_hz"`
}

// Scan is an ordered sequence of samples in the bin order of the scan.
type Scan []Sample

// Powers returns the power column of the scan.
func (s Scan) Powers() []float64 {
	out := make([]float64, len(s))
	for i, sample := range s {
		out[i] = sample.Power
	}
	return out
}

// Frequencies returns the frequency column of the scan.
func (s Scan) Frequencies() []float64 {
	out := make([]float64, len(s))
	for i, sample := range s {
		out[i] = sample.Frequency
	}
	return out
}

// PowerBounds returns the minimum and maximum power of the scan.
// Both are NaN for an empty scan.
func (s Scan) PowerBounds() (lo, hi float64) {
	if len(s) == 0 {
		return math.NaN(), math.NaN()
	}
	powers := s.Powers()
	return floats.Min(powers), floats.Max(powers)
}

// PowerRange returns max(power) - min(power).
func (s Scan) PowerRange() float64 {
	lo, hi := s.PowerBounds()
	return hi - lo
}

// Clone returns a copy of the scan that shares no memory with s.
func (s Scan) Clone() Scan {
	if s == nil {
		return nil
	}
	out := make(Scan, len(s))
	copy(out, s)
	return out
}
