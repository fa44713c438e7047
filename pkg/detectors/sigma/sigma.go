// Package sigma implements the two-sided standard deviation outlier test.
package sigma

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrTooFewValues is returned when the sample standard deviation is undefined.
var ErrTooFewValues = errors.New("sigma: need at least two values")

// Result is the outcome of a sigma test over one series.
type Result struct {
	Mean float64
	// StdDev is the sample (n-1) standard deviation.
	StdDev float64
	// K is the multiplier the test was run with.
	K     float64
	Flags []bool
	Count int
}

// Lower returns the lower acceptance bound mean - K*StdDev.
func (r Result) Lower() float64 { return r.Mean - r.K*r.StdDev }

// Upper returns the upper acceptance bound mean + K*StdDev.
func (r Result) Upper() float64 { return r.Mean + r.K*r.StdDev }

// Test flags every value lying more than k sample standard deviations away
// from the mean, in either direction. A zero standard deviation flags nothing.
func Test(values []float64, k float64) (Result, error) {
	if len(values) < 2 {
		return Result{}, ErrTooFewValues
	}
	if k <= 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return Result{}, fmt.Errorf("sigma: multiplier must be positive and finite: %g", k)
	}

	mean, std := stat.MeanStdDev(values, nil)
	res := Result{
		Mean:   mean,
		StdDev: std,
		K:      k,
		Flags:  make([]bool, len(values)),
	}
	if std == 0 {
		return res, nil
	}

	lo, hi := res.Lower(), res.Upper()
	for i, v := range values {
		if v > hi || v < lo {
			res.Flags[i] = true
			res.Count++
		}
	}
	return res, nil
}

// ZScores standardises values to zero mean and unit population variance.
// A constant series maps to all zeros.
func ZScores(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if std == 0 {
		std = 1
	}
	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}
