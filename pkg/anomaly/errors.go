package anomaly

import "fmt"

// InsufficientDataError is returned when a scan cannot support a sample
// standard deviation: fewer than two samples, or no finite power at all.
type InsufficientDataError struct {
	Samples int
	Finite  int
}

func (e *InsufficientDataError) Error() string {
	if e.Samples >= 2 {
		return fmt.Sprintf("anomaly: insufficient data: none of %d power values are finite", e.Samples)
	}
	return fmt.Sprintf("anomaly: insufficient data: need at least 2 samples, got %d", e.Samples)
}

// InvalidParameterError is returned for a parameter outside its domain.
type InvalidParameterError struct {
	Name  string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("anomaly: invalid %s %g: must be a positive finite number", e.Name, e.Value)
}

// InvalidSampleError is returned when a sample carries a non-finite value,
// or a power so extreme that the scan statistics overflow.
type InvalidSampleError struct {
	Index int
	Field string
	Value float64
	// Reason overrides the default "is not finite".
	Reason string
}

func (e *InvalidSampleError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "is not finite"
	}
	return fmt.Sprintf("anomaly: sample %d: %s %g %s", e.Index, e.Field, e.Value, reason)
}
