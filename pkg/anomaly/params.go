package anomaly

import "fmt"

// DefaultStdThreshold is the base sigma multiplier used when none is given.
const DefaultStdThreshold = 3.0

// AgreementBelow is the power range, in dB, under which both tests must
// agree. It is independent of the tier boundaries.
const AgreementBelow = 8.0

// CombineMode says how the two per-sample verdicts are merged.
type CombineMode int

const (
	// CombineOr flags a sample when either test flags it.
	CombineOr CombineMode = iota
	// CombineAnd flags a sample only when both tests flag it.
	CombineAnd
)

func (m CombineMode) String() string {
	switch m {
	case CombineAnd:
		return "AND"
	case CombineOr:
		return "OR"
	}
	return fmt.Sprintf("CombineMode(%d)", int(m))
}

// Describe returns the human readable form shown in reports.
func (m CombineMode) Describe() string {
	if m == CombineAnd {
		return "Both methods must agree (AND)"
	}
	return "Either method can flag (OR)"
}

// MarshalText implements encoding.TextMarshaler.
func (m CombineMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m CombineMode) combine(a, b bool) bool {
	if m == CombineAnd {
		return a && b
	}
	return a || b
}

// Tier is one row of the range-adaptive parameter table.
type Tier struct {
	// From is the inclusive lower power range bound in dB.
	From float64
	// Contamination is the expected outlier fraction for the density test.
	Contamination float64
	// StdScale multiplies the base sigma threshold.
	StdScale float64
	// Stability labels scans that fall into this tier.
	Stability string
}

// Tiers is ordered by From. The last tier whose From is <= the power range wins.
var Tiers = []Tier{
	{From: 0, Contamination: 0.01, StdScale: 0.6, Stability: "Stable"},
	{From: 10, Contamination: 0.03, StdScale: 0.8, Stability: "Moderate"},
	{From: 20, Contamination: 0.05, StdScale: 1.0, Stability: "Highly Variable"},
}

// TierFor returns the tier that applies to a scan with the given power range.
func TierFor(powerRange float64) Tier {
	tier := Tiers[0]
	for _, t := range Tiers[1:] {
		if powerRange < t.From {
			break
		}
		tier = t
	}
	return tier
}

// Params are the detection parameters derived from a scan's power range.
type Params struct {
	PowerRange    float64     `json:"power_range"`
	Contamination float64     `json:"contamination"`
	StdThreshold  float64     `json:"std_threshold"`
	Mode          CombineMode `json:"combine_mode"`
	Stability     string      `json:"stability"`
}

// SelectParams derives the parameters for a power range and base sigma threshold.
func SelectParams(powerRange, stdThreshold float64) Params {
	tier := TierFor(powerRange)

	mode := CombineOr
	if powerRange < AgreementBelow {
		mode = CombineAnd
	}

	return Params{
		PowerRange:    powerRange,
		Contamination: tier.Contamination,
		StdThreshold:  tier.StdScale * stdThreshold,
		Mode:          mode,
		Stability:     tier.Stability,
	}
}
