package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectParams(t *testing.T) {
	tests := []struct {
		name              string
		powerRange        float64
		wantContamination float64
		wantScale         float64
		wantMode          CombineMode
		wantStability     string
	}{
		{"flat", 0, 0.01, 0.6, CombineAnd, "Stable"},
		{"very stable", 7.99, 0.01, 0.6, CombineAnd, "Stable"},
		{"agreement boundary", 8, 0.01, 0.6, CombineOr, "Stable"},
		{"between boundaries", 9, 0.01, 0.6, CombineOr, "Stable"},
		{"tier boundary ten", 10, 0.03, 0.8, CombineOr, "Moderate"},
		{"moderate", 19.999, 0.03, 0.8, CombineOr, "Moderate"},
		{"tier boundary twenty", 20, 0.05, 1.0, CombineOr, "Highly Variable"},
		{"wide", 41, 0.05, 1.0, CombineOr, "Highly Variable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SelectParams(tt.powerRange, 3.0)
			assert.Equal(t, tt.powerRange, p.PowerRange)
			assert.Equal(t, tt.wantContamination, p.Contamination)
			assert.InDelta(t, tt.wantScale*3.0, p.StdThreshold, 1e-12)
			assert.Equal(t, tt.wantMode, p.Mode)
			assert.Equal(t, tt.wantStability, p.Stability)
		})
	}
}

func TestSelectParamsWideUsesBaseThreshold(t *testing.T) {
	for _, k := range []float64{0.5, 1, 2.5, 3, 10} {
		p := SelectParams(25, k)
		assert.Equal(t, k, p.StdThreshold)
		assert.Equal(t, 0.05, p.Contamination)
	}
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, Tiers[0], TierFor(-1))
	assert.Equal(t, Tiers[1], TierFor(10))
	assert.Equal(t, Tiers[2], TierFor(1e9))
}

func TestCombineMode(t *testing.T) {
	assert.True(t, CombineAnd.combine(true, true))
	assert.False(t, CombineAnd.combine(true, false))
	assert.False(t, CombineAnd.combine(false, true))
	assert.True(t, CombineOr.combine(false, true))
	assert.True(t, CombineOr.combine(true, false))
	assert.False(t, CombineOr.combine(false, false))

	assert.Equal(t, "AND", CombineAnd.String())
	assert.Equal(t, "OR", CombineOr.String())
	assert.Equal(t, "CombineMode(7)", CombineMode(7).String())
	assert.Equal(t, "Both methods must agree (AND)", CombineAnd.Describe())
	assert.Equal(t, "Either method can flag (OR)", CombineOr.Describe())

	text, err := CombineAnd.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "AND", string(text))
}
