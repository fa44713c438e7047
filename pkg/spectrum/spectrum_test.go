package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPowerRange(t *testing.T) {
	scan := Scan{{1, -50}, {2, -51}, {3, -49}, {4, -50}, {5, -10}}

	lo, hi := scan.PowerBounds()
	assert.Equal(t, -51.0, lo)
	assert.Equal(t, -10.0, hi)
	assert.Equal(t, 41.0, scan.PowerRange())
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, scan.Frequencies())
}

func TestPowerBoundsEmpty(t *testing.T) {
	lo, hi := Scan{}.PowerBounds()
	assert.True(t, math.IsNaN(lo))
	assert.True(t, math.IsNaN(hi))
}

func TestClone(t *testing.T) {
	scan := Scan{{1, -50}, {2, -40}}
	clone := scan.Clone()
	clone[0].Power = 0

	assert.Equal(t, -50.0, scan[0].Power)
	assert.Nil(t, Scan(nil).Clone())
}
