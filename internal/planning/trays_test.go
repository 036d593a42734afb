package planning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrays(t *testing.T) {
	tests := []struct {
		units    int
		perTray  int
		expected float64
	}{
		{0, 12, 0},
		{1, 12, 0.5},
		{6, 12, 0.5},
		{7, 12, 1},
		{12, 12, 1},
		{13, 12, 1.5},
		{50, 12, 4.5},
		{30, 10, 3},
		{31, 10, 3.5},
	}
	for _, tt := range tests {
		got, ok := Trays(tt.units, tt.perTray)
		assert.True(t, ok)
		assert.Equal(t, tt.expected, got, "%d units by %d", tt.units, tt.perTray)
	}
}

func TestTraysHalfMultiples(t *testing.T) {
	for perTray := 1; perTray <= 40; perTray++ {
		for units := 0; units <= 200; units++ {
			got, ok := Trays(units, perTray)
			assert.True(t, ok)
			assert.Equal(t, got*2, math.Trunc(got*2))
			assert.GreaterOrEqual(t, got*float64(perTray), float64(units))
		}
	}
}

func TestTraysNotBaked(t *testing.T) {
	got, ok := Trays(40, 0)
	assert.False(t, ok)
	assert.Zero(t, got)
}

func TestProductionUnits(t *testing.T) {
	assert.Equal(t, 30, ProductionUnits(10, 3))
	assert.Equal(t, 10, ProductionUnits(10, 0))
}
