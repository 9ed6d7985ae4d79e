package scran

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTechTrendResolve(t *testing.T) {
	tv := TechTrend(func(mean float64) float64 { return mean * 2 })

	tech, err := tv.resolve([]int{0, 2}, 3, []float64{1.5, -0.5}, []float64{10, 10})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, -1}, tech)
}

func TestTechValuesResolve(t *testing.T) {
	tv := TechValues([]float64{0.1, 0.2, 0.3, 0.4})

	// Indexed by the original gene index, not the subset position.
	tech, err := tv.resolve([]int{3, 1}, 4, []float64{0, 0}, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.4, 0.2}, tech)
}

func TestTechValuesLengthMismatch(t *testing.T) {
	tv := TechValues([]float64{0.1})

	_, err := tv.resolve([]int{0}, 4, []float64{0}, []float64{0})
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 4, dm.Expected)
	assert.Equal(t, 1, dm.Actual)
}

func TestTechStatsRescaling(t *testing.T) {
	tests := []struct {
		name     string
		stats    VarianceStats
		observed float64
		want     float64
	}{
		// Matching totals leave the reported technical variance alone.
		{"Consistent", VarianceStats{Total: 4, Tech: 1}, 4, 1},
		// A larger observed total scales the technical part up.
		{"ScaledUp", VarianceStats{Total: 2, Tech: 1}, 4, 2},
		{"ScaledDown", VarianceStats{Total: 8, Tech: 2}, 4, 1},
		// Both totals zero: nothing to scale, no noise.
		{"BothZero", VarianceStats{Total: 0, Tech: 0}, 0, 0},
		// Observed signal with no reported total: unreliable, excluded
		// later via +Inf.
		{"ReportedZero", VarianceStats{Total: 0, Tech: 0}, 3, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tv := TechStats([]VarianceStats{tt.stats})
			tech, err := tv.resolve([]int{0}, 1, []float64{0}, []float64{tt.observed})
			require.NoError(t, err)
			assert.Equal(t, tt.want, tech[0])
		})
	}
}

func TestTechStatsLengthMismatch(t *testing.T) {
	tv := TechStats([]VarianceStats{{Total: 1, Tech: 1}})

	_, err := tv.resolve([]int{0, 1}, 2, []float64{0, 0}, []float64{0, 0})
	var dm *ErrDimensionMismatch
	assert.ErrorAs(t, err, &dm)
}

func TestZeroValueTechnicalVariance(t *testing.T) {
	var tv TechnicalVariance

	_, err := tv.resolve([]int{0}, 1, []float64{0}, []float64{0})
	assert.ErrorIs(t, err, ErrNoTechnicalVariance)
}
