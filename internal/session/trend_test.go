package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTrendClassification(t *testing.T) {
	tests := []struct {
		name    string
		scores  []float64
		trend   Trend
		average float64
	}{
		{"empty window defaults to midpoint", nil, TrendStable, 50.0},
		{"single score is stable at that score", []float64{72}, TrendStable, 72},
		{"flat sequence is stable", []float64{50, 50, 50, 50, 50}, TrendStable, 50},
		{"collapse is falling", []float64{90, 90, 90, 10, 10, 10}, TrendFalling, 50},
		{"recovery is rising", []float64{10, 10, 10, 90, 90, 90}, TrendRising, 50},
		{"small wobble stays stable", []float64{50, 55, 48, 52, 50}, TrendStable, 51},
		{"odd window floors the first half", []float64{80, 75, 20, 15, 10}, TrendFalling, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend, avg := EstimateTrend(tt.scores)
			assert.Equal(t, tt.trend, trend)
			assert.InDelta(t, tt.average, avg, 0.01)
		})
	}
}

func TestEstimateTrendThresholdIsSymmetric(t *testing.T) {
	// A half-mean difference of exactly 8 is stable in both directions; just
	// past it flips.
	trend, _ := EstimateTrend([]float64{50, 58})
	assert.Equal(t, TrendStable, trend)

	trend, _ = EstimateTrend([]float64{58, 50})
	assert.Equal(t, TrendStable, trend)

	trend, _ = EstimateTrend([]float64{50, 58.1})
	assert.Equal(t, TrendRising, trend)

	trend, _ = EstimateTrend([]float64{58.1, 50})
	assert.Equal(t, TrendFalling, trend)
}
