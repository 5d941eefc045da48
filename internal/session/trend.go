package session

import (
	"gonum.org/v1/gonum/stat"

	"github.com/thebtf/stagewhisper/pkg/models"
)

// Trend classifies the short-horizon direction of audience engagement.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// DefaultTrendWindow is how many recent emotion readings feed the estimate.
const DefaultTrendWindow = 5

// trendThreshold is the half-window mean difference needed to call a
// direction. Deliberately coarse: the trend gates coaching urgency, it is not
// an analytical signal.
const trendThreshold = 8.0

// EstimateTrend splits the score window in half (integer floor for the first
// half), compares the half means, and classifies the difference. It also
// returns the overall window mean. With no scores it reports the midpoint;
// with one score, that score. Direction is only meaningful from 2 scores up.
func EstimateTrend(scores []float64) (Trend, float64) {
	switch len(scores) {
	case 0:
		return TrendStable, 50.0
	case 1:
		return TrendStable, scores[0]
	}

	mid := len(scores) / 2
	diff := stat.Mean(scores[mid:], nil) - stat.Mean(scores[:mid], nil)
	avg := stat.Mean(scores, nil)

	switch {
	case diff > trendThreshold:
		return TrendRising, avg
	case diff < -trendThreshold:
		return TrendFalling, avg
	default:
		return TrendStable, avg
	}
}

// recentScores extracts the scores of the last n emotion events in arrival
// order.
func recentScores(mem *Memory, n int) []float64 {
	events := mem.Recent(models.EventEmotion, n)
	scores := make([]float64, 0, len(events))
	for _, ev := range events {
		if ev.Emotion != nil {
			scores = append(scores, ev.Emotion.Score)
		}
	}
	return scores
}
