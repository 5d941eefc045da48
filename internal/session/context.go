package session

import (
	"fmt"
	"strings"

	"github.com/thebtf/stagewhisper/pkg/models"
)

// Rendering limits for the snapshot handed to the coaching model. The strings
// are opaque to this core; the model reads them as prose.
const (
	signalMaxChars = 120
	// Each emotion reading stands in for roughly this many seconds of call
	// time when estimating how long engagement has been depressed.
	secondsPerReading = 3
	midpointScore     = 50.0
	lowConfidence     = 0.3
)

// energyTones maps vocal energy buckets to the tone phrasing the coaching
// model was trained against.
var energyTones = map[models.Energy]string{
	models.EnergyHigh: "energetic, engaged",
	models.EnergyMed:  "steady, neutral",
	models.EnergyLow:  "flat, disengaged",
}

// emotionContext renders the latest emotion state plus trend into the prose
// snapshot consumed by the coaching model. It never fails on missing history:
// with no emotion events it returns "unknown".
func emotionContext(mem *Memory, window int) string {
	latest, ok := mem.Latest(models.EventEmotion)
	if !ok || latest.Emotion == nil {
		return "unknown"
	}
	emo := latest.Emotion

	trend, avg := EstimateTrend(recentScores(mem, window))

	var b strings.Builder
	fmt.Fprintf(&b, "%s, engagement %.0f/100, trend %s (window avg %.0f)",
		emo.DominantEmotion, emo.Score, trend, avg)

	if emo.Confidence < lowConfidence {
		b.WriteString(" (low confidence read)")
	}
	if emo.Signal != "" {
		b.WriteString(". Signal: ")
		b.WriteString(truncate(emo.Signal, signalMaxChars))
	}
	if trend == TrendFalling {
		if n := readingsBelowMidpoint(mem); n > 0 {
			fmt.Fprintf(&b, ". Engagement below 50 for ~%ds", n*secondsPerReading)
		}
	}
	return b.String()
}

// audioContext renders the latest vocal-delivery state, or "neutral" when no
// audio has been ingested yet.
func audioContext(mem *Memory) string {
	latest, ok := mem.Latest(models.EventAudio)
	if !ok || latest.Audio == nil {
		return "neutral"
	}
	tone, ok := energyTones[latest.Audio.Energy]
	if !ok {
		tone = "neutral"
	}
	return fmt.Sprintf("%s, %d WPM", tone, latest.Audio.PaceWPM)
}

// readingsBelowMidpoint counts how many consecutive most-recent emotion
// readings scored below the midpoint.
func readingsBelowMidpoint(mem *Memory) int {
	count := 0
	for _, ev := range mem.Recent(models.EventEmotion, mem.Len()) {
		if ev.Emotion == nil {
			continue
		}
		if ev.Emotion.Score < midpointScore {
			count++
		} else {
			count = 0
		}
	}
	return count
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
