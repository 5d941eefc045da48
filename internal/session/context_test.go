package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thebtf/stagewhisper/pkg/models"
)

func appendEmotion(mem *Memory, emo models.EmotionResult) {
	mem.Append(models.SignalEvent{Kind: models.EventEmotion, Timestamp: time.Now(), Emotion: &emo})
}

func TestEmotionContextDefaultsToUnknown(t *testing.T) {
	mem := NewMemory(10)
	assert.Equal(t, "unknown", emotionContext(mem, DefaultTrendWindow))
}

func TestAudioContextDefaultsToNeutral(t *testing.T) {
	mem := NewMemory(10)
	assert.Equal(t, "neutral", audioContext(mem))
}

func TestEmotionContextRendersLatestReadAndTrend(t *testing.T) {
	mem := NewMemory(10)
	appendEmotion(mem, models.EmotionResult{DominantEmotion: "confused", Score: 35, Confidence: 0.9})

	ctx := emotionContext(mem, DefaultTrendWindow)
	assert.Contains(t, ctx, "confused, engagement 35/100")
	assert.Contains(t, ctx, "trend stable")
	assert.NotContains(t, ctx, "low confidence")
}

func TestEmotionContextFlagsLowConfidence(t *testing.T) {
	mem := NewMemory(10)
	appendEmotion(mem, models.EmotionResult{DominantEmotion: "neutral", Score: 50, Confidence: 0.1})

	assert.Contains(t, emotionContext(mem, DefaultTrendWindow), "low confidence read")
}

func TestEmotionContextTruncatesSignal(t *testing.T) {
	mem := NewMemory(10)
	appendEmotion(mem, models.EmotionResult{
		DominantEmotion: "neutral",
		Score:           60,
		Confidence:      0.8,
		Signal:          strings.Repeat("x", 500),
	})

	ctx := emotionContext(mem, DefaultTrendWindow)
	assert.Contains(t, ctx, "Signal: ")
	assert.Less(t, len(ctx), 300)
}

func TestEmotionContextEstimatesTimeBelowMidpointWhileFalling(t *testing.T) {
	mem := NewMemory(10)
	for _, score := range []float64{80, 75, 40, 35, 30} {
		appendEmotion(mem, models.EmotionResult{DominantEmotion: "checked_out", Score: score, Confidence: 0.9})
	}

	// Three consecutive sub-50 readings at ~3s each.
	ctx := emotionContext(mem, DefaultTrendWindow)
	assert.Contains(t, ctx, "trend falling")
	assert.Contains(t, ctx, "below 50 for ~9s")
}

func TestEmotionContextOmitsDurationWhenNotFalling(t *testing.T) {
	mem := NewMemory(10)
	for _, score := range []float64{40, 42, 41, 43, 42} {
		appendEmotion(mem, models.EmotionResult{DominantEmotion: "neutral", Score: score, Confidence: 0.9})
	}

	ctx := emotionContext(mem, DefaultTrendWindow)
	assert.Contains(t, ctx, "trend stable")
	assert.NotContains(t, ctx, "below 50 for")
}

func TestAudioContextMapsEnergyToTone(t *testing.T) {
	tests := []struct {
		energy models.Energy
		want   string
	}{
		{models.EnergyHigh, "energetic, engaged, 150 WPM"},
		{models.EnergyMed, "steady, neutral, 150 WPM"},
		{models.EnergyLow, "flat, disengaged, 150 WPM"},
	}

	for _, tt := range tests {
		mem := NewMemory(10)
		result := models.AudioResult{Energy: tt.energy, PaceWPM: 150}
		mem.Append(models.SignalEvent{Kind: models.EventAudio, Timestamp: time.Now(), Audio: &result})
		assert.Equal(t, tt.want, audioContext(mem))
	}
}
