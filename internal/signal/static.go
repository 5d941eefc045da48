package signal

import (
	"context"

	"github.com/thebtf/stagewhisper/pkg/models"
)

// Static collaborators return the documented fallbacks unconditionally. They
// stand in when no inference backend is configured: sessions run degraded but
// valid, exactly as if every model call had failed.

// StaticVision always reports the neutral audience read.
type StaticVision struct{}

func (StaticVision) AnalyzeFrame(context.Context, []byte, string) (models.EmotionResult, error) {
	return models.NeutralEmotion(), nil
}

// StaticTranscriber never hears anything; downstream transcript processing is
// skipped on empty text.
type StaticTranscriber struct{}

func (StaticTranscriber) Transcribe(context.Context, []float32, int) (string, error) {
	return "", nil
}

// StaticCoach always stays silent.
type StaticCoach struct{}

func (StaticCoach) Decide(context.Context, Snapshot) (models.Decision, error) {
	return models.SilentDecision("coaching model disabled"), nil
}

// BeepSynthesizer delivers every cue as the notification beep.
type BeepSynthesizer struct{}

func (BeepSynthesizer) Synthesize(context.Context, string) ([]byte, error) {
	return BeepWAV(), nil
}
