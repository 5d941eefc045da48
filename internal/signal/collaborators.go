// Package signal defines the narrow contracts for the external inference
// collaborators the coaching engine sequences: audience vision, speech
// transcription, vocal-delivery analysis, the coaching-language model, and
// speech synthesis. Implementations are swappable; the engine only depends on
// these interfaces and substitutes a documented fallback whenever a call
// fails.
package signal

import (
	"context"

	"github.com/thebtf/stagewhisper/pkg/models"
)

// Snapshot is the structured call state handed to the coaching-language model
// on each transcript chunk. EmotionContext and AudioContext are opaque prose
// rendered by the session summarizer.
type Snapshot struct {
	Transcript      string
	EmotionContext  string
	AudioContext    string
	Goal            string
	Persona         string
	CulturalContext string
	Presenting      string
	JargonToAvoid   []string
	TechLevel       int
}

// VisionAnalyzer reads the audience from a single image frame.
type VisionAnalyzer interface {
	// AnalyzeFrame returns the dominant emotion, a 0-100 engagement score,
	// a 0-1 confidence, and a free-text signal description for the frame.
	AnalyzeFrame(ctx context.Context, frame []byte, dealContext string) (models.EmotionResult, error)
}

// Transcriber converts raw speech audio to plain text. Implementations may be
// slow (model inference); callers must keep them off any shared critical path.
type Transcriber interface {
	// Transcribe returns the recognized text, possibly empty.
	Transcribe(ctx context.Context, pcm []float32, sampleRate int) (string, error)
}

// VocalAnalyzer extracts delivery metrics from raw PCM audio.
type VocalAnalyzer interface {
	AnalyzeChunk(pcm []float32, sampleRate int) (models.AudioResult, error)
}

// CoachingModel decides whether and how to coach given the current call state.
type CoachingModel interface {
	Decide(ctx context.Context, snap Snapshot) (models.Decision, error)
}

// Synthesizer turns a short coaching cue into audio bytes for the earpiece.
// A nil result with nil error means the cue is delivered without audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
