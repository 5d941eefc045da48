// Package models contains domain models for stagewhisper.
package models

import "time"

// EventKind identifies which collaborator produced a signal event.
type EventKind string

const (
	EventEmotion    EventKind = "emotion"
	EventAudio      EventKind = "audio"
	EventTranscript EventKind = "transcript"
)

// EmotionResult is the vision collaborator's read of the audience for one frame.
type EmotionResult struct {
	DominantEmotion string             `json:"dominant_emotion"`
	Score           float64            `json:"score"`
	Confidence      float64            `json:"confidence"`
	Emotions        map[string]float64 `json:"emotions"`
	Signal          string             `json:"signal"`
}

// NeutralEmotion is the documented fallback when vision inference fails.
func NeutralEmotion() EmotionResult {
	return EmotionResult{
		DominantEmotion: "neutral",
		Score:           50,
		Confidence:      0,
		Emotions: map[string]float64{
			"engaged":     10,
			"neutral":     60,
			"confused":    10,
			"checked_out": 20,
		},
	}
}

// Energy buckets the presenter's vocal energy.
type Energy string

const (
	EnergyHigh Energy = "HIGH"
	EnergyMed  Energy = "MED"
	EnergyLow  Energy = "LOW"
)

// AudioResult carries vocal-delivery metrics for one audio chunk.
type AudioResult struct {
	Energy        Energy  `json:"energy"`
	PaceWPM       int     `json:"pace_wpm"`
	PitchVariance float64 `json:"pitch_variance"`
	RMS           float64 `json:"rms,omitempty"`
}

// NeutralAudio is the documented fallback when vocal analysis fails or the
// chunk is too short to analyze.
func NeutralAudio() AudioResult {
	return AudioResult{Energy: EnergyMed, PaceWPM: 130, PitchVariance: 0.5}
}

// Action is what the coaching-language model recommends for the current state.
type Action string

const (
	ActionWhisper    Action = "whisper"
	ActionStaySilent Action = "stay_silent"
	ActionLogInsight Action = "log_insight"
	ActionEscalate   Action = "escalate"
)

// Decision is the coaching-language model's structured output.
type Decision struct {
	Action    Action `json:"action"`
	Message   string `json:"message,omitempty"`
	Reasoning string `json:"reasoning"`
}

// SilentDecision is the fallback when the model errors or returns garbage.
func SilentDecision(reasoning string) Decision {
	return Decision{Action: ActionStaySilent, Reasoning: reasoning}
}

// TranscriptEntry pairs a transcript chunk with the decision it produced.
type TranscriptEntry struct {
	Text        string   `json:"text"`
	Decision    Decision `json:"decision"`
	JargonFlags []string `json:"jargon_flags,omitempty"`
}

// SignalEvent is one immutable entry in a session's event memory. Exactly one
// of the payload fields is set, matching Kind.
type SignalEvent struct {
	Kind       EventKind        `json:"kind"`
	Timestamp  time.Time        `json:"timestamp"`
	Emotion    *EmotionResult   `json:"emotion,omitempty"`
	Audio      *AudioResult     `json:"audio,omitempty"`
	Transcript *TranscriptEntry `json:"transcript,omitempty"`
}

// Coaching categories. The gate treats all categories as one throttle budget.
const (
	CategoryJargonAlert    = "JARGON_ALERT"
	CategoryEngagementDrop = "ENGAGEMENT_DROP"
)

// CoachingEvent is an approved, throttled cue queued for earpiece delivery.
type CoachingEvent struct {
	Category    string    `json:"category"`
	Message     string    `json:"message"`
	JargonFlags []string  `json:"jargon_flags,omitempty"`
	Audio       []byte    `json:"-"`
	Timestamp   time.Time `json:"timestamp"`
}

// Moment colors follow the debrief timeline palette.
const (
	ColorRed   = "red"
	ColorAmber = "amber"
	ColorGreen = "green"
	ColorBlue  = "blue"
)

// Moment is a lightweight annotation of a notable engagement change.
type Moment struct {
	Label     string    `json:"label"`
	Color     string    `json:"color"`
	Timestamp time.Time `json:"timestamp"`
}
