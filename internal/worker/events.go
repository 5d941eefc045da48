package worker

import (
	"encoding/base64"
	"time"

	"github.com/thebtf/stagewhisper/pkg/models"
)

// Wire events emitted to WebSocket clients and mirrored to SSE observers.
// Shapes and field names are the transport contract the frontend renders.

type emotionEvent struct {
	Type      string             `json:"type"`
	SessionID string             `json:"session_id,omitempty"`
	Score     float64            `json:"score"`
	Emotions  map[string]float64 `json:"emotions"`
	Signal    string             `json:"signal"`
	Timestamp string             `json:"timestamp"`
}

type transcriptEvent struct {
	Type        string   `json:"type"`
	SessionID   string   `json:"session_id,omitempty"`
	Text        string   `json:"text"`
	Timestamp   string   `json:"timestamp"`
	JargonFlags []string `json:"jargon_flags"`
}

type coachingEvent struct {
	Type       string `json:"type"`
	SessionID  string `json:"session_id,omitempty"`
	Category   string `json:"category"`
	Message    string `json:"message"`
	ViaEarbuds bool   `json:"via_earbuds"`
	Timestamp  string `json:"timestamp"`
}

type coachingAudioEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Audio     string `json:"audio"`
	Message   string `json:"message"`
}

type momentEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Label     string `json:"label"`
	Timestamp string `json:"timestamp"`
	Color     string `json:"color"`
}

type audioSignalsEvent struct {
	Type      string        `json:"type"`
	SessionID string        `json:"session_id,omitempty"`
	PaceWPM   int           `json:"pace_wpm"`
	Energy    models.Energy `json:"energy"`
	Timestamp string        `json:"timestamp"`
}

// clockStamp renders the wall-clock timestamp format the frontend displays.
func clockStamp(t time.Time) string {
	return t.Format("15:04:05")
}

func newEmotionEvent(sessionID string, r models.EmotionResult, ts time.Time) emotionEvent {
	return emotionEvent{
		Type:      "emotion",
		SessionID: sessionID,
		Score:     r.Score,
		Emotions:  r.Emotions,
		Signal:    r.Signal,
		Timestamp: clockStamp(ts),
	}
}

func newTranscriptEvent(sessionID, text string, jargonFlags []string, ts time.Time) transcriptEvent {
	if jargonFlags == nil {
		jargonFlags = []string{}
	}
	return transcriptEvent{
		Type:        "transcript",
		SessionID:   sessionID,
		Text:        text,
		Timestamp:   clockStamp(ts),
		JargonFlags: jargonFlags,
	}
}

func newCoachingEvent(sessionID string, ev models.CoachingEvent) coachingEvent {
	return coachingEvent{
		Type:       "coaching",
		SessionID:  sessionID,
		Category:   ev.Category,
		Message:    ev.Message,
		ViaEarbuds: true,
		Timestamp:  clockStamp(ev.Timestamp),
	}
}

func newCoachingAudioEvent(sessionID string, ev models.CoachingEvent) coachingAudioEvent {
	return coachingAudioEvent{
		Type:      "coaching_audio",
		SessionID: sessionID,
		Audio:     base64.StdEncoding.EncodeToString(ev.Audio),
		Message:   ev.Message,
	}
}

func newMomentEvent(sessionID string, m models.Moment) momentEvent {
	return momentEvent{
		Type:      "moment",
		SessionID: sessionID,
		Label:     m.Label,
		Timestamp: clockStamp(m.Timestamp),
		Color:     m.Color,
	}
}

func newAudioSignalsEvent(sessionID string, r models.AudioResult, ts time.Time) audioSignalsEvent {
	return audioSignalsEvent{
		Type:      "audio_signals",
		SessionID: sessionID,
		PaceWPM:   r.PaceWPM,
		Energy:    r.Energy,
		Timestamp: clockStamp(ts),
	}
}
