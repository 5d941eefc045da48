package worker

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/stagewhisper/pkg/models"
)

func TestClockStamp(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 5, 3, 0, time.UTC)
	assert.Equal(t, "09:05:03", clockStamp(ts))
}

func TestTranscriptEventCoercesNilJargonFlags(t *testing.T) {
	ev := newTranscriptEvent("s1", "hello", nil, time.Now())
	require.NotNil(t, ev.JargonFlags)

	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"jargon_flags":[]`)
}

func TestCoachingEventsCarryAudioSeparately(t *testing.T) {
	src := models.CoachingEvent{
		Category:  models.CategoryJargonAlert,
		Message:   "simplify",
		Audio:     []byte("wav-bytes"),
		Timestamp: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}

	coaching := newCoachingEvent("s1", src)
	assert.Equal(t, "coaching", coaching.Type)
	assert.True(t, coaching.ViaEarbuds)
	assert.Equal(t, "10:00:00", coaching.Timestamp)

	// Raw audio never rides the coaching event; it gets its own message.
	payload, err := json.Marshal(coaching)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "wav-bytes")

	audio := newCoachingAudioEvent("s1", src)
	assert.Equal(t, "coaching_audio", audio.Type)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("wav-bytes")), audio.Audio)
	assert.Equal(t, "simplify", audio.Message)
}
