package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thebtf/stagewhisper/pkg/models"
)

func TestParseDecisionCleanJSON(t *testing.T) {
	raw := `{"action": "whisper", "message": "say time to value", "reasoning": "jargon detected"}`

	d := ParseDecision(raw)
	assert.Equal(t, models.ActionWhisper, d.Action)
	assert.Equal(t, "say time to value", d.Message)
	assert.Equal(t, "jargon detected", d.Reasoning)
}

func TestParseDecisionCodeFenced(t *testing.T) {
	raw := "Here is my analysis:\n```json\n{\"action\": \"escalate\", \"message\": \"pause and ask a question\", \"reasoning\": \"room is drifting\"}\n```"

	d := ParseDecision(raw)
	assert.Equal(t, models.ActionEscalate, d.Action)
	assert.Equal(t, "pause and ask a question", d.Message)
}

func TestParseDecisionNullMessage(t *testing.T) {
	d := ParseDecision(`{"action": "stay_silent", "message": null, "reasoning": "all good"}`)
	assert.Equal(t, models.ActionStaySilent, d.Action)
	assert.Empty(t, d.Message)
	assert.Equal(t, "all good", d.Reasoning)
}

func TestParseDecisionGarbageStaysSilent(t *testing.T) {
	for _, raw := range []string{"", "I cannot help with that.", "{not json at all"} {
		d := ParseDecision(raw)
		assert.Equal(t, models.ActionStaySilent, d.Action)
		assert.Empty(t, d.Message)
	}
}

func TestParseDecisionUnknownAction(t *testing.T) {
	d := ParseDecision(`{"action": "shout", "message": "louder", "reasoning": "x"}`)
	assert.Equal(t, models.ActionStaySilent, d.Action)
	assert.Contains(t, d.Reasoning, "shout")
}

func TestParseFrameResponseFullReply(t *testing.T) {
	raw := "EMOTION: Confused\nSCORE: 42\nCONFIDENCE: 0.8\nSIGNAL: Two attendees checking phones."

	r := ParseFrameResponse(raw)
	assert.Equal(t, "confused", r.DominantEmotion)
	assert.Equal(t, float64(42), r.Score)
	assert.Equal(t, 0.8, r.Confidence)
	assert.Equal(t, "Two attendees checking phones.", r.Signal)
}

func TestParseFrameResponsePartialReply(t *testing.T) {
	r := ParseFrameResponse("EMOTION: engaged\nsome unformatted rambling")
	assert.Equal(t, "engaged", r.DominantEmotion)
	assert.Equal(t, float64(50), r.Score)
	assert.Equal(t, 0.5, r.Confidence)
	assert.Empty(t, r.Signal)
}

func TestParseFrameResponseRejectsOutOfRangeValues(t *testing.T) {
	r := ParseFrameResponse("SCORE: 400\nCONFIDENCE: 7.5")
	assert.Equal(t, float64(50), r.Score)
	assert.Equal(t, 0.5, r.Confidence)
}

func TestBuildDecisionPromptCarriesCallState(t *testing.T) {
	prompt := BuildDecisionPrompt(Snapshot{
		Transcript:      "our K8s operator handles failover",
		EmotionContext:  "confused, engagement 40/100",
		AudioContext:    "steady, neutral, 140 WPM",
		Goal:            "close the deal",
		Persona:         "CFO",
		CulturalContext: "US English",
		Presenting:      "platform reliability",
		JargonToAvoid:   []string{"K8s", "etcd"},
		TechLevel:       1,
	})

	assert.Contains(t, prompt, "our K8s operator handles failover")
	assert.Contains(t, prompt, "close the deal")
	assert.Contains(t, prompt, "CFO")
	assert.Contains(t, prompt, "K8s, etcd")
	assert.Contains(t, prompt, models.TechLevelLabel(1))
	assert.Contains(t, prompt, "under 15 words")
	assert.Contains(t, prompt, "JSON object")
}

func TestBuildFramePromptIncludesDealContext(t *testing.T) {
	prompt := BuildFramePrompt("Persona: CTO. Goal: renewal")
	assert.Contains(t, prompt, "Persona: CTO. Goal: renewal")
	assert.Contains(t, prompt, "EMOTION:")
	assert.Contains(t, prompt, "SCORE:")
}
