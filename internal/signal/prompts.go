package signal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/thebtf/stagewhisper/pkg/models"
)

// BuildDecisionPrompt renders the call-state snapshot into the coaching
// model's prompt. The model is expected to answer with a JSON object carrying
// action, message, and reasoning.
func BuildDecisionPrompt(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("You are a real-time sales coaching agent. Analyze the following sales call state and decide what action to take.\n\n")
	fmt.Fprintf(&b, "Transcript: %s\n", snap.Transcript)
	fmt.Fprintf(&b, "Client emotion: %s\n", snap.EmotionContext)
	fmt.Fprintf(&b, "Audio tone: %s\n", snap.AudioContext)
	fmt.Fprintf(&b, "Call goal: %s\n", snap.Goal)
	fmt.Fprintf(&b, "Persona: %s\n", snap.Persona)
	fmt.Fprintf(&b, "Audience technical level: %s\n", models.TechLevelLabel(snap.TechLevel))
	if snap.Presenting != "" {
		fmt.Fprintf(&b, "Topic being presented: %s\n", snap.Presenting)
	}
	if len(snap.JargonToAvoid) > 0 {
		fmt.Fprintf(&b, "Jargon to avoid with this audience: %s\n", strings.Join(snap.JargonToAvoid, ", "))
	}
	fmt.Fprintf(&b, "Cultural context: %s\n", snap.CulturalContext)
	b.WriteString("\nIf the presenter used jargon the audience won't understand, action should be \"whisper\" with a simpler alternative.\n")
	b.WriteString("If engagement is dropping, action should be \"escalate\" with advice to re-engage.\n")
	b.WriteString("Keep any message under 15 words; it is whispered into the presenter's earpiece.\n")
	b.WriteString("\nRespond with a JSON object containing: action (whisper/stay_silent/log_insight/escalate), message (string or null), reasoning (string).")
	return b.String()
}

// BuildFramePrompt renders the vision prompt for one audience frame.
func BuildFramePrompt(dealContext string) string {
	var b strings.Builder
	b.WriteString("Analyze this audience during a sales presentation.\n")
	fmt.Fprintf(&b, "Deal context: %s\n", dealContext)
	b.WriteString("Describe: 1) dominant emotion, 2) engagement level 0-100,\n")
	b.WriteString("3) any confusion or disengagement signals.\n")
	b.WriteString("Be concise. Format:\n")
	b.WriteString("EMOTION: <word>\n")
	b.WriteString("SCORE: <number>\n")
	b.WriteString("CONFIDENCE: <0-1>\n")
	b.WriteString("SIGNAL: <one sentence observation>")
	return b.String()
}

// rawDecision tolerates null messages and unknown fields in model output.
type rawDecision struct {
	Action    string  `json:"action"`
	Message   *string `json:"message"`
	Reasoning string  `json:"reasoning"`
}

// ParseDecision extracts the decision JSON from raw model output, which may
// be wrapped in prose or code fences. Anything non-parseable degrades to
// stay_silent with the raw text preserved in the reasoning.
func ParseDecision(raw string) models.Decision {
	start := strings.Index(raw, "{")
	if start < 0 {
		return models.SilentDecision("model returned non-JSON: " + truncateRaw(raw))
	}

	var parsed rawDecision
	if err := json.Unmarshal([]byte(raw[start:]), &parsed); err != nil {
		end := strings.LastIndex(raw, "}")
		if end <= start {
			return models.SilentDecision("model returned non-JSON: " + truncateRaw(raw))
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
			return models.SilentDecision("model returned non-JSON: " + truncateRaw(raw))
		}
	}

	decision := models.Decision{Action: models.Action(parsed.Action), Reasoning: parsed.Reasoning}
	if parsed.Message != nil {
		decision.Message = *parsed.Message
	}
	switch decision.Action {
	case models.ActionWhisper, models.ActionStaySilent, models.ActionLogInsight, models.ActionEscalate:
	default:
		return models.SilentDecision("model returned unknown action: " + parsed.Action)
	}
	return decision
}

var (
	emotionRe    = regexp.MustCompile(`EMOTION:\s*(\w+)`)
	scoreRe      = regexp.MustCompile(`SCORE:\s*(\d+)`)
	confidenceRe = regexp.MustCompile(`CONFIDENCE:\s*([0-9.]+)`)
	signalRe     = regexp.MustCompile(`SIGNAL:\s*(.+)`)
)

// ParseFrameResponse pulls the structured emotion read out of the vision
// model's formatted reply. Missing lines fall back field by field to the
// neutral read; a parsed line with no confidence gets a middling 0.5 so it is
// not mistaken for a failed call.
func ParseFrameResponse(raw string) models.EmotionResult {
	result := models.NeutralEmotion()
	result.Confidence = 0.5

	if m := emotionRe.FindStringSubmatch(raw); m != nil {
		result.DominantEmotion = strings.ToLower(m[1])
	}
	if m := scoreRe.FindStringSubmatch(raw); m != nil {
		if score, err := strconv.ParseFloat(m[1], 64); err == nil && score >= 0 && score <= 100 {
			result.Score = score
		}
	}
	if m := confidenceRe.FindStringSubmatch(raw); m != nil {
		if conf, err := strconv.ParseFloat(m[1], 64); err == nil && conf >= 0 && conf <= 1 {
			result.Confidence = conf
		}
	}
	if m := signalRe.FindStringSubmatch(raw); m != nil {
		result.Signal = strings.TrimSpace(m[1])
	}
	return result
}

func truncateRaw(raw string) string {
	if len(raw) > 200 {
		return raw[:200]
	}
	return raw
}
