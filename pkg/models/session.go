package models

import "time"

// TechLevelLabels maps the audience technical-level tier to the description
// handed to the coaching model.
var TechLevelLabels = map[int]string{
	0: "Non-technical (avoid all jargon)",
	1: "Business (high-level concepts only)",
	2: "Mixed (some technical terms OK)",
	3: "Technical (comfortable with specifics)",
	4: "Engineer (deep technical detail OK)",
}

// TechLevelLabel returns the label for a tier, defaulting to the mixed tier
// for out-of-range values.
func TechLevelLabel(level int) string {
	if label, ok := TechLevelLabels[level]; ok {
		return label
	}
	return TechLevelLabels[2]
}

// SessionContext is the caller-supplied setup for one coaching engagement.
type SessionContext struct {
	Persona         string   `json:"persona"`
	Goal            string   `json:"goal"`
	CulturalContext string   `json:"cultural_context"`
	Presenting      string   `json:"presenting"`
	JargonToAvoid   []string `json:"jargon_to_avoid,omitempty"`
	TechLevel       int      `json:"tech_level"`
}

// Defaulted fills empty fields with the values the coaching model was tuned
// against so a sparse setup form still produces a usable session.
func (c SessionContext) Defaulted() SessionContext {
	if c.Persona == "" {
		c.Persona = "CFO"
	}
	if c.Goal == "" {
		c.Goal = "close the deal"
	}
	if c.CulturalContext == "" {
		c.CulturalContext = "US English"
	}
	return c
}

// Debrief is the end-of-session replay: everything ingested, in arrival order.
type Debrief struct {
	SessionID  string         `json:"session_id"`
	EventCount int            `json:"event_count"`
	History    []SignalEvent  `json:"history"`
	Context    SessionContext `json:"context"`
	StartedAt  time.Time      `json:"started_at"`
	EndedAt    time.Time      `json:"ended_at"`
}
