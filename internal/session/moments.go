package session

import (
	"time"

	"github.com/thebtf/stagewhisper/pkg/models"
)

// Engagement score bands for moment detection.
const (
	dropScore = 30.0
	peakScore = 80.0

	momentPreviewChars = 40
)

// engagementMoment flags a freshly ingested emotion score as a timeline
// moment. A sub-30 score while falling is a sharp drop; sub-30 otherwise is a
// plain drop; above 80 is a peak. Scores in between produce nothing. Moments
// are never deduplicated: every qualifying reading gets its own marker.
func engagementMoment(score float64, trend Trend, ts time.Time) (models.Moment, bool) {
	switch {
	case score < dropScore && trend == TrendFalling:
		return models.Moment{Label: "Sharp engagement drop", Color: models.ColorRed, Timestamp: ts}, true
	case score < dropScore:
		return models.Moment{Label: "Engagement dipping", Color: models.ColorAmber, Timestamp: ts}, true
	case score > peakScore:
		return models.Moment{Label: "Engagement peak", Color: models.ColorGreen, Timestamp: ts}, true
	}
	return models.Moment{}, false
}

// coachingMoment marks an approved dispatch on the timeline: whispers as
// jargon coaching (with a message preview), escalations as re-engagement.
func coachingMoment(action models.Action, message string, ts time.Time) (models.Moment, bool) {
	switch action {
	case models.ActionWhisper:
		return models.Moment{
			Label:     "Coached: " + truncate(message, momentPreviewChars),
			Color:     models.ColorBlue,
			Timestamp: ts,
		}, true
	case models.ActionEscalate:
		return models.Moment{
			Label:     "Escalated: re-engage the room",
			Color:     models.ColorAmber,
			Timestamp: ts,
		}, true
	}
	return models.Moment{}, false
}
