package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/stagewhisper/internal/signal"
	"github.com/thebtf/stagewhisper/pkg/models"
)

// DefaultCooldown is the minimum gap between two coaching events for one
// session, across all categories. A whisper and an escalation compete for the
// same budget so the presenter never gets rapid-fire interruptions.
const DefaultCooldown = 8 * time.Second

// Gate is the single point of truth for coaching throttling. It owns the
// last-dispatch timestamp and the pending-coaching queue for one session.
// The cooldown is measured with Go's monotonic clock, so wall-clock
// adjustments cannot reopen or extend the window.
type Gate struct {
	cooldown time.Duration
	synth    signal.Synthesizer
	now      func() time.Time

	mu      sync.Mutex
	last    time.Time
	pending []models.CoachingEvent
}

// NewGate creates a gate with the given cooldown. synth may be nil, in which
// case approved events carry no audio. now may be nil to use time.Now.
func NewGate(cooldown time.Duration, synth signal.Synthesizer, now func() time.Time) *Gate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &Gate{cooldown: cooldown, synth: synth, now: now}
}

// TryDispatch applies the cooldown to a candidate cue. Rejected candidates
// return nil with no state change. Accepted candidates advance the cooldown
// stamp immediately, get speech synthesized (failure means no audio, never a
// lost cue), and are queued for exactly-once delivery via Drain.
//
// The cooldown stamp is advanced before synthesis so a slow synthesizer can
// never let a second cue slip through the window.
func (g *Gate) TryDispatch(ctx context.Context, message, category string, jargonFlags []string) *models.CoachingEvent {
	g.mu.Lock()
	now := g.now()
	if !g.last.IsZero() && now.Sub(g.last) < g.cooldown {
		g.mu.Unlock()
		log.Debug().
			Str("category", category).
			Dur("sinceLast", now.Sub(g.last)).
			Dur("cooldown", g.cooldown).
			Msg("Coaching suppressed by cooldown")
		return nil
	}
	g.last = now
	g.mu.Unlock()

	var audio []byte
	if g.synth != nil {
		var err error
		audio, err = g.synth.Synthesize(ctx, message)
		if err != nil {
			log.Warn().Err(err).Msg("Speech synthesis failed, delivering cue without audio")
			audio = nil
		}
	}

	ev := models.CoachingEvent{
		Category:    category,
		Message:     message,
		JargonFlags: jargonFlags,
		Audio:       audio,
		Timestamp:   now,
	}

	g.mu.Lock()
	g.pending = append(g.pending, ev)
	g.mu.Unlock()

	log.Info().Str("category", category).Str("message", message).Msg("Coaching dispatched")
	return &ev
}

// Drain atomically returns and clears the pending coaching queue. Two
// consecutive drains never lose or duplicate an event.
func (g *Gate) Drain() []models.CoachingEvent {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := g.pending
	g.pending = nil
	return out
}
