package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/stagewhisper/internal/signal"
	"github.com/thebtf/stagewhisper/pkg/models"
)

// Collaborators bundles the external inference dependencies one session
// sequences. Any of them may be nil; a nil collaborator behaves like a failed
// call and yields its documented fallback.
type Collaborators struct {
	Vision signal.VisionAnalyzer
	Vocal  signal.VocalAnalyzer
	Coach  signal.CoachingModel
	Synth  signal.Synthesizer
}

// Config tunes one session's engine. Zero values select the defaults.
type Config struct {
	MemoryCapacity int
	TrendWindow    int
	Cooldown       time.Duration
	Clock          func() time.Time
}

// DecisionOutcome reports a transcript ingestion: the (possibly fallback)
// decision and whether the gate actually let a coaching event through.
type DecisionOutcome struct {
	Decision   models.Decision
	Dispatched bool
}

// Orchestrator owns all state for one coaching session and drives the signal
// pipeline: ingest, remember, estimate, gate, annotate. One orchestrator per
// session; sessions share nothing.
//
// Ingestion calls for a single session must be submitted sequentially (the
// transport routes each session through one connection goroutine); the
// internal mutex protects the memory and moment queue, and is never held
// across a collaborator call.
type Orchestrator struct {
	id        string
	sctx      models.SessionContext
	startedAt time.Time
	window    int
	clock     func() time.Time
	collab    Collaborators
	gate      *Gate

	mu             sync.Mutex
	memory         *Memory
	pendingMoments []models.Moment
}

// New creates the orchestrator for a freshly started session.
func New(id string, sctx models.SessionContext, collab Collaborators, cfg Config) *Orchestrator {
	if cfg.TrendWindow <= 0 {
		cfg.TrendWindow = DefaultTrendWindow
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Orchestrator{
		id:        id,
		sctx:      sctx.Defaulted(),
		startedAt: cfg.Clock(),
		window:    cfg.TrendWindow,
		clock:     cfg.Clock,
		collab:    collab,
		gate:      NewGate(cfg.Cooldown, collab.Synth, cfg.Clock),
		memory:    NewMemory(cfg.MemoryCapacity),
	}
}

// ID returns the session identifier.
func (o *Orchestrator) ID() string { return o.id }

// Context returns the session's original setup context.
func (o *Orchestrator) Context() models.SessionContext { return o.sctx }

// IngestFrame runs the vision collaborator on a camera frame, remembers the
// result, and flags any engagement moment. Vision failure degrades to the
// neutral read; ingestion never errors.
func (o *Orchestrator) IngestFrame(ctx context.Context, frame []byte) models.EmotionResult {
	dealContext := fmt.Sprintf("Persona: %s. Goal: %s", o.sctx.Persona, o.sctx.Goal)

	result := models.NeutralEmotion()
	if o.collab.Vision != nil {
		r, err := o.collab.Vision.AnalyzeFrame(ctx, frame, dealContext)
		if err != nil {
			log.Warn().Err(err).Str("session", o.id).Msg("Vision inference failed, using neutral read")
		} else {
			result = r
		}
	}

	ts := o.clock()
	o.mu.Lock()
	o.memory.Append(models.SignalEvent{Kind: models.EventEmotion, Timestamp: ts, Emotion: &result})
	trend, _ := EstimateTrend(recentScores(o.memory, o.window))
	if m, ok := engagementMoment(result.Score, trend, ts); ok {
		o.pendingMoments = append(o.pendingMoments, m)
	}
	o.mu.Unlock()

	return result
}

// IngestAudio runs the vocal-delivery analyzer on a PCM chunk and remembers
// the metrics. Vocal metrics feed context only; no coaching or moment logic
// runs here.
func (o *Orchestrator) IngestAudio(ctx context.Context, pcm []float32, sampleRate int) models.AudioResult {
	result := models.NeutralAudio()
	if o.collab.Vocal != nil {
		r, err := o.collab.Vocal.AnalyzeChunk(pcm, sampleRate)
		if err != nil {
			log.Warn().Err(err).Str("session", o.id).Msg("Vocal analysis failed, using neutral metrics")
		} else {
			result = r
		}
	}

	o.mu.Lock()
	o.memory.Append(models.SignalEvent{Kind: models.EventAudio, Timestamp: o.clock(), Audio: &result})
	o.mu.Unlock()

	return result
}

// IngestTranscript builds the call-state snapshot from current memory, asks
// the coaching model for a decision, remembers the exchange, and routes
// whisper/escalate recommendations through the gate. A model failure defaults
// to stay_silent; the session stays usable either way.
func (o *Orchestrator) IngestTranscript(ctx context.Context, text string) DecisionOutcome {
	o.mu.Lock()
	snap := signal.Snapshot{
		Transcript:      text,
		EmotionContext:  emotionContext(o.memory, o.window),
		AudioContext:    audioContext(o.memory),
		Goal:            o.sctx.Goal,
		Persona:         o.sctx.Persona,
		CulturalContext: o.sctx.CulturalContext,
		Presenting:      o.sctx.Presenting,
		JargonToAvoid:   o.sctx.JargonToAvoid,
		TechLevel:       o.sctx.TechLevel,
	}
	o.mu.Unlock()

	decision := models.SilentDecision("no coaching model configured")
	if o.collab.Coach != nil {
		d, err := o.collab.Coach.Decide(ctx, snap)
		if err != nil {
			log.Warn().Err(err).Str("session", o.id).Msg("Coaching model failed, staying silent")
			decision = models.SilentDecision(err.Error())
		} else {
			decision = d
		}
	}

	entry := models.TranscriptEntry{Text: text, Decision: decision}
	o.mu.Lock()
	o.memory.Append(models.SignalEvent{Kind: models.EventTranscript, Timestamp: o.clock(), Transcript: &entry})
	o.mu.Unlock()

	outcome := DecisionOutcome{Decision: decision}
	if decision.Message == "" {
		return outcome
	}

	var category string
	switch decision.Action {
	case models.ActionWhisper:
		category = models.CategoryJargonAlert
	case models.ActionEscalate:
		category = models.CategoryEngagementDrop
	default:
		return outcome
	}

	ev := o.gate.TryDispatch(ctx, decision.Message, category, nil)
	if ev == nil {
		return outcome
	}
	outcome.Dispatched = true

	if m, ok := coachingMoment(decision.Action, decision.Message, ev.Timestamp); ok {
		o.mu.Lock()
		o.pendingMoments = append(o.pendingMoments, m)
		o.mu.Unlock()
	}
	return outcome
}

// DrainCoaching atomically returns and clears the pending coaching queue.
func (o *Orchestrator) DrainCoaching() []models.CoachingEvent {
	return o.gate.Drain()
}

// DrainMoments atomically returns and clears the pending moment queue.
func (o *Orchestrator) DrainMoments() []models.Moment {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.pendingMoments
	o.pendingMoments = nil
	return out
}

// Debrief snapshots the session's full retained history for the post-call
// review. The history slice is a defensive copy.
func (o *Orchestrator) Debrief() models.Debrief {
	o.mu.Lock()
	history := o.memory.All()
	o.mu.Unlock()

	return models.Debrief{
		SessionID:  o.id,
		EventCount: len(history),
		History:    history,
		Context:    o.sctx,
		StartedAt:  o.startedAt,
		EndedAt:    o.clock(),
	}
}
