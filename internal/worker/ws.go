package worker

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"math"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/stagewhisper/internal/session"
)

// minPCMSamples is the shortest audio chunk worth analyzing; anything shorter
// is dropped before it reaches a collaborator.
const minPCMSamples = 100

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 16,
	WriteBufferSize: 1 << 16,
	// The worker fronts a local dashboard; origin policy belongs to the
	// deployment proxy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsMessage is the inbound client message envelope.
type wsMessage struct {
	Type       string `json:"type"`
	SessionID  string `json:"session_id,omitempty"`
	Data       string `json:"data,omitempty"`
	Text       string `json:"text,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

// handleWS serves one live session connection. Messages on a connection are
// processed strictly in arrival order by this goroutine, which is what
// serializes ingestion for the bound session; other sessions live on other
// connections and are unaffected by slow inference here.
func (s *Service) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	var orch *session.Orchestrator

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if orch != nil {
				log.Info().Str("session", orch.ID()).Msg("Session connection closed")
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug().Err(err).Msg("Dropping malformed WebSocket message")
			continue
		}

		if msg.Type == "init" {
			bound, ok := s.manager.Get(msg.SessionID)
			if !ok {
				log.Warn().Str("session", msg.SessionID).Msg("Init for unknown session")
				continue
			}
			orch = bound
			log.Info().Str("session", orch.ID()).Msg("Session connection bound")
			continue
		}

		// Signals addressed to no session (or a since-ended one) are no-ops.
		if orch == nil {
			continue
		}
		if _, ok := s.manager.Get(orch.ID()); !ok {
			orch = nil
			continue
		}

		switch msg.Type {
		case "frame":
			s.ingestFrame(ctx, conn, orch, msg)
		case "transcript":
			s.ingestTranscript(ctx, conn, orch, msg.Text)
		case "audio":
			s.ingestAudio(ctx, conn, orch, msg)
		default:
			log.Debug().Str("type", msg.Type).Msg("Unknown WebSocket message type")
		}
	}
}

func (s *Service) ingestFrame(ctx context.Context, conn *websocket.Conn, orch *session.Orchestrator, msg wsMessage) {
	frame, err := base64.StdEncoding.DecodeString(msg.Data)
	if err != nil {
		log.Debug().Err(err).Msg("Dropping frame with invalid base64")
		return
	}

	result := orch.IngestFrame(ctx, frame)
	s.metrics.recordIngested(ctx, "emotion")

	s.send(conn, newEmotionEvent(orch.ID(), result, time.Now()))
	s.flushPending(conn, orch)
}

func (s *Service) ingestTranscript(ctx context.Context, conn *websocket.Conn, orch *session.Orchestrator, text string) {
	if text == "" {
		return
	}

	outcome := orch.IngestTranscript(ctx, text)
	s.metrics.recordIngested(ctx, "transcript")
	if outcome.Dispatched {
		s.metrics.coachingDispatched.Add(ctx, 1)
	} else if outcome.Decision.Message != "" {
		s.metrics.coachingSuppressed.Add(ctx, 1)
	}

	s.send(conn, newTranscriptEvent(orch.ID(), text, nil, time.Now()))
	s.flushPending(conn, orch)
}

func (s *Service) ingestAudio(ctx context.Context, conn *websocket.Conn, orch *session.Orchestrator, msg wsMessage) {
	raw, err := base64.StdEncoding.DecodeString(msg.Data)
	if err != nil {
		log.Debug().Err(err).Msg("Dropping audio with invalid base64")
		return
	}

	pcm := decodePCM(raw)
	if len(pcm) < minPCMSamples {
		return
	}
	sampleRate := msg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 16000
	}

	// Transcription is the slow path; it runs inside this connection's
	// goroutine, which serializes it per session without blocking others.
	if s.transcriber != nil {
		text, err := s.transcriber.Transcribe(ctx, pcm, sampleRate)
		if err != nil {
			log.Warn().Err(err).Str("session", orch.ID()).Msg("Transcription failed, skipping transcript pass")
		} else if text != "" {
			s.ingestTranscript(ctx, conn, orch, text)
		}
	}

	result := orch.IngestAudio(ctx, pcm, sampleRate)
	s.metrics.recordIngested(ctx, "audio")
	s.send(conn, newAudioSignalsEvent(orch.ID(), result, time.Now()))
}

// flushPending drains both session queues to the client, mirroring each event
// to SSE observers. Called after every ingestion that can queue output.
func (s *Service) flushPending(conn *websocket.Conn, orch *session.Orchestrator) {
	for _, ev := range orch.DrainCoaching() {
		s.send(conn, newCoachingEvent(orch.ID(), ev))
		if len(ev.Audio) > 0 {
			s.send(conn, newCoachingAudioEvent(orch.ID(), ev))
		}
	}
	for _, m := range orch.DrainMoments() {
		s.send(conn, newMomentEvent(orch.ID(), m))
	}
}

// send writes one event to the WebSocket client and mirrors it to SSE.
func (s *Service) send(conn *websocket.Conn, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal wire event")
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Debug().Err(err).Msg("Failed to write WebSocket event")
	}
	s.broadcaster.Broadcast(event)
}

// decodePCM reinterprets little-endian float32 bytes as samples, zeroing
// non-finite values so degenerate input cannot reach a collaborator.
func decodePCM(raw []byte) []float32 {
	n := len(raw) / 4
	pcm := make([]float32, n)
	for i := 0; i < n; i++ {
		v := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			v = 0
		}
		pcm[i] = v
	}
	return pcm
}
