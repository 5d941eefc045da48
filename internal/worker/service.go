// Package worker provides the stagewhisper worker service: the HTTP API for
// session bootstrap and debriefs, the WebSocket transport for live signal
// ingestion, and the SSE mirror for dashboards.
package worker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/thebtf/stagewhisper/internal/config"
	"github.com/thebtf/stagewhisper/internal/db/sqlite"
	"github.com/thebtf/stagewhisper/internal/session"
	"github.com/thebtf/stagewhisper/internal/signal"
	"github.com/thebtf/stagewhisper/internal/worker/sse"
)

// Service wires the session manager, transport, SSE mirror, and debrief
// archive together behind one chi router.
type Service struct {
	version     string
	cfg         config.Config
	manager     *session.Manager
	transcriber signal.Transcriber
	debriefs    *sqlite.DebriefStore
	broadcaster *sse.Broadcaster
	metrics     *workerMetrics
	router      chi.Router
	startTime   time.Time
}

// NewService creates the worker. transcriber and debriefs may be nil; the
// audio transcription path and debrief archiving degrade to no-ops.
func NewService(version string, cfg config.Config, manager *session.Manager, transcriber signal.Transcriber, debriefs *sqlite.DebriefStore) *Service {
	s := &Service{
		version:     version,
		cfg:         cfg,
		manager:     manager,
		transcriber: transcriber,
		debriefs:    debriefs,
		broadcaster: sse.NewBroadcaster(),
		metrics:     newWorkerMetrics(),
		router:      chi.NewRouter(),
		startTime:   time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Service) setupRoutes() {
	s.router.Use(middleware.Recoverer)

	s.router.Post("/api/session/start", s.handleStartSession)
	s.router.Post("/api/session/end", s.handleEndSession)
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/debriefs", s.handleListDebriefs)
	s.router.Get("/api/debriefs/{sessionID}", s.handleGetDebrief)
	s.router.Get("/api/events", s.broadcaster.HandleSSE)
	s.router.Get("/ws/session", s.handleWS)
}

// Handler exposes the router for tests.
func (s *Service) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains with a short grace period.
func (s *Service) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.WorkerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", s.cfg.WorkerPort).Str("version", s.version).Msg("Worker listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
