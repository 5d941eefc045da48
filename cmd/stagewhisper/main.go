// Package main provides the stagewhisper worker entry point.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/stagewhisper/internal/config"
	"github.com/thebtf/stagewhisper/internal/db/sqlite"
	"github.com/thebtf/stagewhisper/internal/session"
	sig "github.com/thebtf/stagewhisper/internal/signal"
	"github.com/thebtf/stagewhisper/internal/watcher"
	"github.com/thebtf/stagewhisper/internal/worker"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	port := flag.Int("port", 0, "Worker port (default from settings)")
	dbPath := flag.String("db", "", "Debrief archive path (default from settings)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	if err := config.EnsureDataDir(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure data directory")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load settings, using defaults")
		cfg = config.Default()
	}
	if *port > 0 {
		cfg.WorkerPort = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down worker")
		cancel()
	}()

	collab, transcriber := buildCollaborators(cfg)
	manager := session.NewManager(collab, session.Config{
		MemoryCapacity: cfg.MemoryCapacity,
		TrendWindow:    cfg.TrendWindow,
		Cooldown:       time.Duration(cfg.CooldownSeconds) * time.Second,
	})

	var debriefs *sqlite.DebriefStore
	store, err := sqlite.NewStore(sqlite.StoreConfig{Path: cfg.DBPath})
	if err != nil {
		log.Warn().Err(err).Msg("Debrief archive unavailable, continuing without it")
	} else {
		defer store.Close()
		debriefs = sqlite.NewDebriefStore(store)
	}

	startSettingsWatcher()

	svc := worker.NewService(Version, cfg, manager, transcriber, debriefs)
	if err := svc.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Worker error")
	}
}

// buildCollaborators wires the inference backends. With no API key the worker
// runs on static fallbacks: every session is degraded but valid.
func buildCollaborators(cfg config.Config) (session.Collaborators, sig.Transcriber) {
	if cfg.OpenAIAPIKey == "" {
		log.Warn().Msg("No API key configured, running with static collaborators")
		return session.Collaborators{
			Vision: sig.StaticVision{},
			Vocal:  sig.NewVocalDSP(),
			Coach:  sig.StaticCoach{},
			Synth:  sig.BeepSynthesizer{},
		}, sig.StaticTranscriber{}
	}

	client, err := sig.NewOpenAIClient(sig.OpenAIConfig{
		APIKey:          cfg.OpenAIAPIKey,
		BaseURL:         cfg.OpenAIBaseURL,
		CoachModel:      cfg.CoachModel,
		VisionModel:     cfg.VisionModel,
		TranscribeModel: cfg.TranscribeModel,
		SpeechModel:     cfg.SpeechModel,
		Voice:           cfg.Voice,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Model client unavailable, running with static collaborators")
		return session.Collaborators{
			Vision: sig.StaticVision{},
			Vocal:  sig.NewVocalDSP(),
			Coach:  sig.StaticCoach{},
			Synth:  sig.BeepSynthesizer{},
		}, sig.StaticTranscriber{}
	}

	return session.Collaborators{
		Vision: client,
		Vocal:  sig.NewVocalDSP(),
		Coach:  client,
		Synth:  client,
	}, client
}

// startSettingsWatcher exits the process on settings change so a supervisor
// restarts the worker with fresh configuration.
func startSettingsWatcher() {
	settingsPath := config.SettingsPath()
	w, err := watcher.New(settingsPath, func() {
		log.Warn().Str("path", settingsPath).Msg("Settings changed, exiting for restart...")
		time.Sleep(100 * time.Millisecond) // Give logs time to flush
		os.Exit(0)
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create settings watcher")
		return
	}
	if err := w.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start settings watcher")
		return
	}
	log.Info().Str("path", settingsPath).Msg("Settings watcher started")
}
