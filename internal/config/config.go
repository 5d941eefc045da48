// Package config provides configuration management for stagewhisper.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults for the coaching engine and worker.
const (
	DefaultWorkerPort      = 8701
	DefaultMemoryCapacity  = 50
	DefaultTrendWindow     = 5
	DefaultCooldownSeconds = 8
)

// Config holds all runtime settings. It is loaded once at startup; the
// settings watcher exits the process on change so a supervisor restarts with
// fresh values.
type Config struct {
	WorkerPort int `yaml:"worker_port"`

	// Engine tuning.
	MemoryCapacity  int `yaml:"memory_capacity"`
	TrendWindow     int `yaml:"trend_window"`
	CooldownSeconds int `yaml:"cooldown_seconds"`

	// Hosted-model collaborators. An empty API key runs the worker with
	// static fallback collaborators (degraded but valid sessions).
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
	CoachModel      string `yaml:"coach_model"`
	VisionModel     string `yaml:"vision_model"`
	TranscribeModel string `yaml:"transcribe_model"`
	SpeechModel     string `yaml:"speech_model"`
	Voice           string `yaml:"voice"`

	DBPath string `yaml:"db_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		WorkerPort:      DefaultWorkerPort,
		MemoryCapacity:  DefaultMemoryCapacity,
		TrendWindow:     DefaultTrendWindow,
		CooldownSeconds: DefaultCooldownSeconds,
		DBPath:          DBPath(),
	}
}

// DataDir returns the stagewhisper data directory under the user's home.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".stagewhisper")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.yaml")
}

// DBPath returns the debrief archive path.
func DBPath() string {
	return filepath.Join(DataDir(), "stagewhisper.db")
}

// EnsureDataDir creates the data directory if missing.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0o755)
}

// Load reads the settings file over the defaults. A missing file is not an
// error: the defaults apply. OPENAI_API_KEY in the environment wins over the
// settings file so the key can stay out of it.
func Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(SettingsPath())
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(), err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAIAPIKey = key
	}

	if cfg.WorkerPort <= 0 {
		cfg.WorkerPort = DefaultWorkerPort
	}
	if cfg.MemoryCapacity <= 0 {
		cfg.MemoryCapacity = DefaultMemoryCapacity
	}
	if cfg.TrendWindow <= 0 {
		cfg.TrendWindow = DefaultTrendWindow
	}
	if cfg.CooldownSeconds <= 0 {
		cfg.CooldownSeconds = DefaultCooldownSeconds
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DBPath()
	}
	return cfg, nil
}
