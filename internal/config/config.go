package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full settings file, loaded once at startup and
// immutable for the process lifetime.
type Config struct {
	Coach   CoachConfig   `yaml:"coach"`
	Audio   AudioConfig   `yaml:"audio"`
	Whisper WhisperConfig `yaml:"whisper"`
	Piper   PiperConfig   `yaml:"piper"`
	Logging LoggingConfig `yaml:"logging"`
}

// CoachConfig selects the chat model and persona.
type CoachConfig struct {
	ModelName    string `yaml:"model_name"`
	SystemPrompt string `yaml:"system_prompt"`
	Host         string `yaml:"host"`
	Timeout      int    `yaml:"timeout"` // seconds
}

// AudioConfig covers microphone capture and playback.
type AudioConfig struct {
	SampleRate      int    `yaml:"sample_rate"`
	AudioDir        string `yaml:"audio_dir"`
	DeviceIndex     int    `yaml:"device_index"` // -1 = default input device
	RecordSeconds   int    `yaml:"record_seconds"`
	Player          string `yaml:"player"` // auto|native|command|none
	ChimePath       string `yaml:"chime_path"`
	PlaybackTimeout int    `yaml:"playback_timeout"` // seconds
}

// WhisperConfig selects and tunes the offline recognition model.
type WhisperConfig struct {
	ModelDir    string `yaml:"model_dir"`
	ModelSize   string `yaml:"model_size"`   // tiny|base|small|medium|large-v3
	ComputeType string `yaml:"compute_type"` // ggml quant suffix, e.g. "q8_0"; empty = full
	Language    string `yaml:"language"`     // ISO code; empty = auto-detect
	BeamSize    int    `yaml:"beam_size"`
	Threads     int    `yaml:"threads"` // 0 = NumCPU
	VADFilter   *bool  `yaml:"vad_filter"`
	Timeout     int    `yaml:"timeout"` // seconds
}

// PiperConfig locates the synthesis executable and voice.
type PiperConfig struct {
	PiperDir        string  `yaml:"piper_dir"`
	VoiceModelName  string  `yaml:"voice_model_name"`
	SentenceSilence float64 `yaml:"sentence_silence"` // seconds of pause between sentences
	Timeout         int     `yaml:"timeout"`          // seconds
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the settings file, applies defaults and validates the result.
// A missing file is not an error: defaults are returned instead, so the
// assistant can boot with a plain local Ollama + piper layout.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no settings file exists.
func Default() *Config {
	vad := true
	return &Config{
		Coach: CoachConfig{
			ModelName: "llama3.1:8b",
			Host:      "http://localhost:11434/v1",
			Timeout:   120,
		},
		Audio: AudioConfig{
			SampleRate:      16000,
			AudioDir:        "data/audio_raw",
			DeviceIndex:     -1,
			RecordSeconds:   6,
			Player:          "auto",
			PlaybackTimeout: 60,
		},
		Whisper: WhisperConfig{
			ModelDir:  "models/whisper",
			ModelSize: "small",
			BeamSize:  1,
			VADFilter: &vad,
			Timeout:   60,
		},
		Piper: PiperConfig{
			PiperDir:        "models/piper",
			VoiceModelName:  "en_US-amy-medium",
			SentenceSilence: 0.4,
			Timeout:         30,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// applyDefaults fills zero values left by a sparse settings file.
func (c *Config) applyDefaults() {
	def := Default()

	if c.Coach.ModelName == "" {
		c.Coach.ModelName = def.Coach.ModelName
	}
	if c.Coach.Host == "" {
		c.Coach.Host = def.Coach.Host
	}
	if c.Coach.Timeout == 0 {
		c.Coach.Timeout = def.Coach.Timeout
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = def.Audio.SampleRate
	}
	if c.Audio.AudioDir == "" {
		c.Audio.AudioDir = def.Audio.AudioDir
	}
	if c.Audio.RecordSeconds == 0 {
		c.Audio.RecordSeconds = def.Audio.RecordSeconds
	}
	if c.Audio.Player == "" {
		c.Audio.Player = def.Audio.Player
	}
	if c.Audio.PlaybackTimeout == 0 {
		c.Audio.PlaybackTimeout = def.Audio.PlaybackTimeout
	}
	if c.Whisper.ModelDir == "" {
		c.Whisper.ModelDir = def.Whisper.ModelDir
	}
	if c.Whisper.ModelSize == "" {
		c.Whisper.ModelSize = def.Whisper.ModelSize
	}
	if c.Whisper.BeamSize == 0 {
		c.Whisper.BeamSize = def.Whisper.BeamSize
	}
	if c.Whisper.VADFilter == nil {
		c.Whisper.VADFilter = def.Whisper.VADFilter
	}
	if c.Whisper.Timeout == 0 {
		c.Whisper.Timeout = def.Whisper.Timeout
	}
	if c.Piper.PiperDir == "" {
		c.Piper.PiperDir = def.Piper.PiperDir
	}
	if c.Piper.VoiceModelName == "" {
		c.Piper.VoiceModelName = def.Piper.VoiceModelName
	}
	if c.Piper.SentenceSilence == 0 {
		c.Piper.SentenceSilence = def.Piper.SentenceSilence
	}
	if c.Piper.Timeout == 0 {
		c.Piper.Timeout = def.Piper.Timeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Coach.Validate(); err != nil {
		return fmt.Errorf("coach config: %w", err)
	}
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}
	if err := c.Whisper.Validate(); err != nil {
		return fmt.Errorf("whisper config: %w", err)
	}
	if err := c.Piper.Validate(); err != nil {
		return fmt.Errorf("piper config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

func (c *CoachConfig) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("model_name cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", c.Timeout)
	}
	return nil
}

func (a *AudioConfig) Validate() error {
	if a.SampleRate < 8000 {
		return fmt.Errorf("sample_rate must be at least 8000 Hz, got %d", a.SampleRate)
	}
	if a.AudioDir == "" {
		return fmt.Errorf("audio_dir cannot be empty")
	}
	if a.DeviceIndex < -1 {
		return fmt.Errorf("device_index must be -1 (default) or a device number, got %d", a.DeviceIndex)
	}
	if a.RecordSeconds < 1 {
		return fmt.Errorf("record_seconds must be at least 1, got %d", a.RecordSeconds)
	}
	switch a.Player {
	case "auto", "native", "command", "none":
	default:
		return fmt.Errorf("player must be one of [auto, native, command, none], got %q", a.Player)
	}
	if a.PlaybackTimeout < 1 {
		return fmt.Errorf("playback_timeout must be at least 1 second, got %d", a.PlaybackTimeout)
	}
	return nil
}

func (w *WhisperConfig) Validate() error {
	if w.ModelDir == "" {
		return fmt.Errorf("model_dir cannot be empty")
	}
	validSizes := map[string]bool{
		"tiny": true, "base": true, "small": true, "medium": true,
		"large-v2": true, "large-v3": true,
	}
	if !validSizes[w.ModelSize] {
		return fmt.Errorf("model_size must be one of [tiny, base, small, medium, large-v2, large-v3], got %q", w.ModelSize)
	}
	if w.BeamSize < 1 {
		return fmt.Errorf("beam_size must be at least 1, got %d", w.BeamSize)
	}
	if w.Threads < 0 {
		return fmt.Errorf("threads cannot be negative, got %d", w.Threads)
	}
	if w.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", w.Timeout)
	}
	return nil
}

func (p *PiperConfig) Validate() error {
	if p.PiperDir == "" {
		return fmt.Errorf("piper_dir cannot be empty")
	}
	if p.VoiceModelName == "" {
		return fmt.Errorf("voice_model_name cannot be empty")
	}
	if p.SentenceSilence < 0 {
		return fmt.Errorf("sentence_silence cannot be negative, got %f", p.SentenceSilence)
	}
	if p.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", p.Timeout)
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	return nil
}

// ModelPath resolves the whisper ggml model file from size and quantization,
// e.g. models/whisper/ggml-small-q8_0.bin.
func (w *WhisperConfig) ModelPath() string {
	name := "ggml-" + w.ModelSize
	if w.ComputeType != "" {
		name += "-" + w.ComputeType
	}
	return filepath.Join(w.ModelDir, name+".bin")
}

// VAD reports whether the voice-activity filter is enabled.
func (w *WhisperConfig) VAD() bool {
	return w.VADFilter == nil || *w.VADFilter
}

func (c *CoachConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (a *AudioConfig) RecordDuration() time.Duration {
	return time.Duration(a.RecordSeconds) * time.Second
}

func (a *AudioConfig) GetPlaybackTimeout() time.Duration {
	return time.Duration(a.PlaybackTimeout) * time.Second
}

func (w *WhisperConfig) GetTimeout() time.Duration {
	return time.Duration(w.Timeout) * time.Second
}

func (p *PiperConfig) GetTimeout() time.Duration {
	return time.Duration(p.Timeout) * time.Second
}
