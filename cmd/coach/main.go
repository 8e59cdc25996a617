package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"github.com/FabryAI/ai-coach/internal/audio"
	"github.com/FabryAI/ai-coach/internal/coach"
	"github.com/FabryAI/ai-coach/internal/config"
	"github.com/FabryAI/ai-coach/internal/session"
	"github.com/FabryAI/ai-coach/internal/stt"
	"github.com/FabryAI/ai-coach/internal/tts"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	configPath := cli.StringP("config", "c", "config/settings.yaml", "Settings file path")
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "", "Log level (overrides config)")
	listDevices := cli.Bool("list-devices", false, "List audio input devices and exit")
	cli.Parse()

	godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}
	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevelMap[level],
	})))

	log.Info("Booting up", "model", cfg.Coach.ModelName, "host", cfg.Coach.Host)

	rec := audio.NewRecorder(cfg.Audio.SampleRate, cfg.Audio.DeviceIndex, cfg.Audio.AudioDir)
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	if *listDevices {
		lines, err := audio.ListInputDevices()
		if err != nil {
			log.Error("Failed to list devices", "err", err)
			os.Exit(1)
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return
	}

	log.Debug("Loaded recorder")

	whisper, err := stt.New(cfg.Whisper.ModelPath())
	if err != nil {
		log.Error("Failed to init whisper", "err", err)
		os.Exit(1)
	}
	defer whisper.Close()

	log.Debug("Loaded whisper", "model", cfg.Whisper.ModelPath())

	player := audio.NewPlayer(cfg.Audio.Player, cfg.Audio.GetPlaybackTimeout())

	speaker, err := tts.NewSpeaker(tts.Config{
		PiperDir:        cfg.Piper.PiperDir,
		VoiceModelName:  cfg.Piper.VoiceModelName,
		SentenceSilence: cfg.Piper.SentenceSilence,
		Timeout:         cfg.Piper.GetTimeout(),
	}, player)
	if err != nil {
		var missing *tts.MissingAssetError
		if errors.As(err, &missing) {
			log.Error("Synthesis assets missing, refusing to start", "path", missing.Path)
		} else {
			log.Error("Failed to init speaker", "err", err)
		}
		os.Exit(1)
	}

	log.Debug("Loaded speaker", "voice", cfg.Piper.VoiceModelName)

	engine := coach.New(cfg.Coach.Host, cfg.Coach.ModelName, cfg.Coach.SystemPrompt, cfg.Coach.GetTimeout())

	log.Info("Boot up - successful")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := &session.Loop{
		In:          os.Stdin,
		Out:         os.Stdout,
		Recorder:    rec,
		Transcriber: whisper,
		Engine:      engine,
		Speaker:     speaker,

		RecordDuration: cfg.Audio.RecordDuration(),
		STTOptions: stt.Options{
			Language:  cfg.Whisper.Language,
			BeamSize:  cfg.Whisper.BeamSize,
			Threads:   cfg.Whisper.Threads,
			VADFilter: cfg.Whisper.VAD(),
		},
		STTTimeout: cfg.Whisper.GetTimeout(),
		ChimePath:  cfg.Audio.ChimePath,
	}

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Session failed", "err", err)
		os.Exit(1)
	}
}
