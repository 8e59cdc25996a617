// Package tts turns reply text into audible speech through the external
// piper executable.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/FabryAI/ai-coach/internal/audio"
)

// Config locates the piper installation and voice.
type Config struct {
	PiperDir        string
	VoiceModelName  string
	SentenceSilence float64
	Timeout         time.Duration
}

// Speaker synthesizes text with piper and hands the resulting WAV to a
// Player. Both temp files of a call (text input, WAV output) are gone by the
// time Speak returns, on every exit path.
type Speaker struct {
	exe        string
	modelPath  string
	configPath string
	piperDir   string
	silence    float64
	timeout    time.Duration
	player     audio.Player

	// tempDir overrides the system temp directory; tests use it to watch
	// for leaked files.
	tempDir string
}

// NewSpeaker validates that the executable and both voice artifacts exist.
// A missing asset fails construction so the process never enters the
// conversation loop with a broken synthesis pipeline.
func NewSpeaker(cfg Config, player audio.Player) (*Speaker, error) {
	dir, err := filepath.Abs(cfg.PiperDir)
	if err != nil {
		return nil, fmt.Errorf("resolve piper dir: %w", err)
	}

	exe := filepath.Join(dir, "piper")
	if runtime.GOOS == "windows" {
		exe += ".exe"
	}
	model := filepath.Join(dir, cfg.VoiceModelName+".onnx")
	config := filepath.Join(dir, cfg.VoiceModelName+".onnx.json")

	for _, p := range []string{exe, model, config} {
		if _, err := os.Stat(p); err != nil {
			return nil, &MissingAssetError{Path: p}
		}
	}

	return &Speaker{
		exe:        exe,
		modelPath:  model,
		configPath: config,
		piperDir:   dir,
		silence:    cfg.SentenceSilence,
		timeout:    cfg.Timeout,
		player:     player,
	}, nil
}

// Speak synthesizes text and plays it. Empty or blank text is a guaranteed
// no-op: no subprocess, no playback.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	wavPath, err := s.synthesize(ctx, text)
	if err != nil {
		return err
	}
	defer os.Remove(wavPath)

	return s.player.Play(ctx, wavPath)
}

// synthesize writes text to a temp file, feeds it to piper over stdin and
// returns the output WAV path. The temp text file is removed when the
// subprocess ends, whatever the outcome; the WAV survives only on success.
func (s *Speaker) synthesize(ctx context.Context, text string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	txt, err := os.CreateTemp(s.tempDir, "say_*.txt")
	if err != nil {
		return "", fmt.Errorf("create temp text: %w", err)
	}
	defer os.Remove(txt.Name())
	defer txt.Close()

	if _, err := txt.WriteString(text); err != nil {
		return "", fmt.Errorf("write temp text: %w", err)
	}
	if _, err := txt.Seek(0, 0); err != nil {
		return "", fmt.Errorf("rewind temp text: %w", err)
	}

	out, err := os.CreateTemp(s.tempDir, "say_*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp wav: %w", err)
	}
	wavPath := out.Name()
	out.Close()

	cmd := exec.CommandContext(ctx, s.exe,
		"-m", s.modelPath,
		"-c", s.configPath,
		"--sentence_silence", strconv.FormatFloat(s.silence, 'f', -1, 64),
		"-f", wavPath,
	)
	// piper resolves its shared libraries relative to its own directory.
	cmd.Dir = s.piperDir
	cmd.Stdin = txt

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	info, statErr := os.Stat(wavPath)
	if runErr != nil || statErr != nil || info.Size() == 0 {
		os.Remove(wavPath)
		exitCode := -1
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		if runErr == nil {
			runErr = fmt.Errorf("no output produced at %s", wavPath)
		}
		return "", &SynthesisError{
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      runErr,
		}
	}

	return wavPath, nil
}
