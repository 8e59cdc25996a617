// Package stt provides offline speech recognition on top of whisper.cpp.
package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/FabryAI/ai-coach/internal/audio"
)

// Options tunes a single transcription pass.
type Options struct {
	Language  string // ISO code; empty = auto-detect
	BeamSize  int    // 1 = greedy decode
	Threads   int    // <=0 = NumCPU
	VADFilter bool   // skip silence before decoding
}

// Transcriber owns the whisper model handle. Loading the model is expensive,
// so one Transcriber lives for the whole process and must be Closed at
// shutdown.
type Transcriber struct {
	model whisper.Model
}

func New(modelPath string) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load whisper model %s: %w", modelPath, err)
	}
	return &Transcriber{model: m}, nil
}

func (t *Transcriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}

// TranscribeFile decodes a WAV file and transcribes it. The audio is
// converted to mono 16 kHz float32 before it reaches the model.
func (t *Transcriber) TranscribeFile(ctx context.Context, wavPath string, opt Options) (string, error) {
	pcm, err := audio.ReadWAV(wavPath)
	if err != nil {
		return "", &TranscriptionError{Err: err}
	}
	return t.TranscribePCM(ctx, pcm, opt)
}

// TranscribePCM runs one recognition pass over mono 16 kHz samples and
// returns the joined segment text. An empty string means no speech was
// detected; that is a valid result, not an error.
func (t *Transcriber) TranscribePCM(ctx context.Context, pcm []float32, opt Options) (string, error) {
	if t.model == nil {
		return "", &TranscriptionError{Err: errors.New("nil model")}
	}

	if opt.VADFilter {
		pcm = trimSilence(pcm)
		if len(pcm) == 0 {
			return "", nil
		}
	}
	if len(pcm) == 0 {
		return "", &TranscriptionError{Err: errors.New("no audio samples provided")}
	}

	wctx, err := t.model.NewContext()
	if err != nil {
		return "", &TranscriptionError{Err: fmt.Errorf("new context: %w", err)}
	}

	lang := opt.Language
	if lang == "" {
		lang = "auto"
	}
	if err := wctx.SetLanguage(lang); err != nil {
		return "", &TranscriptionError{Err: fmt.Errorf("set language: %w", err)}
	}

	threads := opt.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	wctx.SetThreads(uint(threads))

	if opt.BeamSize > 1 {
		wctx.SetBeamSize(opt.BeamSize)
	}

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return "", &TranscriptionError{Err: fmt.Errorf("process: %w", err)}
	}

	var texts []string
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &TranscriptionError{Err: fmt.Errorf("next segment: %w", err)}
		}
		texts = append(texts, seg.Text)
	}

	detected := wctx.DetectedLanguage()
	if detected == "" {
		detected = wctx.Language()
	}
	slog.Debug("transcription done", "language", detected, "segments", len(texts))

	return joinSegments(texts), nil
}

// joinSegments concatenates trimmed segment texts with single spaces.
func joinSegments(texts []string) string {
	var parts []string
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
