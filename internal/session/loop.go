// Package session runs the console conversation loop. Each turn moves
// through AwaitingInput, optionally Recording and Transcribing, then
// Generating and Speaking, and always lands back at AwaitingInput unless an
// exit command ends the session.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/FabryAI/ai-coach/internal/notify"
	"github.com/FabryAI/ai-coach/internal/stt"
)

// Recorder captures one utterance to a WAV file.
type Recorder interface {
	Record(ctx context.Context, duration time.Duration) (string, error)
}

// Transcriber converts a WAV file to text.
type Transcriber interface {
	TranscribeFile(ctx context.Context, wavPath string, opt stt.Options) (string, error)
}

// Engine produces a reply for one user message.
type Engine interface {
	Reply(ctx context.Context, userText string) (string, error)
}

// Speaker voices a reply.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

var exitWords = map[string]bool{"quit": true, "exit": true}

// Loop wires the components into synchronous conversation turns. No state
// survives a turn except the read-only configuration below.
type Loop struct {
	In  io.Reader
	Out io.Writer

	Recorder    Recorder
	Transcriber Transcriber
	Engine      Engine
	Speaker     Speaker

	RecordDuration time.Duration
	STTOptions     stt.Options
	STTTimeout     time.Duration
	ChimePath      string
}

// Run reads console input until an exit command or EOF. A component error
// aborts the current turn with a printed message; the loop itself keeps
// going.
func (l *Loop) Run(ctx context.Context) error {
	fmt.Fprintln(l.Out, "\n=== Coach AI (offline) ===")
	fmt.Fprintf(l.Out, "Press ENTER to record voice (%ds) or type your message.\n", int(l.RecordDuration.Seconds()))
	fmt.Fprintln(l.Out, "Type 'quit' to exit.")
	fmt.Fprintln(l.Out)

	scanner := bufio.NewScanner(l.In)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(l.Out, "You (press ENTER to speak): ")
		if !scanner.Scan() {
			fmt.Fprintln(l.Out)
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())

		if exitWords[strings.ToLower(input)] {
			fmt.Fprintln(l.Out, "Session ended.")
			return nil
		}

		// ENTER with no text means the user wants to speak instead of type.
		if input == "" {
			text, err := l.listen(ctx)
			if err != nil {
				fmt.Fprintf(l.Out, "(voice input failed: %v)\n\n", err)
				continue
			}
			input = text
			fmt.Fprintf(l.Out, "[Transcript] %s\n", input)
		}

		if input == "" {
			fmt.Fprintln(l.Out, "(Got empty input, try again)")
			fmt.Fprintln(l.Out)
			continue
		}

		reply, err := l.Engine.Reply(ctx, input)
		if err != nil {
			fmt.Fprintf(l.Out, "(coach unavailable: %v)\n\n", err)
			continue
		}

		fmt.Fprintf(l.Out, "Coach: %s\n\n", reply)

		if err := l.Speaker.Speak(ctx, reply); err != nil {
			fmt.Fprintf(l.Out, "(speech failed: %v)\n\n", err)
		}
	}
}

// listen records one utterance and transcribes it. The recording is a
// turn-scoped file and is removed before listen returns.
func (l *Loop) listen(ctx context.Context) (string, error) {
	if err := notify.Chime(l.ChimePath); err != nil {
		slog.Warn("chime failed", "err", err)
	}

	fmt.Fprintf(l.Out, "[Recording %ds...]\n", int(l.RecordDuration.Seconds()))

	wavPath, err := l.Recorder.Record(ctx, l.RecordDuration)
	if err != nil {
		return "", err
	}
	defer os.Remove(wavPath)

	tctx := ctx
	if l.STTTimeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, l.STTTimeout)
		defer cancel()
	}

	return l.Transcriber.TranscribeFile(tctx, wavPath, l.STTOptions)
}
