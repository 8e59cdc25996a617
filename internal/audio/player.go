package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Player delivers a synthesized WAV file to the user. Implementations are
// selected once at startup so the per-platform side effects stay isolated
// behind one interface.
type Player interface {
	Play(ctx context.Context, wavPath string) error
}

// NewPlayer picks a playback strategy. "native" uses the in-process speaker,
// "command" shells out to the first available player binary, "none" only
// reports file paths. "auto" prefers a command-line player (its failure mode
// is visible up front) and falls back to the in-process speaker.
func NewPlayer(mode string, timeout time.Duration) Player {
	switch mode {
	case "native":
		return &BeepPlayer{}
	case "command":
		if p := newCommandPlayer(timeout); p != nil {
			return p
		}
		slog.Warn("no command-line audio player found, falling back to path reporting")
		return &PathPlayer{}
	case "none":
		return &PathPlayer{}
	default: // auto
		if p := newCommandPlayer(timeout); p != nil {
			return p
		}
		return &BeepPlayer{}
	}
}

// BeepPlayer plays WAV files through the process's own audio output.
type BeepPlayer struct{}

func (p *BeepPlayer) Play(_ context.Context, wavPath string) error {
	f, err := os.Open(wavPath)
	if err != nil {
		return fmt.Errorf("open wav: %w", err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	done := make(chan bool)
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		done <- true
	})))
	<-done

	return nil
}

// CommandPlayer shells out to a platform audio player. Candidates are tried
// in order at construction; the first one on PATH wins.
type CommandPlayer struct {
	bin     string
	args    []string
	timeout time.Duration
}

var playerCandidates = []struct {
	bin  string
	args []string
}{
	{"aplay", nil},
	{"paplay", nil},
	{"afplay", nil},
	{"ffplay", []string{"-autoexit", "-nodisp", "-loglevel", "quiet"}},
}

func newCommandPlayer(timeout time.Duration) *CommandPlayer {
	for _, c := range playerCandidates {
		if path, err := exec.LookPath(c.bin); err == nil {
			return &CommandPlayer{bin: path, args: c.args, timeout: timeout}
		}
	}
	return nil
}

func (p *CommandPlayer) Play(ctx context.Context, wavPath string) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := append(append([]string(nil), p.args...), wavPath)
	cmd := exec.CommandContext(ctx, p.bin, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", p.bin, err)
	}
	return nil
}

// PathPlayer is the last resort: it tells the user where the audio ended up
// instead of failing the turn.
type PathPlayer struct{}

func (p *PathPlayer) Play(_ context.Context, wavPath string) error {
	fmt.Printf("(no audio player available, WAV written to %s)\n", wavPath)
	return nil
}
