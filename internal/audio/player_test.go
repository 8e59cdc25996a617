package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fakePlayerBin(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fakeplay")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake player: %v", err)
	}
	return path
}

func TestCommandPlayerRunsBinary(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "played")
	bin := fakePlayerBin(t, "#!/bin/sh\necho \"$1\" > "+marker+"\n")

	p := &CommandPlayer{bin: bin, timeout: 5 * time.Second}
	if err := p.Play(context.Background(), "/tmp/reply.wav"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("player was not invoked: %v", err)
	}
	if string(data) != "/tmp/reply.wav\n" {
		t.Errorf("player got %q", data)
	}
}

func TestCommandPlayerPropagatesFailure(t *testing.T) {
	bin := fakePlayerBin(t, "#!/bin/sh\nexit 1\n")

	p := &CommandPlayer{bin: bin, timeout: 5 * time.Second}
	if err := p.Play(context.Background(), "x.wav"); err == nil {
		t.Error("expected error from failing player")
	}
}

func TestCommandPlayerHonorsTimeout(t *testing.T) {
	bin := fakePlayerBin(t, "#!/bin/sh\nsleep 10\n")

	p := &CommandPlayer{bin: bin, timeout: 100 * time.Millisecond}
	start := time.Now()
	err := p.Play(context.Background(), "x.wav")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout was not enforced")
	}
}

func TestPathPlayerNeverFails(t *testing.T) {
	p := &PathPlayer{}
	if err := p.Play(context.Background(), "/nonexistent/file.wav"); err != nil {
		t.Errorf("PathPlayer returned error: %v", err)
	}
}

func TestNewPlayerNoneMode(t *testing.T) {
	if _, ok := NewPlayer("none", time.Second).(*PathPlayer); !ok {
		t.Error("player mode none should select PathPlayer")
	}
}

func TestNewPlayerNativeMode(t *testing.T) {
	if _, ok := NewPlayer("native", time.Second).(*BeepPlayer); !ok {
		t.Error("player mode native should select BeepPlayer")
	}
}
