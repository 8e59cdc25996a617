package stt

import (
	"math"
	"testing"
)

func silence(n int) []float32 {
	return make([]float32, n)
}

func tone(n int, amp float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	return out
}

func TestTrimSilenceAllSilent(t *testing.T) {
	if got := trimSilence(silence(16000)); got != nil {
		t.Errorf("pure silence should trim to nothing, got %d samples", len(got))
	}
}

func TestTrimSilenceEmptyInput(t *testing.T) {
	if got := trimSilence(nil); got != nil {
		t.Error("nil input should stay nil")
	}
}

func TestTrimSilenceKeepsSpeech(t *testing.T) {
	// one second of silence, half a second of tone, one second of silence
	pcm := append(silence(16000), tone(8000, 0.5)...)
	pcm = append(pcm, silence(16000)...)

	got := trimSilence(pcm)
	if len(got) == 0 {
		t.Fatal("speech was trimmed away")
	}

	// the kept span must cover the tone plus padding, but not the full clip
	if len(got) < 8000 {
		t.Errorf("kept %d samples, speech alone is 8000", len(got))
	}
	if len(got) >= len(pcm) {
		t.Errorf("nothing was trimmed (%d of %d samples kept)", len(got), len(pcm))
	}
}

func TestTrimSilenceBelowThreshold(t *testing.T) {
	// a hum below the RMS gate counts as silence
	if got := trimSilence(tone(16000, 0.005)); got != nil {
		t.Errorf("sub-threshold hum should trim to nothing, got %d samples", len(got))
	}
}

func TestJoinSegments(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"empty", nil, ""},
		{"single", []string{" ciao "}, "ciao"},
		{"multiple", []string{" Mi sento", "bloccato al lavoro. ", ""}, "Mi sento bloccato al lavoro."},
		{"all blank", []string{"  ", "\t"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinSegments(tt.in); got != tt.want {
				t.Errorf("joinSegments(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
