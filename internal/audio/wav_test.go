package audio

import (
	"math"
	"path/filepath"
	"testing"
)

func sineInt16(freq float64, seconds float64, rate int) []int16 {
	n := int(seconds * float64(rate))
	out := make([]int16, n)
	for i := range out {
		t := float64(i) / float64(rate)
		out[i] = int16(16383 * math.Sin(2*math.Pi*freq*t))
	}
	return out
}

func TestWriteReadWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := sineInt16(440, 0.25, WhisperRate)

	if err := WriteWAV(path, samples, WhisperRate); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	got, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV failed: %v", err)
	}

	// Payload length corresponds to duration * rate frames; no resampling
	// should have happened at the native rate.
	if len(got) != len(samples) {
		t.Fatalf("frame count = %d, want %d", len(got), len(samples))
	}

	for i := 0; i < len(samples); i += 997 {
		want := float64(samples[i]) / 32768.0
		if math.Abs(float64(got[i])-want) > 1e-3 {
			t.Fatalf("sample %d = %f, want %f", i, got[i], want)
		}
	}
}

func TestWriteWAVRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")

	if err := WriteWAV(path, nil, WhisperRate); err == nil {
		t.Error("expected error for empty samples")
	}
	if err := WriteWAV(path, []int16{1, 2, 3}, 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestReadWAVResamplesToWhisperRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hi.wav")
	samples := sineInt16(440, 0.5, 44100)

	if err := WriteWAV(path, samples, 44100); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	got, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV failed: %v", err)
	}

	want := int(0.5 * WhisperRate)
	if math.Abs(float64(len(got)-want)) > 2 {
		t.Errorf("resampled length = %d, want ~%d", len(got), want)
	}
}

func TestDownmix(t *testing.T) {
	stereo := []float32{0.5, -0.5, 1.0, 0.0, -1.0, -1.0}
	mono := downmix(stereo, 2)

	want := []float32{0, 0.5, -1.0}
	if len(mono) != len(want) {
		t.Fatalf("len = %d, want %d", len(mono), len(want))
	}
	for i := range want {
		if math.Abs(float64(mono[i]-want[i])) > 1e-6 {
			t.Errorf("frame %d = %f, want %f", i, mono[i], want[i])
		}
	}
}

func TestResampleIdentity(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	if out := resample(in, 16000, 16000); len(out) != 3 {
		t.Errorf("identity resample changed length: %d", len(out))
	}
}

func TestResampleHalvesLength(t *testing.T) {
	in := make([]float32, 32000)
	out := resample(in, 32000, 16000)
	if math.Abs(float64(len(out)-16000)) > 1 {
		t.Errorf("downsampled length = %d, want ~16000", len(out))
	}
}
