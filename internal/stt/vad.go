package stt

import "math"

const (
	vadWindow     = 320 // 20ms at 16 kHz
	vadThreshRMS  = 0.015
	vadPadWindows = 8 // keep ~160ms around detected speech
)

// trimSilence gates the PCM stream on windowed RMS energy before it reaches
// the decoder. It returns the span from the first to the last speech window,
// padded on both sides, or nil when the whole clip is silent.
func trimSilence(pcm []float32) []float32 {
	if len(pcm) == 0 {
		return nil
	}

	first, last := -1, -1
	for off := 0; off < len(pcm); off += vadWindow {
		end := off + vadWindow
		if end > len(pcm) {
			end = len(pcm)
		}
		if frameRMS(pcm[off:end]) > vadThreshRMS {
			if first < 0 {
				first = off
			}
			last = end
		}
	}
	if first < 0 {
		return nil
	}

	first -= vadPadWindows * vadWindow
	if first < 0 {
		first = 0
	}
	last += vadPadWindows * vadWindow
	if last > len(pcm) {
		last = len(pcm)
	}
	return pcm[first:last]
}

func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
