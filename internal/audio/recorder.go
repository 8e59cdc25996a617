package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gordonklaus/portaudio"
)

const recorderFrameSize = 1024

// Recorder captures fixed-duration mono 16-bit utterances from an input
// device and persists each one as a uniquely named WAV file. It never
// deletes prior recordings; turn-scoped cleanup is the caller's job.
type Recorder struct {
	sampleRate  int
	deviceIndex int // -1 = default input device
	dir         string
}

func NewRecorder(sampleRate, deviceIndex int, dir string) *Recorder {
	return &Recorder{
		sampleRate:  sampleRate,
		deviceIndex: deviceIndex,
		dir:         dir,
	}
}

// Init brings up the portaudio runtime. Call once per process.
func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record blocks until duration worth of frames has been captured, then
// writes them to a new WAV file in the recorder's directory and returns its
// path. The context cancels capture between buffer reads.
func (r *Recorder) Record(ctx context.Context, duration time.Duration) (string, error) {
	if duration <= 0 {
		return "", fmt.Errorf("record duration must be positive, got %s", duration)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	buf := make([]int16, recorderFrameSize)
	stream, err := r.openStream(buf)
	if err != nil {
		return "", &DeviceError{Index: r.deviceIndex, Err: err}
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return "", &DeviceError{Index: r.deviceIndex, Err: err}
	}
	defer stream.Stop()

	total := int(float64(r.sampleRate) * duration.Seconds())
	out := make([]int16, 0, total)

	for len(out) < total {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			return "", fmt.Errorf("read stream: %w", err)
		}

		need := total - len(out)
		if need > len(buf) {
			need = len(buf)
		}
		out = append(out, buf[:need]...)
	}

	path := filepath.Join(r.dir, fmt.Sprintf("rec_%d_%s.wav",
		time.Now().Unix(), uuid.NewString()[:6]))

	if err := WriteWAV(path, out, r.sampleRate); err != nil {
		return "", err
	}
	return path, nil
}

func (r *Recorder) openStream(buf []int16) (*portaudio.Stream, error) {
	if r.deviceIndex < 0 {
		return portaudio.OpenDefaultStream(1, 0, float64(r.sampleRate), len(buf), buf)
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	if r.deviceIndex >= len(devices) {
		return nil, fmt.Errorf("device index out of range (have %d devices)", len(devices))
	}
	dev := devices[r.deviceIndex]
	if dev.MaxInputChannels < 1 {
		return nil, fmt.Errorf("device %q has no input channels", dev.Name)
	}

	params := portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(r.sampleRate)
	params.FramesPerBuffer = len(buf)

	return portaudio.OpenStream(params, buf)
}

// ListInputDevices returns one human-readable line per capture-capable
// device, for picking a device_index when the default microphone is wrong.
func ListInputDevices() ([]string, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}

	var lines []string
	for idx, dev := range devices {
		if dev.MaxInputChannels < 1 {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%d] %s  (in=%d)", idx, dev.Name, dev.MaxInputChannels))
	}
	return lines, nil
}
