package audio

import "fmt"

// DeviceError reports a missing or invalid audio input device. Recording is
// a one-shot user action, so the error surfaces to the caller instead of
// being retried.
type DeviceError struct {
	Index int // requested device index; -1 means the default device
	Err   error
}

func (e *DeviceError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("audio device %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("default audio device: %v", e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }
