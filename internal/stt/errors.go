package stt

import "fmt"

// TranscriptionError wraps a recognition backend failure. The caller decides
// whether to prompt the user again; there is no retry here.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }
