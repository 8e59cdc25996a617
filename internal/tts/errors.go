package tts

import "fmt"

// MissingAssetError means the synthesis executable or a voice artifact is
// absent. It is raised at construction time, before any conversation turn,
// and is fatal upstream.
type MissingAssetError struct {
	Path string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("synthesis asset not found: %s", e.Path)
}

// SynthesisError reports a failed synthesis subprocess, carrying whatever
// the process wrote to its error stream.
type SynthesisError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *SynthesisError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("piper failed (code=%d): %s", e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("piper failed (code=%d): %v", e.ExitCode, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
