package coach

import "fmt"

// GenerationError reports an unreachable or failing chat backend. The loop
// decides whether to show it and continue; nothing here retries.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("reply generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
