package session

import (
	"fmt"
	"time"
)

// modelNotFoundError signals a missing or empty model artifact.
type modelNotFoundError struct{ path string }

func (e modelNotFoundError) Error() string { return "model artifact not found: " + e.path }

// ErrModelNotFound constructs a modelNotFoundError.
func ErrModelNotFound(path string) error { return modelNotFoundError{path: path} }

// IsModelNotFound reports whether err indicates a missing model artifact.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}

// notReadyError signals a Generate call outside the Ready state.
type notReadyError struct{ state State }

func (e notReadyError) Error() string { return "session not ready: state=" + string(e.state) }

// IsNotReady reports whether err indicates the session cannot generate.
func IsNotReady(err error) bool {
	_, ok := err.(notReadyError)
	return ok
}

// timedOutError signals that the per-call deadline elapsed before the native
// call returned. The outcome of the underlying generation is unknown, not
// cancelled: the native computation is not preemptible.
type timedOutError struct{ after time.Duration }

func (e timedOutError) Error() string {
	return fmt.Sprintf("generation timed out after %s (result discarded)", e.after)
}

// IsTimedOut reports whether err indicates an abandoned generation.
func IsTimedOut(err error) bool {
	_, ok := err.(timedOutError)
	return ok
}
