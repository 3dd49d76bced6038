package engine

// runtimeUnavailableError signals a missing native runtime (e.g. a binary
// built without the `llama` tag) so callers can degrade to rule-only mode.
type runtimeUnavailableError struct{ msg string }

func (e runtimeUnavailableError) Error() string { return e.msg }

// ErrRuntimeUnavailable constructs a runtimeUnavailableError.
func ErrRuntimeUnavailable(msg string) error { return runtimeUnavailableError{msg: msg} }

// IsRuntimeUnavailable reports whether err indicates a missing/failed native runtime.
func IsRuntimeUnavailable(err error) bool {
	_, ok := err.(runtimeUnavailableError)
	return ok
}

// notLoadedError signals a generate/reset call against an unloaded handle.
type notLoadedError struct{}

func (notLoadedError) Error() string { return "engine: model not loaded" }

// IsNotLoaded reports whether err indicates the binding holds no valid handle.
func IsNotLoaded(err error) bool {
	_, ok := err.(notLoadedError)
	return ok
}

// emptyPromptError signals a prompt that tokenized to zero tokens.
type emptyPromptError struct{}

func (emptyPromptError) Error() string { return "engine: prompt tokenized to zero tokens" }

// IsEmptyPrompt reports whether err indicates an unusable prompt.
func IsEmptyPrompt(err error) bool {
	_, ok := err.(emptyPromptError)
	return ok
}
