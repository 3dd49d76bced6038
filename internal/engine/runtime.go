package engine

// Runtime abstracts the native model runtime used by the Binding.
// The concrete implementation (go-llama.cpp) lives behind the `llama`
// build tag; a refusing stub compiles otherwise.
type Runtime interface {
	// Load opens the model file and allocates a context sized to
	// p.CtxWindow. Returns an error if the file is unreadable or malformed.
	Load(path string, p Params) (Handle, error)
}

// Handle is one loaded model. It is exclusively owned by a Binding and is
// not safe for concurrent use: the native runtime is single-threaded.
type Handle interface {
	// Reset rebuilds the inference context, discarding the KV-cache so no
	// tokens from a previous call condition the next one.
	Reset() error
	// Predict runs the native decode/sample loop for up to maxTokens new
	// tokens, invoking onToken for each text fragment. Returning false from
	// onToken stops generation early. The end-of-sequence token terminates
	// the loop inside the runtime.
	Predict(prompt string, maxTokens int, onToken func(string) bool) (string, error)
	// Close frees sampler, context and model, in that order.
	Close() error
}
