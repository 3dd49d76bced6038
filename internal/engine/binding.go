package engine

import (
	"strings"
	"sync"
)

// Binding owns at most one loaded model handle. The handle never escapes:
// callers load, generate and release through the Binding, which serializes
// every call because the native runtime is not reentrant.
type Binding struct {
	mu     sync.Mutex
	rt     Runtime
	params Params
	h      Handle
}

// New constructs a Binding over the given runtime. A nil runtime selects
// the build's default (go-llama.cpp with `-tags=llama`, refusing stub
// otherwise).
func New(rt Runtime, p Params) *Binding {
	if rt == nil {
		rt = NewRuntime()
	}
	return &Binding{rt: rt, params: p.withDefaults()}
}

// Params returns the fixed load configuration.
func (b *Binding) Params() Params { return b.params }

// Loaded reports whether a valid handle is held.
func (b *Binding) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.h != nil
}

// Load opens the model at path. A handle already held is released first so
// a failed reload never leaves a stale handle behind.
func (b *Binding) Load(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.h != nil {
		_ = b.h.Close()
		b.h = nil
	}
	h, err := b.rt.Load(path, b.params)
	if err != nil {
		return err
	}
	b.h = h
	return nil
}

// Generate produces up to maxTokens new tokens for prompt and returns the
// concatenated text fragments. The inference context is torn down and
// rebuilt first, trading per-call setup latency for the guarantee that no
// prior conversation tokens remain in the KV-cache.
func (b *Binding) Generate(prompt string, maxTokens int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.h == nil {
		return "", notLoadedError{}
	}
	promptTokens := EstimateTokens(prompt)
	if promptTokens <= 0 {
		return "", emptyPromptError{}
	}
	if maxTokens <= 0 {
		maxTokens = 1
	}
	maxTokens = ClampBudget(promptTokens, maxTokens, b.params.CtxWindow, b.params.TokenMargin)

	if err := b.h.Reset(); err != nil {
		return "", err
	}

	var sb strings.Builder
	emitted := 0
	text, err := b.h.Predict(prompt, maxTokens, func(frag string) bool {
		sb.WriteString(frag)
		emitted++
		return emitted < maxTokens
	})
	if err != nil {
		return "", err
	}
	// Some runtimes return the full completion, others only stream it.
	if text == "" {
		text = sb.String()
	}
	return text, nil
}

// Release frees the handle. Idempotent: releasing an already-released
// binding is a no-op.
func (b *Binding) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.h == nil {
		return
	}
	_ = b.h.Close()
	b.h = nil
}
