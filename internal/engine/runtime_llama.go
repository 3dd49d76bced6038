//go:build llama

package engine

import (
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// NewRuntime returns the in-process go-llama.cpp runtime.
func NewRuntime() Runtime { return llamaRuntime{} }

type llamaRuntime struct{}

func (llamaRuntime) Load(path string, p Params) (Handle, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model path is empty")
	}
	p = p.withDefaults()
	m, err := llama.New(path, llama.SetContext(p.CtxWindow))
	if err != nil {
		return nil, err
	}
	return &llamaHandle{model: m, path: path, params: p}, nil
}

// llamaHandle owns the loaded model.
type llamaHandle struct {
	model  *llama.LLama
	path   string
	params Params
}

// Reset rebuilds the inference state. go-llama.cpp exposes no context-level
// reset, so the memory-mapped model is reopened; this is the only way to
// guarantee a clean KV-cache through these bindings.
func (h *llamaHandle) Reset() error {
	if h.model == nil {
		return notLoadedError{}
	}
	h.model.Free()
	h.model = nil
	m, err := llama.New(h.path, llama.SetContext(h.params.CtxWindow))
	if err != nil {
		return err
	}
	h.model = m
	return nil
}

func (h *llamaHandle) Predict(prompt string, maxTokens int, onToken func(string) bool) (string, error) {
	if h.model == nil {
		return "", notLoadedError{}
	}
	if onToken != nil {
		h.model.SetTokenCallback(onToken)
		defer h.model.SetTokenCallback(nil)
	}
	po := []llama.PredictOption{
		llama.SetTokens(maxTokens),
		llama.SetThreads(h.params.Threads),
		llama.SetTemperature(h.params.Temperature),
		llama.SetTopK(h.params.TopK),
		llama.SetTopP(h.params.TopP),
	}
	if h.params.Seed != 0 {
		po = append(po, llama.SetSeed(h.params.Seed))
	}
	return h.model.Predict(prompt, po...)
}

func (h *llamaHandle) Close() error {
	if h.model != nil {
		h.model.Free()
		h.model = nil
	}
	return nil
}
