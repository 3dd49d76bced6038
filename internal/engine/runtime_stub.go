//go:build !llama

package engine

// This file provides a no-CGO stub for the llama runtime. It is compiled
// when the `llama` build tag is NOT set, keeping default builds and CI
// CGO-free. The real runtime lives in runtime_llama.go (tagged `llama`).

// llamaBuilt indicates this binary was compiled without real llama support.
var llamaBuilt = false

// NewRuntime returns a stub that satisfies Runtime but refuses to load a
// model. This avoids any mocked inference in binaries built without CGO;
// callers observe the runtime-unavailable error and stay in rule-only mode.
func NewRuntime() Runtime { return stubRuntime{} }

type stubRuntime struct{}

func (stubRuntime) Load(path string, p Params) (Handle, error) {
	return nil, ErrRuntimeUnavailable("llama support not built (missing 'llama' build tag)")
}
