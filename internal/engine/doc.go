// Package engine is the thin boundary over the native llama.cpp runtime.
// It is structured into small files by concern:
//
//   - params.go: fixed load/sampler configuration (Params).
//   - runtime.go: Runtime/Handle interfaces abstracting the native code.
//   - binding.go: Binding, the owner of one loaded model handle; implements
//     load, generate (with per-call context reset and token-budget clamping)
//     and idempotent release.
//   - tokens.go: prompt token estimation and budget arithmetic.
//   - errors.go: typed errors and Is* predicates.
//
// Build tags and runtimes:
//
//   - In-process llama: uses the go-llama.cpp bindings, enabled with
//     `-tags=llama`. Files: runtime_llama.go, llama_cgo.go (linker rpath
//     hints). Hot math stays in C/C++; this package only books tokens and
//     owns the handle lifecycle.
//   - Default builds are CGO-free: runtime_stub.go satisfies Runtime but
//     refuses to load, reporting a runtime-unavailable error instead of
//     mocking inference.
//
// The native runtime is single-threaded and not reentrant. Binding
// serializes all calls with an internal mutex; callers never see the raw
// handle.
package engine
