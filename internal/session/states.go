package session

// State is the lifecycle state of the inference session. Transitions are
// one-directional (Uninitialized → Checking → Loading → Ready | Error |
// NotFound) except for the explicit reset performed by Reinitialize.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateChecking      State = "checking"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	// StateError records a native load/context-creation failure; recoverable
	// only via Reinitialize.
	StateError State = "error"
	// StateNotFound records a missing model artifact. Distinct from
	// StateError: provisioning is an expected branch, not a failure.
	StateNotFound State = "not_found"
)

// Snapshot is a read-only projection of the session state.
type Snapshot struct {
	State State
	// Cause holds the human-readable reason for Error/NotFound states.
	Cause string
}
