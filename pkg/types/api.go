package types

// ChatRequest is the payload for POST /chat.
type ChatRequest struct {
	// Required user message to interpret.
	// example: help me build a habit of reading every night
	Message string `json:"message" example:"help me build a habit of reading every night"`
}

// ChatResponse is the result of one conversational turn.
type ChatResponse struct {
	// Assistant reply rendered for the chat transcript.
	Reply string `json:"reply"`
	// Detected intent for this message.
	// example: create_task
	Intent Intent `json:"intent" example:"create_task"`
	// Task created during this turn, if any.
	Task *Task `json:"task,omitempty"`
	// True when the reply text came from the model rather than a canned fallback.
	// example: true
	FromModel bool `json:"from_model" example:"true"`
}

// SessionStatus is returned by GET /status.
type SessionStatus struct {
	// Lifecycle state of the inference session.
	// example: ready
	State string `json:"state" example:"ready"`
	// Absolute path of the model artifact.
	ModelPath string `json:"model_path"`
	// Human-readable cause recorded for error/not_found states.
	Cause string `json:"cause,omitempty"`
	// Model artifact size in MB (0 when absent).
	// example: 668
	ModelSizeMB int `json:"model_size_mb"`
	// Completed generations since startup.
	Generations uint64 `json:"generations"`
	// Generations abandoned because the per-call deadline elapsed.
	Timeouts uint64 `json:"timeouts"`
	// Generations that returned an error from the engine.
	Failures uint64 `json:"failures"`
	// Uptime of the daemon in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	ServerTimeUnix int64 `json:"server_time_unix"`
}

// TasksResponse wraps the list returned by GET /tasks.
type TasksResponse struct {
	Tasks []Task `json:"tasks"`
}

// RewardsResponse wraps the list returned by GET /rewards.
type RewardsResponse struct {
	Rewards []Reward `json:"rewards"`
}

// RewardRequest is the payload for POST /rewards.
type RewardRequest struct {
	// Display name of the shop entry.
	// example: movie night
	Name string `json:"name" example:"movie night"`
	// Cost in coins; must be positive.
	// example: 50
	Cost int `json:"cost" example:"50"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
