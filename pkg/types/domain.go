package types

// TaskType buckets a task for reward accounting. It is always assigned by
// deterministic keyword rules, never by the model.
type TaskType string

const (
	TaskMain  TaskType = "main"
	TaskDaily TaskType = "daily"
	TaskSide  TaskType = "side"
)

// Intent is the classification of a single chat message.
type Intent string

const (
	IntentCreateTask Intent = "create_task"
	IntentQuestion   Intent = "question"
	IntentUnclear    Intent = "unclear"
)

// TaskDraft is a transient, unpersisted task candidate produced by the NLU
// pipeline. The title is guaranteed to be 2-50 characters after trimming.
type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Type        TaskType `json:"type"`
}

// Task is a persisted task record.
type Task struct {
	// Stable identifier (ULID).
	// example: 01J9ZK2C4N8Q2V8Y0S3T5M7R9B
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Type        TaskType `json:"type"`
	Done        bool     `json:"done"`
	// Creation time in unix seconds.
	CreatedAt int64 `json:"created_at"`
	// Completion time in unix seconds; zero while open.
	CompletedAt int64 `json:"completed_at,omitempty"`
}

// Reward is a purchasable entry in the rewards shop.
type Reward struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Cost in coins.
	// example: 50
	Cost      int   `json:"cost"`
	CreatedAt int64 `json:"created_at"`
}
