// Package store persists tasks and rewards. The chat core only ever sees
// the interfaces; the SQLite implementation is the reference collaborator
// the daemon runs with.
package store

import (
	"context"

	"questd/pkg/types"
)

// TaskStore is the task record boundary: simple insert/update/query/delete
// keyed by a generated unique identifier.
type TaskStore interface {
	InsertTask(ctx context.Context, draft types.TaskDraft) (types.Task, error)
	UpdateTask(ctx context.Context, task types.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context) ([]types.Task, error)
}

// RewardStore is the rewards-shop boundary.
type RewardStore interface {
	InsertReward(ctx context.Context, name string, cost int) (types.Reward, error)
	DeleteReward(ctx context.Context, id string) error
	ListRewards(ctx context.Context) ([]types.Reward, error)
}

// Store is the full two-table persistence surface.
type Store interface {
	TaskStore
	RewardStore
	Close() error
}
