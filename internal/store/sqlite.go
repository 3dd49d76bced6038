package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"questd/pkg/types"
)

const currentSchemaVersion = 1

// ErrNotFound is returned for updates/deletes against an unknown id.
var ErrNotFound = errors.New("store: record not found")

// SQLite is the two-table reference implementation of Store.
type SQLite struct {
	conn *sql.DB
	path string
}

// Open creates dataDir if needed and opens (or initializes) the database.
func Open(dataDir string) (*SQLite, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dbPath := filepath.Join(dataDir, "questd.db")
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	s := &SQLite{conn: conn, path: dbPath}
	if err := s.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) initSchema() error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`CREATE TABLE IF NOT EXISTS schema_meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		done INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		completed_at INTEGER NOT NULL DEFAULT 0
	)`); err != nil {
		return err
	}
	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS rewards (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		cost INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO schema_meta (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", currentSchemaVersion),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (s *SQLite) Close() error { return s.conn.Close() }

// InsertTask persists a draft under a fresh ULID and returns the record.
func (s *SQLite) InsertTask(ctx context.Context, draft types.TaskDraft) (types.Task, error) {
	task := types.Task{
		ID:          ulid.Make().String(),
		Title:       draft.Title,
		Description: draft.Description,
		Type:        draft.Type,
		CreatedAt:   time.Now().Unix(),
	}
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, type, done, created_at, completed_at)
		 VALUES (?, ?, ?, ?, 0, ?, 0)`,
		task.ID, task.Title, task.Description, string(task.Type), task.CreatedAt,
	)
	if err != nil {
		return types.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

// UpdateTask rewrites a task record in place.
func (s *SQLite) UpdateTask(ctx context.Context, task types.Task) error {
	done := 0
	if task.Done {
		done = 1
	}
	res, err := s.conn.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, type = ?, done = ?, completed_at = ? WHERE id = ?`,
		task.Title, task.Description, string(task.Type), done, task.CompletedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return checkAffected(res)
}

// DeleteTask removes a task by id.
func (s *SQLite) DeleteTask(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return checkAffected(res)
}

// ListTasks returns all tasks, newest first (ULIDs sort by creation time).
func (s *SQLite) ListTasks(ctx context.Context) ([]types.Task, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, description, type, done, created_at, completed_at FROM tasks ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		var t types.Task
		var typ string
		var done int
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &typ, &done, &t.CreatedAt, &t.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Type = types.TaskType(typ)
		t.Done = done != 0
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// InsertReward persists a shop entry under a fresh ULID.
func (s *SQLite) InsertReward(ctx context.Context, name string, cost int) (types.Reward, error) {
	r := types.Reward{
		ID:        ulid.Make().String(),
		Name:      name,
		Cost:      cost,
		CreatedAt: time.Now().Unix(),
	}
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO rewards (id, name, cost, created_at) VALUES (?, ?, ?, ?)`,
		r.ID, r.Name, r.Cost, r.CreatedAt,
	)
	if err != nil {
		return types.Reward{}, fmt.Errorf("insert reward: %w", err)
	}
	return r, nil
}

// DeleteReward removes a reward by id.
func (s *SQLite) DeleteReward(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM rewards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	return checkAffected(res)
}

// ListRewards returns all rewards, newest first.
func (s *SQLite) ListRewards(ctx context.Context) ([]types.Reward, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, cost, created_at FROM rewards ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []types.Reward
	for rows.Next() {
		var r types.Reward
		if err := rows.Scan(&r.ID, &r.Name, &r.Cost, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, r)
	}
	return rewards, rows.Err()
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
