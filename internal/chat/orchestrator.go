// Package chat is the conversation orchestrator: it receives a user
// message, asks the NLU pipeline for intent, and branches into task
// creation or question answering, rendering either path as a chat reply.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"questd/internal/nlu"
	"questd/internal/session"
	"questd/internal/store"
	"questd/pkg/types"
)

// Pipeline is the slice of the NLU pipeline the orchestrator consumes.
type Pipeline interface {
	DetectIntent(ctx context.Context, message string) types.Intent
	ExtractTaskInfo(ctx context.Context, message string) *types.TaskDraft
}

// Generation budgets per branch. Confirmation is cheap; answering gets a
// larger budget and a longer leash.
const (
	confirmMaxTokens = 40
	answerMaxTokens  = 120
)

// ErrEmptyMessage rejects blank input before any model work.
var ErrEmptyMessage = errors.New("chat: empty message")

// Config encapsulates orchestrator tunables.
type Config struct {
	ConfirmTimeout time.Duration
	AnswerTimeout  time.Duration
	Logger         zerolog.Logger
}

// Orchestrator wires pipeline, session and store into one chat turn.
type Orchestrator struct {
	nlu            Pipeline
	gen            nlu.Generator
	tasks          store.TaskStore
	canned         session.CannedResponder
	confirmTimeout time.Duration
	answerTimeout  time.Duration
	log            zerolog.Logger
}

// Reply is the rendered outcome of one chat turn.
type Reply struct {
	Message string
	Intent  types.Intent
	// Task is set when this turn created a task.
	Task *types.Task
	// FromModel is false when the message text came from a canned fallback.
	FromModel bool
}

// New constructs an Orchestrator.
func New(pipeline Pipeline, gen nlu.Generator, tasks store.TaskStore, cfg Config) *Orchestrator {
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 15 * time.Second
	}
	if cfg.AnswerTimeout <= 0 {
		cfg.AnswerTimeout = 20 * time.Second
	}
	return &Orchestrator{
		nlu:            pipeline,
		gen:            gen,
		tasks:          tasks,
		confirmTimeout: cfg.ConfirmTimeout,
		answerTimeout:  cfg.AnswerTimeout,
		log:            cfg.Logger,
	}
}

// HandleMessage runs one conversational turn. Intent detection fully
// completes before any second model call; the two AI sub-calls of a turn
// are never concurrent.
func (o *Orchestrator) HandleMessage(ctx context.Context, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}

	intent := o.nlu.DetectIntent(ctx, message)
	o.log.Debug().Str("intent", string(intent)).Msg("intent detected")

	if intent == types.IntentCreateTask {
		return o.createTask(ctx, message)
	}
	return o.answer(ctx, message, intent)
}

func (o *Orchestrator) createTask(ctx context.Context, message string) (Reply, error) {
	draft := o.nlu.ExtractTaskInfo(ctx, message)
	if draft == nil {
		// Intent said task but nothing extractable; ask, don't guess.
		return Reply{Message: o.canned.Clarify(), Intent: types.IntentUnclear}, nil
	}
	task, err := o.tasks.InsertTask(ctx, *draft)
	if err != nil {
		return Reply{}, err
	}
	o.log.Info().Str("task_id", task.ID).Str("title", task.Title).Str("type", string(task.Type)).Msg("task created")

	reply := Reply{Intent: types.IntentCreateTask, Task: &task}
	if text, ok := o.generate(ctx, nlu.ConfirmPrompt(task.Title), confirmMaxTokens, o.confirmTimeout); ok {
		reply.Message = text
		reply.FromModel = true
	} else {
		reply.Message = o.canned.Confirm(task.Title)
	}
	return reply, nil
}

func (o *Orchestrator) answer(ctx context.Context, message string, intent types.Intent) (Reply, error) {
	reply := Reply{Intent: intent}
	if text, ok := o.generate(ctx, nlu.AnswerPrompt(message), answerMaxTokens, o.answerTimeout); ok {
		reply.Message = text
		reply.FromModel = true
	} else {
		reply.Message = o.canned.Answer(message)
	}
	return reply, nil
}

// generate runs one model call and reports whether its output is usable.
// Any per-call failure is swallowed here: the turn falls back to a canned
// reply, never to an error shown to the user.
func (o *Orchestrator) generate(ctx context.Context, prompt string, maxTokens int, timeout time.Duration) (string, bool) {
	out, err := o.gen.Generate(ctx, prompt, maxTokens, timeout)
	if err != nil {
		o.log.Debug().Err(err).Msg("generation unavailable; using canned reply")
		return "", false
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", false
	}
	return out, true
}
