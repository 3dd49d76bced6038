package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"questd/internal/common/fsutil"
	"questd/pkg/types"
)

// Engine is the slice of the binding the session depends on.
type Engine interface {
	Load(path string) error
	Generate(prompt string, maxTokens int) (string, error)
	Release()
}

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxTokens = 256
	defaultTimeout   = 20 * time.Second
)

// Config encapsulates all tunables for Session construction.
type Config struct {
	ModelPath string
	// MaxTokens caps the per-call token budget regardless of what the
	// caller asks for.
	MaxTokens int
	// DefaultTimeout applies when Generate is called with timeout <= 0.
	DefaultTimeout time.Duration
	Logger         zerolog.Logger
	Publisher      EventPublisher
}

// Session owns the engine binding and the one process-wide model lifecycle.
// The model handle never leaves the binding; all access is serialized
// through a single in-flight slot because the native runtime is not
// reentrant. Construct once and inject into consumers.
type Session struct {
	engine    Engine
	modelPath string
	maxTokens int
	timeout   time.Duration
	log       zerolog.Logger
	publisher EventPublisher

	// genCh serializes engine access: generation, load, reinit, release.
	genCh chan struct{}

	mu    sync.Mutex // guards state, cause and counters
	state State
	cause string

	generations uint64
	timeouts    uint64
	failures    uint64
	startTime   time.Time
}

// New constructs a Session around the given engine.
func New(engine Engine, cfg Config) *Session {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = defaultTimeout
	}
	if cfg.Publisher == nil {
		cfg.Publisher = noopPublisher{}
	}
	s := &Session{
		engine:    engine,
		modelPath: cfg.ModelPath,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.DefaultTimeout,
		log:       cfg.Logger,
		publisher: cfg.Publisher,
		genCh:     make(chan struct{}, 1),
		state:     StateUninitialized,
		startTime: time.Now(),
	}
	return s
}

// CheckAvailability reports whether the model artifact is present and
// non-empty. A pure stat: the artifact is never opened or loaded.
func (s *Session) CheckAvailability() bool {
	return fsutil.FilePresent(s.modelPath)
}

// Initialize drives Uninitialized → Checking → Loading → Ready. A missing
// artifact yields the NotFound state without touching the engine; this is
// an expected branch, reported via a typed error, not a failure. A load
// failure yields Error with the cause recorded. Already Ready is a no-op.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateReady {
		s.mu.Unlock()
		return nil
	}
	s.state = StateChecking
	s.cause = ""
	s.mu.Unlock()
	s.publisher.Publish(Event{Name: "init_start", Fields: map[string]any{"path": s.modelPath}})

	if !s.CheckAvailability() {
		s.mu.Lock()
		s.state = StateNotFound
		s.cause = "model artifact missing or empty: " + s.modelPath
		s.mu.Unlock()
		s.publisher.Publish(Event{Name: "model_not_found", Fields: map[string]any{"path": s.modelPath}})
		s.log.Warn().Str("path", s.modelPath).Msg("model artifact not found; running in rule-only mode")
		return ErrModelNotFound(s.modelPath)
	}

	sizeMB := fsutil.FileSizeMB(s.modelPath)
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()
	s.publisher.Publish(Event{Name: "load_start", Fields: map[string]any{"size_mb": sizeMB}})
	s.log.Info().Str("path", s.modelPath).Int("size_mb", sizeMB).Msg("loading model")

	// Serialize with any engine use; loading takes seconds to tens of seconds.
	select {
	case s.genCh <- struct{}{}:
	case <-ctx.Done():
		s.mu.Lock()
		s.state = StateError
		s.cause = ctx.Err().Error()
		s.mu.Unlock()
		return ctx.Err()
	}
	start := time.Now()
	err := s.engine.Load(s.modelPath)
	<-s.genCh

	if err != nil {
		s.mu.Lock()
		s.state = StateError
		s.cause = err.Error()
		s.mu.Unlock()
		s.publisher.Publish(Event{Name: "load_error", Fields: map[string]any{"cause": err.Error()}})
		s.log.Error().Err(err).Msg("model load failed")
		return fmt.Errorf("load model: %w", err)
	}

	s.mu.Lock()
	s.state = StateReady
	s.cause = ""
	s.mu.Unlock()
	s.publisher.Publish(Event{Name: "ready", Fields: map[string]any{"load_ms": time.Since(start).Milliseconds()}})
	s.log.Info().Dur("load", time.Since(start)).Msg("model ready")
	return nil
}

// Generate runs one prompt through the engine under a deadline. Only valid
// in the Ready state. The native call is not preemptible: when the deadline
// wins the race this returns a timed-out error and the detached call runs to
// natural completion in the background, its result discarded. Its runtime is
// bounded by the clamped token budget, so the worker goroutine cannot leak
// indefinitely. Per-call failures never change the session state.
func (s *Session) Generate(ctx context.Context, prompt string, maxTokens int, timeout time.Duration) (string, error) {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()
	if st != StateReady {
		return "", notReadyError{state: st}
	}
	if maxTokens <= 0 || maxTokens > s.maxTokens {
		maxTokens = s.maxTokens
	}
	if timeout <= 0 {
		timeout = s.timeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	// The deadline covers waiting for the single in-flight slot too: a slow
	// previous call must not silently extend this one's latency budget.
	select {
	case s.genCh <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		s.noteTimeout(timeout)
		return "", timedOutError{after: timeout}
	}

	type result struct {
		text string
		err  error
	}
	resCh := make(chan result, 1) // buffered: the detached call must not block on send
	go func() {
		defer func() { <-s.genCh }()
		text, err := s.engine.Generate(prompt, maxTokens)
		resCh <- result{text: text, err: err}
	}()

	select {
	case r := <-resCh:
		if r.err != nil {
			s.mu.Lock()
			s.failures++
			s.mu.Unlock()
			s.log.Debug().Err(r.err).Msg("generation failed")
			return "", r.err
		}
		s.mu.Lock()
		s.generations++
		s.mu.Unlock()
		return r.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		s.noteTimeout(timeout)
		return "", timedOutError{after: timeout}
	}
}

func (s *Session) noteTimeout(after time.Duration) {
	s.mu.Lock()
	s.timeouts++
	s.mu.Unlock()
	s.publisher.Publish(Event{Name: "generate_timeout", Fields: map[string]any{"after_ms": after.Milliseconds()}})
	s.log.Warn().Dur("after", after).Msg("generation abandoned; outcome unknown")
}

// Reinitialize releases current resources, resets to Uninitialized and
// re-runs initialization. Safe from Ready, Error or NotFound. It takes the
// same serialization as generation, so resources are never released under an
// in-flight call.
func (s *Session) Reinitialize(ctx context.Context) error {
	select {
	case s.genCh <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.engine.Release()
	s.mu.Lock()
	s.state = StateUninitialized
	s.cause = ""
	s.mu.Unlock()
	<-s.genCh
	s.publisher.Publish(Event{Name: "reinitialize", Fields: map[string]any{}})
	return s.Initialize(ctx)
}

// Release frees engine resources. Safe to call multiple times; must be
// invoked on daemon teardown.
func (s *Session) Release() {
	s.genCh <- struct{}{}
	s.engine.Release()
	s.mu.Lock()
	s.state = StateUninitialized
	s.cause = ""
	s.mu.Unlock()
	<-s.genCh
	s.publisher.Publish(Event{Name: "release", Fields: map[string]any{}})
}

// Ready reports whether the session can serve generations.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateReady
}

// State returns a read-only projection of the lifecycle state.
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, Cause: s.cause}
}

// Status assembles the API status payload.
func (s *Session) Status() types.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	return types.SessionStatus{
		State:          string(s.state),
		ModelPath:      s.modelPath,
		Cause:          s.cause,
		ModelSizeMB:    fsutil.FileSizeMB(s.modelPath),
		Generations:    s.generations,
		Timeouts:       s.timeouts,
		Failures:       s.failures,
		UptimeSeconds:  int64(now.Sub(s.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}
