package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind identifies a background maintenance task.
type Kind string

const (
	// KindDelegationSweep deactivates delegation grants whose window has
	// passed.
	KindDelegationSweep Kind = "delegation-sweep"
	// KindReportCleanup prunes generated report files past their retention.
	KindReportCleanup Kind = "report-cleanup"
)

// Task is a unit of maintenance work dispatched to a registered handler.
type Task struct {
	ID       string
	Kind     Kind
	Attempt  int
	Enqueued time.Time
}

// HandlerFunc executes one task.
type HandlerFunc func(context.Context, Task) error

// Config tunes the runner's worker pool and retry policy.
type Config struct {
	Workers     int
	Buffer      int
	MaxAttempts int
	Backoff     time.Duration
	Logger      *zap.Logger
}

// Runner executes maintenance tasks in-process. Handlers are registered per
// task kind before Start; failed tasks are retried with a fixed backoff until
// MaxAttempts is exhausted.
type Runner struct {
	handlers map[Kind]HandlerFunc

	workers     int
	maxAttempts int
	backoff     time.Duration
	logger      *zap.Logger

	tasks   chan Task
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewRunner builds a runner with no handlers registered.
func NewRunner(cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = cfg.Workers * 4
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Runner{
		handlers:    make(map[Kind]HandlerFunc),
		workers:     cfg.Workers,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		logger:      cfg.Logger,
		tasks:       make(chan Task, cfg.Buffer),
	}
}

// Handle registers the handler for a task kind. Must be called before Start.
func (r *Runner) Handle(kind Kind, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		panic("jobs: Handle called after Start")
	}
	r.handlers[kind] = fn
}

// Start launches the worker pool. Calling Start twice is a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.work()
	}
	r.started = true
	r.logger.Sugar().Infow("job runner started", "workers", r.workers, "kinds", len(r.handlers))
}

// Stop cancels the workers and waits for in-flight tasks to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.mu.Unlock()
	r.wg.Wait()
	r.logger.Sugar().Infow("job runner stopped")
}

// Enqueue submits a task for execution.
func (r *Runner) Enqueue(task Task) error {
	r.mu.Lock()
	ctx := r.ctx
	started := r.started
	r.mu.Unlock()

	if !started {
		return fmt.Errorf("job runner not started")
	}
	if task.Enqueued.IsZero() {
		task.Enqueued = time.Now().UTC()
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("job runner stopped: %w", ctx.Err())
	case r.tasks <- task:
		return nil
	}
}

func (r *Runner) work() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case task := <-r.tasks:
			fn, ok := r.handlers[task.Kind]
			if !ok {
				r.logger.Sugar().Errorw("no handler for task kind", "kind", task.Kind, "task_id", task.ID)
				continue
			}
			if err := fn(r.ctx, task); err != nil {
				r.retry(task, err)
			}
		}
	}
}

func (r *Runner) retry(task Task, cause error) {
	task.Attempt++
	if task.Attempt >= r.maxAttempts {
		r.logger.Sugar().Errorw("task abandoned after retries",
			"kind", task.Kind, "task_id", task.ID, "attempts", task.Attempt, "error", cause)
		return
	}
	r.logger.Sugar().Warnw("task failed, will retry",
		"kind", task.Kind, "task_id", task.ID, "attempt", task.Attempt, "error", cause)

	go func() {
		timer := time.NewTimer(r.backoff)
		defer timer.Stop()
		select {
		case <-r.ctx.Done():
		case <-timer.C:
			if err := r.Enqueue(task); err != nil {
				r.logger.Sugar().Errorw("failed to requeue task", "kind", task.Kind, "task_id", task.ID, "error", err)
			}
		}
	}()
}
