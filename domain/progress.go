package domain

import "context"

// ProgressManager creates progress trackers for long-running work.
type ProgressManager interface {
	// StartTask begins a tracked task with a known total
	StartTask(description string, total int) TaskProgress

	// IsInteractive reports whether progress is rendered
	IsInteractive() bool

	// Close finishes all tasks
	Close()
}

// TaskProgress tracks a single task.
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ExecutableTask is a unit of work run by a ParallelExecutor.
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (interface{}, error)
	IsEnabled() bool
}

// ParallelExecutor runs tasks with bounded concurrency.
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}
