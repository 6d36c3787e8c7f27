package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/config"
)

// DefaultTimeout bounds a whole batch when the configuration leaves it unset
const DefaultTimeout = 5 * time.Minute

// FileError is the failure of one file of a batch
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// AggregatedError collects the failed files of a batch, sorted by path.
// Skipped counts the files that were never started because the batch stopped.
type AggregatedError struct {
	Errors  []FileError
	Skipped int
}

func (e *AggregatedError) Error() string {
	var msg string
	switch len(e.Errors) {
	case 0:
		msg = "no errors"
	case 1:
		msg = e.Errors[0].Error()
	default:
		parts := make([]string, len(e.Errors))
		for i, fe := range e.Errors {
			parts[i] = fe.Error()
		}
		msg = fmt.Sprintf("%d files failed: %s", len(e.Errors), strings.Join(parts, "; "))
	}
	if e.Skipped > 0 {
		msg += fmt.Sprintf(" (%d not started)", e.Skipped)
	}
	return msg
}

// Unwrap exposes every file failure to errors.Is and errors.As
func (e *AggregatedError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		errs[i] = fe
	}
	return errs
}

// ParallelExecutorImpl implements domain.ParallelExecutor. One task per file;
// a failing file never stops the others, only the batch deadline or the
// caller's context does.
type ParallelExecutorImpl struct {
	limit    int
	timeout  time.Duration
	progress domain.ProgressManager
	label    string
}

// NewParallelExecutor creates an executor bounded by cfg. A missing or
// non-positive concurrency uses one worker per CPU.
func NewParallelExecutor(cfg *config.CheckConfig) *ParallelExecutorImpl {
	e := &ParallelExecutorImpl{
		limit:   runtime.NumCPU(),
		timeout: DefaultTimeout,
		label:   "Checking files",
	}
	if cfg == nil {
		return e
	}
	if cfg.Concurrency > 0 {
		e.limit = cfg.Concurrency
	}
	if cfg.TimeoutSeconds > 0 {
		e.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return e
}

// WithProgress reports each finished file to pm under label
func (e *ParallelExecutorImpl) WithProgress(pm domain.ProgressManager, label string) *ParallelExecutorImpl {
	e.progress = pm
	if label != "" {
		e.label = label
	}
	return e
}

// Execute runs the enabled tasks. It returns an *AggregatedError when any
// file failed, and a wrapped context error when the batch stopped before
// every file was started.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	var enabled []domain.ExecutableTask
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var bar domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		bar = e.progress.StartTask(e.label, len(enabled))
	}
	defer bar.Complete()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	var (
		mu      sync.Mutex
		failed  []FileError
		started int
	)
	for _, t := range enabled {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mu.Lock()
			started++
			mu.Unlock()

			_, err := t.Execute(gctx)
			bar.Describe(t.Name())
			bar.Increment(1)

			if err != nil {
				mu.Lock()
				failed = append(failed, FileError{Path: t.Name(), Err: err})
				mu.Unlock()
			}
			return nil
		})
	}

	stopErr := g.Wait()
	skipped := len(enabled) - started

	if len(failed) > 0 {
		sort.Slice(failed, func(i, j int) bool { return failed[i].Path < failed[j].Path })
		return &AggregatedError{Errors: failed, Skipped: skipped}
	}
	if stopErr != nil {
		return fmt.Errorf("execution stopped with %d of %d files not started: %w", skipped, len(enabled), stopErr)
	}
	return nil
}
