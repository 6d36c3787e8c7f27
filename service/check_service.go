package service

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/config"
	"github.com/ludo-technologies/syntaxcheck/internal/constants"
	"github.com/ludo-technologies/syntaxcheck/internal/version"
)

// CheckServiceImpl implements domain.CheckService
type CheckServiceImpl struct {
	detection domain.DetectionService
	reader    domain.SourceFileReader
	cfg       config.CheckConfig
	progress  domain.ProgressManager
	logger    *log.Logger
}

// NewCheckService creates a batch check service. Files are read through
// reader and run through detection in parallel.
func NewCheckService(detection domain.DetectionService, reader domain.SourceFileReader, cfg *config.CheckConfig) *CheckServiceImpl {
	s := &CheckServiceImpl{
		detection: detection,
		reader:    reader,
		progress:  &NoOpProgressManager{},
		logger:    log.New(io.Discard, "", 0),
	}
	if cfg != nil {
		s.cfg = *cfg
	}
	return s
}

// SetProgressManager sets the progress manager used while files are checked
func (s *CheckServiceImpl) SetProgressManager(pm domain.ProgressManager) {
	if pm != nil {
		s.progress = pm
	}
}

// SetLogger sets the logger used for per-file failures
func (s *CheckServiceImpl) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// checkFileTask analyzes one file of a batch and stores its verdict
type checkFileTask struct {
	path      string
	reader    domain.SourceFileReader
	detection domain.DetectionService
	out       *domain.FileVerdict
}

func (t *checkFileTask) Name() string    { return t.path }
func (t *checkFileTask) IsEnabled() bool { return true }

func (t *checkFileTask) Execute(ctx context.Context) (interface{}, error) {
	content, err := t.reader.ReadFile(t.path)
	if err != nil {
		t.out.Error = err.Error()
		return nil, err
	}

	verdict, err := t.detection.Detect(ctx, domain.DetectRequest{Code: string(content), Filename: t.path})
	if err != nil {
		t.out.Error = err.Error()
		return nil, err
	}
	t.out.Verdict = verdict
	return verdict, nil
}

// Check runs detection over req.Paths, which must already be files.
func (s *CheckServiceImpl) Check(ctx context.Context, req domain.CheckRequest) (*domain.CheckResult, error) {
	start := time.Now()

	files := make([]domain.FileVerdict, len(req.Paths))
	tasks := make([]domain.ExecutableTask, len(req.Paths))
	for i, path := range req.Paths {
		files[i].Path = path
		tasks[i] = &checkFileTask{
			path:      path,
			reader:    s.reader,
			detection: s.detection,
			out:       &files[i],
		}
	}

	cfg := s.cfg
	if req.Concurrency > 0 {
		cfg.Concurrency = req.Concurrency
	}
	executor := NewParallelExecutor(&cfg).WithProgress(s.progress, "Checking files")

	if err := executor.Execute(ctx, tasks); err != nil {
		var agg *AggregatedError
		if !errors.As(err, &agg) {
			return nil, domain.NewAnalysisError("batch check failed", err)
		}
		for _, fe := range agg.Errors {
			s.logger.Print(fe.Error())
		}
		if agg.Skipped > 0 {
			s.logger.Printf("%d file(s) not started before the batch stopped", agg.Skipped)
		}
	}

	result := &domain.CheckResult{
		Files:       files,
		Summary:     summarize(files, req.Categories),
		Duration:    time.Since(start).Milliseconds(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.GetVersion(),
	}
	result.ExitCode = exitCode(result.Summary)
	result.Passed = result.ExitCode == constants.ExitClean
	return result, nil
}

// summarize marks failing files and counts verdicts. Files that were never
// reached, e.g. after a timeout, count as errored.
func summarize(files []domain.FileVerdict, failOn []domain.Category) domain.CheckSummary {
	summary := domain.CheckSummary{
		ByCategory: map[domain.Category]int{},
		ByLanguage: map[domain.Language]int{},
	}

	for i := range files {
		f := &files[i]
		if f.Verdict == nil {
			if f.Error == "" {
				f.Error = "not analyzed: execution stopped"
			}
			summary.FilesErrored++
			continue
		}

		summary.FilesAnalyzed++
		summary.ByLanguage[f.Verdict.Language]++
		if !f.Verdict.HasError() {
			continue
		}
		summary.ByCategory[f.Verdict.Category]++
		if selected(f.Verdict.Category, failOn) {
			f.Failed = true
			summary.FilesFailed++
		}
	}

	return summary
}

func selected(c domain.Category, failOn []domain.Category) bool {
	if len(failOn) == 0 {
		return true
	}
	for _, want := range failOn {
		if want == c {
			return true
		}
	}
	return false
}

func exitCode(s domain.CheckSummary) int {
	switch {
	case s.FilesErrored > 0:
		return constants.ExitAnalysisError
	case s.FilesFailed > 0:
		return constants.ExitErrorsFound
	default:
		return constants.ExitClean
	}
}
