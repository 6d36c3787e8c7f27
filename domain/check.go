package domain

import "context"

// CheckRequest represents a batch check over many files
type CheckRequest struct {
	Paths           []string
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Concurrency bounds the number of files analyzed at once; 0 means the default.
	Concurrency int

	// Categories restricts which categories count as failures; empty means all.
	Categories []Category

	ConfigPath string
}

// CheckResult represents the result of a batch check
type CheckResult struct {
	Passed      bool          `json:"passed" yaml:"passed"`
	ExitCode    int           `json:"exit_code" yaml:"exit_code"`
	Files       []FileVerdict `json:"files" yaml:"files"`
	Summary     CheckSummary  `json:"summary" yaml:"summary"`
	Duration    int64         `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string        `json:"generated_at" yaml:"generated_at"`
	Version     string        `json:"version" yaml:"version"`
}

// FileVerdict is the verdict for one file of a batch.
type FileVerdict struct {
	Path    string   `json:"path" yaml:"path"`
	Verdict *Verdict `json:"verdict,omitempty" yaml:"verdict,omitempty"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
	Failed  bool     `json:"failed" yaml:"failed"`
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	FilesAnalyzed int              `json:"files_analyzed" yaml:"files_analyzed"`
	FilesFailed   int              `json:"files_failed" yaml:"files_failed"`
	FilesErrored  int              `json:"files_errored" yaml:"files_errored"`
	ByCategory    map[Category]int `json:"by_category,omitempty" yaml:"by_category,omitempty"`
	ByLanguage    map[Language]int `json:"by_language,omitempty" yaml:"by_language,omitempty"`
}

// CheckService runs detection over a set of files.
type CheckService interface {
	Check(ctx context.Context, req CheckRequest) (*CheckResult, error)
}
