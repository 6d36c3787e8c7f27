package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// DetectRequest asks for a verdict on a single snippet.
type DetectRequest struct {
	// Source text to analyze
	Code string

	// Filename is used for extension-based language identification; may be empty.
	Filename string
}

// ReportRequest represents a request for the full single-file report.
type ReportRequest struct {
	Path string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer

	// Report sections
	SuggestFix     bool
	IncludeQuality bool

	// Configuration
	ConfigPath string
}

// Report is everything printed for one analyzed file.
type Report struct {
	Path     string         `json:"path" yaml:"path"`
	Verdict  *Verdict       `json:"verdict" yaml:"verdict"`
	Fix      *FixResult     `json:"fix,omitempty" yaml:"fix,omitempty"`
	Quality  *QualityReport `json:"quality,omitempty" yaml:"quality,omitempty"`
	Warnings []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Code is the analyzed source, kept for the highlighted listing
	Code string `json:"-" yaml:"-"`

	// Metadata
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
}

// Classifier predicts an error category from raw text.
// Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(code string) ClassificationResult
}

// DetectionService runs the full detection pipeline for one snippet.
type DetectionService interface {
	Detect(ctx context.Context, req DetectRequest) (*Verdict, error)
}

// FixService applies conservative textual repairs.
type FixService interface {
	// Fix applies the repair for the requested category
	Fix(ctx context.Context, req FixRequest) FixResult

	// RequestFor derives a fix request from a verdict
	RequestFor(code string, verdict *Verdict) FixRequest

	// Suggest returns the proposed fix for a verdict, or nil when none applies
	Suggest(ctx context.Context, code string, verdict *Verdict) *FixResult
}

// QualityService computes quality metrics for a snippet.
type QualityService interface {
	Analyze(ctx context.Context, code string, lang Language) QualityReport
}

// SourceFileReader defines file operations over supported source files.
type SourceFileReader interface {
	// CollectSourceFiles recursively finds all supported source files in the given paths.
	CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads and decodes the content of a file
	ReadFile(path string) ([]byte, error)

	// IsSourceFile checks if a path has a supported source extension.
	IsSourceFile(path string) bool

	// FileExists checks if a file exists and returns an error if not
	FileExists(path string) (bool, error)
}

// OutputFormatter defines the interface for formatting results
type OutputFormatter interface {
	// Write writes a single-file report
	Write(report *Report, format OutputFormat, writer io.Writer) error

	// WriteCheck writes a batch check result
	WriteCheck(result *CheckResult, format OutputFormat, writer io.Writer) error
}
