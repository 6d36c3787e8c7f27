package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/version"
)

// DetectUseCase orchestrates the single-file report workflow
type DetectUseCase struct {
	detection  domain.DetectionService
	fix        domain.FixService
	quality    domain.QualityService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// Analyze builds the report for req.Path without writing it
func (uc *DetectUseCase) Analyze(ctx context.Context, req domain.ReportRequest) (*domain.Report, error) {
	if req.Path == "" {
		return nil, domain.NewInvalidInputError("invalid request", fmt.Errorf("no input file specified"))
	}

	exists, err := uc.fileHelper.FileExists(req.Path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(req.Path, err)
	}
	if !exists {
		return nil, domain.NewFileNotFoundError(req.Path, fmt.Errorf("file does not exist"))
	}

	content, err := uc.fileHelper.ReadFile(req.Path)
	if err != nil {
		return nil, domain.NewInvalidInputError("failed to read "+req.Path, err)
	}
	code := string(content)

	verdict, err := uc.detection.Detect(ctx, domain.DetectRequest{Code: code, Filename: req.Path})
	if err != nil {
		if domain.IsModelUnavailable(err) {
			return nil, err
		}
		return nil, domain.NewAnalysisError("detection failed", err)
	}

	report := &domain.Report{
		Path:        req.Path,
		Verdict:     verdict,
		Warnings:    warningsFor(verdict),
		Code:        code,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.GetVersion(),
	}

	if req.SuggestFix && uc.fix != nil {
		report.Fix = uc.fix.Suggest(ctx, code, verdict)
	}
	if req.IncludeQuality && uc.quality != nil {
		q := uc.quality.Analyze(ctx, code, verdict.Language)
		report.Quality = &q
	}

	return report, nil
}

// Execute builds the report and writes it to req.OutputWriter
func (uc *DetectUseCase) Execute(ctx context.Context, req domain.ReportRequest) (*domain.Report, error) {
	if req.OutputWriter == nil {
		return nil, domain.NewInvalidInputError("invalid request", fmt.Errorf("output writer is required"))
	}

	report, err := uc.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := uc.formatter.Write(report, req.OutputFormat, req.OutputWriter); err != nil {
		return nil, domain.NewOutputError("failed to write report", err)
	}
	return report, nil
}

func warningsFor(v *domain.Verdict) []string {
	var warnings []string
	if v.Language == domain.LanguageUnknown {
		warnings = append(warnings, "language could not be identified; the verdict relies on the classifier alone")
	}
	if v.Evidence.Source == domain.EvidenceThreshold && v.Evidence.Label != "" {
		warnings = append(warnings, fmt.Sprintf("classifier suggested %s with %.2f%% confidence, below the threshold",
			v.Evidence.Label, v.Confidence*100))
	}
	return warnings
}

// DetectUseCaseBuilder provides a builder pattern for creating DetectUseCase
type DetectUseCaseBuilder struct {
	detection  domain.DetectionService
	fix        domain.FixService
	quality    domain.QualityService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewDetectUseCaseBuilder creates a new builder
func NewDetectUseCaseBuilder() *DetectUseCaseBuilder {
	return &DetectUseCaseBuilder{}
}

// WithDetectionService sets the detection service
func (b *DetectUseCaseBuilder) WithDetectionService(s domain.DetectionService) *DetectUseCaseBuilder {
	b.detection = s
	return b
}

// WithFixService sets the fix service
func (b *DetectUseCaseBuilder) WithFixService(s domain.FixService) *DetectUseCaseBuilder {
	b.fix = s
	return b
}

// WithQualityService sets the quality service
func (b *DetectUseCaseBuilder) WithQualityService(s domain.QualityService) *DetectUseCaseBuilder {
	b.quality = s
	return b
}

// WithFormatter sets the output formatter
func (b *DetectUseCaseBuilder) WithFormatter(f domain.OutputFormatter) *DetectUseCaseBuilder {
	b.formatter = f
	return b
}

// WithFileHelper sets the file helper
func (b *DetectUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *DetectUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the DetectUseCase with the configured dependencies
func (b *DetectUseCaseBuilder) Build() (*DetectUseCase, error) {
	if b.detection == nil {
		return nil, fmt.Errorf("detection service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := &DetectUseCase{
		detection:  b.detection,
		fix:        b.fix,
		quality:    b.quality,
		formatter:  b.formatter,
		fileHelper: b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}
