package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

// CheckUseCase orchestrates the batch check workflow
type CheckUseCase struct {
	service    domain.CheckService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// Execute collects the source files under req.Paths and checks them
func (uc *CheckUseCase) Execute(ctx context.Context, req domain.CheckRequest) (*domain.CheckResult, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	files, err := ResolveFilePaths(
		uc.fileHelper,
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to collect files", err)
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no Python, Java, C or C++ files found in the specified paths", nil)
	}

	req.Paths = files

	result, err := uc.service.Check(ctx, req)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Write writes a result through the configured formatter
func (uc *CheckUseCase) Write(result *domain.CheckResult, format domain.OutputFormat, w io.Writer) error {
	if err := uc.formatter.WriteCheck(result, format, w); err != nil {
		return domain.NewOutputError("failed to write check result", err)
	}
	return nil
}

func (uc *CheckUseCase) validateRequest(req domain.CheckRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}
	if req.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative")
	}
	return nil
}

// CheckUseCaseBuilder provides a builder pattern for creating CheckUseCase
type CheckUseCaseBuilder struct {
	service    domain.CheckService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewCheckUseCaseBuilder creates a new builder
func NewCheckUseCaseBuilder() *CheckUseCaseBuilder {
	return &CheckUseCaseBuilder{}
}

// WithService sets the check service
func (b *CheckUseCaseBuilder) WithService(service domain.CheckService) *CheckUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *CheckUseCaseBuilder) WithFormatter(f domain.OutputFormatter) *CheckUseCaseBuilder {
	b.formatter = f
	return b
}

// WithFileHelper sets the file helper
func (b *CheckUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *CheckUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the CheckUseCase with the configured dependencies
func (b *CheckUseCaseBuilder) Build() (*CheckUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("check service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := &CheckUseCase{
		service:    b.service,
		formatter:  b.formatter,
		fileHelper: b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}
