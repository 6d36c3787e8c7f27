package service

import (
	"context"
	"io"
	"log"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/autofix"
)

// FixServiceImpl implements domain.FixService
type FixServiceImpl struct {
	logger *log.Logger
}

// NewFixService creates a new fix service
func NewFixService() *FixServiceImpl {
	return &FixServiceImpl{logger: log.New(io.Discard, "", 0)}
}

// SetLogger sets the logger used to report absorbed fix failures
func (s *FixServiceImpl) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Fix applies the repair for the requested category
func (s *FixServiceImpl) Fix(ctx context.Context, req domain.FixRequest) domain.FixResult {
	if ctx.Err() != nil {
		return domain.FixResult{FixedCode: req.Code, Changes: []string{}, Error: ctx.Err().Error()}
	}
	result := autofix.Apply(req)
	if result.Error != "" {
		s.logger.Printf("auto-fix for %s failed: %s", req.Category, result.Error)
	}
	return result
}

// RequestFor derives a fix request from a verdict. Python repairs target the
// first located issue; Java, C and C++ repairs scan every line.
func (s *FixServiceImpl) RequestFor(code string, verdict *domain.Verdict) domain.FixRequest {
	req := domain.FixRequest{Code: code}
	if verdict == nil {
		return req
	}
	req.Category = verdict.Category
	req.Language = verdict.Language
	if verdict.Language == domain.LanguagePython {
		req.LineHint = verdict.FirstLine()
	}
	return req
}

// Suggest returns the proposed fix for a verdict, or nil when the verdict has
// no repairable error.
func (s *FixServiceImpl) Suggest(ctx context.Context, code string, verdict *domain.Verdict) *domain.FixResult {
	if !verdict.HasError() || !autofix.Fixable(verdict.Category, verdict.Language) {
		return nil
	}
	result := s.Fix(ctx, s.RequestFor(code, verdict))
	return &result
}
