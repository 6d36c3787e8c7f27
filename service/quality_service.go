package service

import (
	"context"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/config"
	"github.com/ludo-technologies/syntaxcheck/internal/quality"
)

// QualityServiceImpl implements domain.QualityService
type QualityServiceImpl struct {
	analyzer *quality.Analyzer
}

// NewQualityService creates a quality service with the given thresholds
func NewQualityService(cfg *config.QualityConfig) *QualityServiceImpl {
	var t quality.Thresholds
	if cfg != nil {
		t = quality.Thresholds{
			MaxComplexity:    cfg.MaxComplexity,
			MinCommentRatio:  cfg.MinCommentRatio,
			MaxAvgLineLength: cfg.MaxAvgLineLength,
			MaxFunctionLines: cfg.MaxFunctionLines,
		}
	}
	return &QualityServiceImpl{analyzer: quality.NewAnalyzer(t)}
}

// Analyze computes the quality report for code written in lang
func (s *QualityServiceImpl) Analyze(ctx context.Context, code string, lang domain.Language) domain.QualityReport {
	return s.analyzer.Analyze(ctx, code, lang)
}
