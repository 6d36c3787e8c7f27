package service

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/arbiter"
	"github.com/ludo-technologies/syntaxcheck/internal/checker"
	"github.com/ludo-technologies/syntaxcheck/internal/langid"
	"github.com/ludo-technologies/syntaxcheck/internal/model"
)

// ClassifierProvider loads the classifier artifacts once and shares them.
// A failed load is remembered; later calls return the same error.
type ClassifierProvider struct {
	dir    string
	load   func() (*model.Classifier, error)
	logger *log.Logger
}

// NewClassifierProvider creates a provider reading artifacts from dir on first use.
func NewClassifierProvider(dir string) *ClassifierProvider {
	p := &ClassifierProvider{
		dir:    dir,
		logger: log.New(io.Discard, "", 0),
	}
	p.load = sync.OnceValues(p.loadClassifier)
	return p
}

// SetLogger sets the logger used to report the artifact load
func (p *ClassifierProvider) SetLogger(logger *log.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

func (p *ClassifierProvider) loadClassifier() (*model.Classifier, error) {
	artifacts, err := model.Load(p.dir)
	if err != nil {
		p.logger.Printf("classifier unavailable: %v", err)
		return nil, domain.NewModelUnavailableError("classifier artifacts could not be loaded", err)
	}
	p.logger.Printf("loaded %s artifact set from %s (%d classes, enhanced=%t)",
		artifacts.Manifest.Set, p.dir, artifacts.Labels.Len(), artifacts.Enhanced())
	c := model.NewClassifier(artifacts)
	c.SetLogger(p.logger)
	return c, nil
}

// Classifier returns the shared classifier, loading it on first use.
func (p *ClassifierProvider) Classifier() (*model.Classifier, error) {
	return p.load()
}

// Source adapts the provider to the arbiter.
func (p *ClassifierProvider) Source() arbiter.ClassifierSource {
	return func() (domain.Classifier, error) {
		c, err := p.load()
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// DetectionServiceImpl implements domain.DetectionService
type DetectionServiceImpl struct {
	checker *checker.Checker
	arbiter *arbiter.Arbiter
	logger  *log.Logger
}

// NewDetectionService creates a detection service over a classifier source and
// confidence threshold.
func NewDetectionService(source arbiter.ClassifierSource, threshold float64) *DetectionServiceImpl {
	return &DetectionServiceImpl{
		checker: checker.New(),
		arbiter: arbiter.New(source, threshold),
		logger:  log.New(io.Discard, "", 0),
	}
}

// SetLogger routes pipeline tracing to logger
func (s *DetectionServiceImpl) SetLogger(logger *log.Logger) {
	if logger == nil {
		return
	}
	s.logger = logger
	s.checker.SetLogger(logger)
	s.arbiter.SetLogger(logger)
}

// Detect identifies the language, runs the structural checker for Python and
// lets the arbiter decide.
func (s *DetectionServiceImpl) Detect(ctx context.Context, req domain.DetectRequest) (*domain.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lang := langid.Identify(req.Code, req.Filename)
	s.logger.Printf("%s: language %s", displayName(req.Filename), lang)

	var issues []domain.Issue
	if lang == domain.LanguagePython {
		issues = s.checker.Check(req.Code)
		s.logger.Printf("%s: %d structural issue(s)", displayName(req.Filename), len(issues))
	}

	verdict, err := s.arbiter.Decide(lang, req.Code, issues)
	if err != nil {
		return nil, err
	}
	return verdict, nil
}

func displayName(filename string) string {
	if filename == "" {
		return "<input>"
	}
	return filename
}
