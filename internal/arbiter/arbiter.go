// Package arbiter turns structural issues and classifier output into a verdict.
package arbiter

import (
	"io"
	"log"
	"strings"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/explain"
)

// DefaultThreshold is the minimum classifier confidence trusted over NoError.
const DefaultThreshold = 0.65

// ClassifierSource returns the shared classifier, loading it on first use.
type ClassifierSource func() (domain.Classifier, error)

// Static wraps an already loaded classifier.
func Static(c domain.Classifier) ClassifierSource {
	return func() (domain.Classifier, error) {
		if c == nil {
			return nil, domain.NewModelUnavailableError("no classifier configured", nil)
		}
		return c, nil
	}
}

// Arbiter decides the final verdict for one snippet
type Arbiter struct {
	threshold  float64
	classifier ClassifierSource
	logger     *log.Logger
}

// New creates an arbiter. A threshold outside (0, 1] falls back to DefaultThreshold.
func New(classifier ClassifierSource, threshold float64) *Arbiter {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	if classifier == nil {
		classifier = Static(nil)
	}
	return &Arbiter{
		threshold:  threshold,
		classifier: classifier,
		logger:     log.New(io.Discard, "", 0),
	}
}

// SetLogger sets the logger used to trace decisions
func (a *Arbiter) SetLogger(logger *log.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// Threshold returns the confidence gate in use
func (a *Arbiter) Threshold() float64 {
	return a.threshold
}

// Decide produces the verdict. issues are the structural checker findings and
// are only meaningful for Python.
func (a *Arbiter) Decide(lang domain.Language, code string, issues []domain.Issue) (*domain.Verdict, error) {
	var v *domain.Verdict
	var err error
	switch {
	case lang == domain.LanguagePython:
		v = a.decideStructural(issues)
	case lang.UsesDelimiters():
		v, err = a.decideDelimited(lang, code)
	default:
		v, err = a.decideGated(code)
	}
	if err != nil {
		return nil, err
	}
	v.Language = lang
	v.Explanation = explain.For(v.Category, lang)
	a.logger.Printf("%s verdict: %s (%.2f, %s)", lang, v.Category, v.Confidence, v.Evidence.Source)
	return v, nil
}

// decideStructural trusts the checker completely. The classifier is never consulted.
func (a *Arbiter) decideStructural(issues []domain.Issue) *domain.Verdict {
	if len(issues) == 0 {
		return &domain.Verdict{
			Category:   domain.CategoryNoError,
			Confidence: 1.0,
			Issues:     []domain.Issue{},
			Evidence:   domain.Evidence{Source: domain.EvidenceStructural},
		}
	}

	sorted := append([]domain.Issue(nil), issues...)
	domain.SortIssues(sorted)
	var lines []int
	for _, is := range sorted {
		if is.HasLine() {
			lines = append(lines, is.Line)
		}
	}

	category := sorted[0].Category
	if !category.IsError() {
		category = domain.CategorySyntaxError
	}
	return &domain.Verdict{
		Category:   category,
		Confidence: 1.0,
		Issues:     sorted,
		Evidence:   domain.Evidence{Source: domain.EvidenceStructural, Lines: lines},
	}
}

func (a *Arbiter) decideDelimited(lang domain.Language, code string) (*domain.Verdict, error) {
	result, classifierErr := a.classify(code)

	violations := DelimiterViolations(code)
	if len(violations) > 0 {
		confidence := 1.0
		if classifierErr == nil {
			confidence = result.Confidence
		}
		return &domain.Verdict{
			Category:   domain.CategoryMissingDelimiter,
			Confidence: confidence,
			Issues:     []domain.Issue{},
			Evidence: domain.Evidence{
				Source: domain.EvidenceHardRule,
				Rule:   domain.DelimiterRule,
				Lines:  violations,
				Label:  result.Label,
			},
		}, nil
	}

	if classifierErr != nil {
		return nil, classifierErr
	}
	return a.gate(result), nil
}

func (a *Arbiter) decideGated(code string) (*domain.Verdict, error) {
	result, err := a.classify(code)
	if err != nil {
		return nil, err
	}
	return a.gate(result), nil
}

func (a *Arbiter) classify(code string) (domain.ClassificationResult, error) {
	c, err := a.classifier()
	if err != nil {
		if !domain.IsModelUnavailable(err) {
			err = domain.NewModelUnavailableError("classifier artifacts could not be loaded", err)
		}
		return domain.ClassificationResult{}, err
	}
	return c.Classify(code), nil
}

// gate keeps the prediction only when it clears the threshold.
func (a *Arbiter) gate(result domain.ClassificationResult) *domain.Verdict {
	v := &domain.Verdict{
		Category:   result.Category,
		Confidence: result.Confidence,
		Issues:     []domain.Issue{},
		Evidence:   domain.Evidence{Source: domain.EvidenceClassifier, Label: result.Label},
	}
	if result.Confidence < a.threshold {
		v.Category = domain.CategoryNoError
		v.Evidence.Source = domain.EvidenceThreshold
	}
	return v
}

// DelimiterViolations returns the 1-based numbers of non-blank lines that do
// not end with ';', '{' or '}'. Continuation and comment lines are included.
func DelimiterViolations(code string) []int {
	var out []int
	for i, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch trimmed[len(trimmed)-1] {
		case ';', '{', '}':
			continue
		}
		out = append(out, i+1)
	}
	return out
}
