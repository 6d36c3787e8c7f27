// Package testutil provides helper functions for testing syntaxcheck components
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/model"
)

// Vocabulary of the tiny test model. Each term pushes one label.
const (
	TermDivide = "divide"
	TermZero   = "zero"
	TermOK     = "ok"
	TermCast   = "cast"
	TermSemi   = "semi"
)

// Labels of the tiny test model, in encoded order.
var Labels = []string{"DivisionByZero", "NoError", "TypeMismatch", "MissingDelimiter"}

// Bundle returns a small artifact bundle over a word vocabulary. Text made of
// TermOK classifies as NoError, TermDivide/TermZero as DivisionByZero, TermCast
// as TypeMismatch and TermSemi as MissingDelimiter. Code with none of the terms
// gets a uniform distribution. When enhanced is set the default structural
// features are appended with zero weights.
func Bundle(enhanced bool) model.Bundle {
	var features []string
	if enhanced {
		features = model.DefaultFeatureNames
	}
	width := 5 + len(features)
	row := func(weights ...float64) []float64 {
		r := make([]float64, width)
		copy(r, weights)
		return r
	}
	return model.Bundle{
		Vectorizer: model.VectorizerState{
			Schema:    model.SchemaVersion,
			Analyzer:  model.AnalyzerWord,
			NgramMin:  1,
			NgramMax:  1,
			Lowercase: true,
			Vocabulary: map[string]int{
				TermZero: 0, TermDivide: 1, TermOK: 2, TermCast: 3, TermSemi: 4,
			},
		},
		Model: model.ModelState{
			Schema: model.SchemaVersion,
			Coef: [][]float64{
				row(3, 3, 0, 0, 0),
				row(0, 0, 3, 0, 0),
				row(0, 0, 0, 3, 0),
				row(0, 0, 0, 0, 3),
			},
			Intercept: []float64{0, 0, 0, 0},
		},
		Labels: model.LabelState{
			Schema:  model.SchemaVersion,
			Classes: Labels,
		},
		Features: features,
	}
}

// Artifacts builds in-memory artifacts from Bundle.
func Artifacts(t *testing.T, enhanced bool) *model.Artifacts {
	t.Helper()
	a, err := model.FromBundle(Bundle(enhanced))
	if err != nil {
		t.Fatalf("Failed to build test artifacts: %v", err)
	}
	return a
}

// WriteArtifacts saves Bundle into a fresh directory using the given set layout
// and returns the directory.
func WriteArtifacts(t *testing.T, set model.SetName, enhanced bool) string {
	t.Helper()
	dir := t.TempDir()
	if err := model.Save(dir, set, Bundle(enhanced)); err != nil {
		t.Fatalf("Failed to save test artifacts: %v", err)
	}
	return dir
}

// WriteSource writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// FixedClassifier always returns the same result and counts its calls.
type FixedClassifier struct {
	Result domain.ClassificationResult
	Calls  int
}

// Classify implements domain.Classifier
func (f *FixedClassifier) Classify(string) domain.ClassificationResult {
	f.Calls++
	return f.Result
}

// NewFixedClassifier returns a classifier predicting category with confidence.
func NewFixedClassifier(category domain.Category, confidence float64) *FixedClassifier {
	return &FixedClassifier{Result: domain.ClassificationResult{
		Label:      category.String(),
		Category:   category,
		Confidence: confidence,
	}}
}
