package model

import (
	"io"
	"log"
	"sort"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

// Classifier predicts an error category from raw text. It only reads the
// artifacts it was given and is safe for concurrent use.
type Classifier struct {
	artifacts *Artifacts
	logger    *log.Logger
}

// NewClassifier creates a classifier over loaded artifacts
func NewClassifier(a *Artifacts) *Classifier {
	return &Classifier{
		artifacts: a,
		logger:    log.New(io.Discard, "", 0),
	}
}

// SetLogger sets the logger used to report degraded classifications
func (c *Classifier) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Artifacts returns the artifacts backing the classifier
func (c *Classifier) Artifacts() *Artifacts {
	return c.artifacts
}

// Classify returns the most probable label and its probability.
func (c *Classifier) Classify(code string) domain.ClassificationResult {
	a := c.artifacts
	vec, enhanced := c.vectorize(code)

	proba := a.Model.PredictProba(vec)
	best := argmax(proba)
	label, err := a.Labels.Decode(a.Model.Classes()[best])
	if err != nil {
		c.logger.Printf("label decode failed: %v", err)
	}

	return domain.ClassificationResult{
		Label:      label,
		Category:   domain.CategoryFromLabel(label),
		Confidence: proba[best],
		Enhanced:   enhanced,
	}
}

// Distribution returns every label with its probability, most probable first.
func (c *Classifier) Distribution(code string) []LabelProbability {
	a := c.artifacts
	vec, _ := c.vectorize(code)

	proba := a.Model.PredictProba(vec)
	out := make([]LabelProbability, 0, len(proba))
	for i, p := range proba {
		label, _ := a.Labels.Decode(a.Model.Classes()[i])
		out = append(out, LabelProbability{Label: label, Probability: p})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Probability > out[j].Probability })
	return out
}

// LabelProbability pairs a label with its predicted probability.
type LabelProbability struct {
	Label       string  `json:"label" yaml:"label"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// vectorize builds the model input. When the structural features cannot be
// computed the text vector is used alone.
func (c *Classifier) vectorize(code string) (SparseVector, bool) {
	a := c.artifacts
	vec := a.Vectorizer.Transform(code)
	if !a.Enhanced() {
		return vec, false
	}
	extra, err := ExtractFeatures(a.Features, code)
	if err != nil {
		c.logger.Printf("feature augmentation skipped: %v", err)
		return vec, false
	}
	return appendDense(vec, a.Vectorizer.Dim(), extra), true
}

func appendDense(vec SparseVector, offset int, values []float64) SparseVector {
	out := make(SparseVector, len(vec), len(vec)+len(values))
	copy(out, vec)
	for i, v := range values {
		if v != 0 {
			out = append(out, Entry{Index: offset + i, Value: v})
		}
	}
	return out
}
