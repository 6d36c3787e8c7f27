package domain

// EvidenceSource names which stage of the arbiter produced the category.
type EvidenceSource string

const (
	EvidenceStructural EvidenceSource = "structural"
	EvidenceHardRule   EvidenceSource = "hard_rule"
	EvidenceClassifier EvidenceSource = "classifier"
	EvidenceThreshold  EvidenceSource = "threshold"
)

// DelimiterRule is the name of the Java/C/C++ statement terminator rule.
const DelimiterRule = "statement-terminator"

// ClassificationResult is the classifier's raw answer for one snippet.
type ClassificationResult struct {
	Label      string   `json:"label" yaml:"label"`
	Category   Category `json:"category" yaml:"category"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Enhanced   bool     `json:"enhanced" yaml:"enhanced"`
}

// Explanation is the teaching text attached to a verdict.
type Explanation struct {
	Why string `json:"why" yaml:"why"`
	Fix string `json:"fix" yaml:"fix"`
}

// Evidence records how the arbiter reached its decision.
type Evidence struct {
	Source EvidenceSource `json:"source" yaml:"source"`
	Rule   string         `json:"rule,omitempty" yaml:"rule,omitempty"`
	Lines  []int          `json:"lines,omitempty" yaml:"lines,omitempty"`
	Label  string         `json:"label,omitempty" yaml:"label,omitempty"`
}

// Verdict is the final decision for one snippet.
type Verdict struct {
	Language    Language    `json:"language" yaml:"language"`
	Category    Category    `json:"category" yaml:"category"`
	Confidence  float64     `json:"confidence" yaml:"confidence"`
	Explanation Explanation `json:"explanation" yaml:"explanation"`
	Issues      []Issue     `json:"issues" yaml:"issues"`
	Evidence    Evidence    `json:"evidence" yaml:"evidence"`
}

// HasError reports whether the verdict names a defect.
func (v *Verdict) HasError() bool {
	return v != nil && v.Category.IsError()
}

// FirstLine returns the line of the first located issue, or 0.
func (v *Verdict) FirstLine() int {
	if v == nil {
		return 0
	}
	for _, is := range v.Issues {
		if is.HasLine() {
			return is.Line
		}
	}
	if len(v.Evidence.Lines) > 0 {
		return v.Evidence.Lines[0]
	}
	return 0
}
