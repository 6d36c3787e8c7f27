package domain

// FixRequest asks the auto-fix engine to repair one snippet.
// LineHint is 1-based; 0 means no hint.
type FixRequest struct {
	Code     string
	Category Category
	LineHint int
	Language Language
}

// FixResult is the outcome of an auto-fix attempt.
// Success is true iff at least one change was applied.
type FixResult struct {
	FixedCode string   `json:"fixed_code" yaml:"fixed_code"`
	Changes   []string `json:"changes" yaml:"changes"`
	Success   bool     `json:"success" yaml:"success"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}
