package domain

// LineCounts holds the physical line breakdown of a snippet.
type LineCounts struct {
	Total    int `json:"total" yaml:"total"`
	Code     int `json:"code" yaml:"code"`
	Comments int `json:"comments" yaml:"comments"`
	Blank    int `json:"blank" yaml:"blank"`
}

// NamingIssues lists identifiers that break the language's naming convention.
type NamingIssues struct {
	SnakeCase []string `json:"snake_case,omitempty" yaml:"snake_case,omitempty"`
	CamelCase []string `json:"camel_case,omitempty" yaml:"camel_case,omitempty"`
}

// Empty reports whether no violation was found.
func (n NamingIssues) Empty() bool {
	return len(n.SnakeCase) == 0 && len(n.CamelCase) == 0
}

// LongFunction is a function whose body exceeds the configured length.
type LongFunction struct {
	Name  string `json:"name" yaml:"name"`
	Line  int    `json:"line" yaml:"line"`
	Lines int    `json:"lines" yaml:"lines"`
}

// QualityReport holds the metrics shown next to a verdict.
// Score ranges over [0, 100].
type QualityReport struct {
	Score         float64        `json:"score" yaml:"score"`
	Lines         LineCounts     `json:"lines" yaml:"lines"`
	Complexity    int            `json:"complexity" yaml:"complexity"`
	CommentRatio  float64        `json:"comment_ratio" yaml:"comment_ratio"`
	AvgLineLength float64        `json:"avg_line_length" yaml:"avg_line_length"`
	Naming        NamingIssues   `json:"naming" yaml:"naming"`
	LongFunctions []LongFunction `json:"long_functions,omitempty" yaml:"long_functions,omitempty"`
	Suggestions   []string       `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}
