package domain

import "sort"

// Issue is a single structural finding. Line and Column are 1-based; 0 means unset.
type Issue struct {
	Category   Category `json:"category" yaml:"category"`
	Message    string   `json:"message" yaml:"message"`
	Line       int      `json:"line,omitempty" yaml:"line,omitempty"`
	Column     int      `json:"column,omitempty" yaml:"column,omitempty"`
	Snippet    string   `json:"snippet,omitempty" yaml:"snippet,omitempty"`
	Suggestion string   `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// HasLine reports whether the issue is anchored to a line.
func (i Issue) HasLine() bool {
	return i.Line > 0
}

// SortIssues orders issues by ascending line; issues without a line go last.
// The sort is stable so detector order breaks ties.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		la, lb := issues[a].Line, issues[b].Line
		switch {
		case la <= 0 && lb <= 0:
			return false
		case la <= 0:
			return false
		case lb <= 0:
			return true
		}
		return la < lb
	})
}

// DedupIssues drops issues whose message already appeared, keeping the first.
func DedupIssues(issues []Issue) []Issue {
	if len(issues) == 0 {
		return issues
	}
	seen := make(map[string]struct{}, len(issues))
	out := issues[:0:0]
	for _, is := range issues {
		if _, dup := seen[is.Message]; dup {
			continue
		}
		seen[is.Message] = struct{}{}
		out = append(out, is)
	}
	return out
}

// HasMessage reports whether any issue carries exactly msg.
func HasMessage(issues []Issue, msg string) bool {
	for _, is := range issues {
		if is.Message == msg {
			return true
		}
	}
	return false
}
