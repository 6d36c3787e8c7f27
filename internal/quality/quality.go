// Package quality computes lightweight code quality metrics for a snippet.
package quality

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

// Thresholds controls when a metric costs points and produces a suggestion.
type Thresholds struct {
	MaxComplexity    int     `mapstructure:"max_complexity" yaml:"max_complexity" json:"max_complexity"`
	MinCommentRatio  float64 `mapstructure:"min_comment_ratio" yaml:"min_comment_ratio" json:"min_comment_ratio"`
	MaxAvgLineLength float64 `mapstructure:"max_avg_line_length" yaml:"max_avg_line_length" json:"max_avg_line_length"`
	MaxFunctionLines int     `mapstructure:"max_function_lines" yaml:"max_function_lines" json:"max_function_lines"`
}

// DefaultThresholds returns the stock thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxComplexity:    10,
		MinCommentRatio:  10,
		MaxAvgLineLength: 100,
		MaxFunctionLines: 50,
	}
}

// Analyzer computes quality reports
type Analyzer struct {
	thresholds Thresholds
}

// NewAnalyzer creates an analyzer. Zero thresholds take their default.
func NewAnalyzer(t Thresholds) *Analyzer {
	d := DefaultThresholds()
	if t.MaxComplexity <= 0 {
		t.MaxComplexity = d.MaxComplexity
	}
	if t.MinCommentRatio <= 0 {
		t.MinCommentRatio = d.MinCommentRatio
	}
	if t.MaxAvgLineLength <= 0 {
		t.MaxAvgLineLength = d.MaxAvgLineLength
	}
	if t.MaxFunctionLines <= 0 {
		t.MaxFunctionLines = d.MaxFunctionLines
	}
	return &Analyzer{thresholds: t}
}

// Analyze computes the report with default thresholds
func Analyze(ctx context.Context, code string, lang domain.Language) domain.QualityReport {
	return NewAnalyzer(DefaultThresholds()).Analyze(ctx, code, lang)
}

// Analyze computes the quality report for code written in lang.
func (a *Analyzer) Analyze(ctx context.Context, code string, lang domain.Language) domain.QualityReport {
	lines := strings.Split(code, "\n")
	counts := countLines(lines, lang)

	var commentRatio float64
	if counts.Total > 0 {
		commentRatio = float64(counts.Comments) / float64(counts.Total) * 100
	}
	avgLen := averageLineLength(lines)

	report := domain.QualityReport{
		Lines:         counts,
		CommentRatio:  round2(commentRatio),
		AvgLineLength: round2(avgLen),
	}

	if s, ok := analyzeStructure(ctx, code, lang); ok {
		report.Complexity = s.complexity
		report.Naming = checkNaming(s.functions, lang)
		for _, fn := range s.functions {
			if fn.lines > a.thresholds.MaxFunctionLines {
				report.LongFunctions = append(report.LongFunctions, domain.LongFunction{
					Name:  fn.name,
					Line:  fn.line,
					Lines: fn.lines,
				})
			}
		}
	} else {
		report.Complexity = keywordComplexity(code)
	}

	report.Suggestions = a.suggestions(report, commentRatio, avgLen)
	report.Score = round2(a.score(report.Complexity, commentRatio, avgLen, len(report.LongFunctions)))
	return report
}

func (a *Analyzer) score(complexity int, commentRatio, avgLen float64, longFuncs int) float64 {
	t := a.thresholds
	score := 100.0
	if complexity > t.MaxComplexity {
		score -= math.Min(float64(complexity-t.MaxComplexity)*2, 30)
	}
	if commentRatio < t.MinCommentRatio {
		score -= t.MinCommentRatio - commentRatio
	}
	if avgLen > t.MaxAvgLineLength {
		score -= math.Min((avgLen-t.MaxAvgLineLength)/5, 20)
	}
	score -= float64(longFuncs * 5)
	return math.Max(score, 0)
}

func (a *Analyzer) suggestions(r domain.QualityReport, commentRatio, avgLen float64) []string {
	t := a.thresholds
	var out []string
	if r.Complexity > t.MaxComplexity {
		out = append(out, fmt.Sprintf("High complexity (%d). Consider refactoring.", r.Complexity))
	}
	if commentRatio < t.MinCommentRatio {
		out = append(out, fmt.Sprintf("Low comment ratio (%.1f%%). Add more documentation.", commentRatio))
	}
	if avgLen > t.MaxAvgLineLength {
		out = append(out, fmt.Sprintf("Long lines (avg %.0f chars). Keep under 80-100 chars.", avgLen))
	}
	if len(r.LongFunctions) > 0 {
		names := make([]string, len(r.LongFunctions))
		for i, fn := range r.LongFunctions {
			names[i] = fmt.Sprintf("%s (%d lines)", fn.Name, fn.Lines)
		}
		out = append(out, "Long functions detected: "+strings.Join(names, ", "))
	}
	if !r.Naming.Empty() {
		out = append(out, "Naming convention violations detected.")
	}
	return out
}

func countLines(lines []string, lang domain.Language) domain.LineCounts {
	counts := domain.LineCounts{Total: len(lines)}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			counts.Blank++
		case isComment(trimmed, lang):
			counts.Comments++
		default:
			counts.Code++
		}
	}
	return counts
}

func isComment(trimmed string, lang domain.Language) bool {
	switch {
	case lang == domain.LanguagePython:
		return strings.HasPrefix(trimmed, "#")
	case lang.UsesDelimiters():
		return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*")
	}
	return false
}

func averageLineLength(lines []string) float64 {
	var total, n int
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		total += utf8.RuneCountInString(line)
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// checkNaming flags Python functions that are neither lower case nor
// underscored, and Java methods starting with an upper case letter.
func checkNaming(functions []function, lang domain.Language) domain.NamingIssues {
	var issues domain.NamingIssues
	for _, fn := range functions {
		if fn.name == "" {
			continue
		}
		switch lang {
		case domain.LanguagePython:
			if !isLower(fn.name) && !strings.Contains(fn.name, "_") {
				issues.SnakeCase = append(issues.SnakeCase, fn.name)
			}
		case domain.LanguageJava:
			if fn.kind == "constructor_declaration" {
				continue
			}
			r, _ := utf8.DecodeRuneInString(fn.name)
			if unicode.IsUpper(r) {
				issues.CamelCase = append(issues.CamelCase, fn.name)
			}
		}
	}
	return issues
}

// isLower reports whether s has a cased letter and no upper case ones.
func isLower(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
