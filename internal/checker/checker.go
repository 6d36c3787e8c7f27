// Package checker runs the Python structural detectors over a snippet.
package checker

import (
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/pysyntax"
)

// Suggestions attached to issues
const (
	SuggestQuotes      = "Check for missing quotes or inconsistent indentation."
	SuggestExtraCloser = "Remove the extra closing bracket or add matching opening bracket."
	SuggestMismatch    = "Fix the matching bracket types."
	SuggestColon       = "Add a ':' at the end of this line."
	SuggestIndentation = "Check indentation levels (use consistent tabs/spaces; prefer 4 spaces)."
)

// Detector produces issues for one kind of structural problem.
type Detector struct {
	Name string
	Run  func(code string, outcome pysyntax.ParseOutcome) []domain.Issue
}

// Checker runs every detector and merges their findings
type Checker struct {
	detectors []Detector
	logger    *log.Logger
}

// New creates a checker with the standard detectors
func New() *Checker {
	return &Checker{
		detectors: []Detector{
			{Name: "tokenize", Run: detectTokenization},
			{Name: "brackets", Run: detectBrackets},
			{Name: "colon", Run: detectMissingColon},
			{Name: "indentation", Run: detectIndentation},
		},
		logger: log.New(io.Discard, "", 0),
	}
}

// SetLogger sets the logger used for detector tracing
func (c *Checker) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Check returns the deduplicated issues found in code, sorted by line.
func (c *Checker) Check(code string) []domain.Issue {
	var outcome pysyntax.ParseOutcome
	parsed := c.guard("parse", func() []domain.Issue {
		outcome = pysyntax.Parse(code)
		return nil
	})

	issues := append([]domain.Issue(nil), parsed...)
	for _, d := range c.detectors {
		found := c.guard(d.Name, func() []domain.Issue {
			return d.Run(code, outcome)
		})
		c.logger.Printf("detector %s: %d issue(s)", d.Name, len(found))
		issues = append(issues, found...)
	}

	// The authoritative parse only adds a message nobody reported yet.
	for _, is := range c.guard("parse", func() []domain.Issue { return parseIssue(outcome) }) {
		if !domain.HasMessage(issues, is.Message) {
			issues = append(issues, is)
		}
	}

	issues = domain.DedupIssues(issues)
	domain.SortIssues(issues)
	return issues
}

// guard converts a detector panic into a synthetic issue.
func (c *Checker) guard(name string, fn func() []domain.Issue) (issues []domain.Issue) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Printf("detector %s panicked: %v", name, r)
			issues = []domain.Issue{{
				Category: domain.CategorySyntaxError,
				Message:  fmt.Sprintf("%s failed: %v", name, r),
			}}
		}
	}()
	return fn()
}

// Check runs the standard detectors over code
func Check(code string) []domain.Issue {
	return New().Check(code)
}

func detectTokenization(code string, _ pysyntax.ParseOutcome) []domain.Issue {
	_, diag := pysyntax.Tokenize(code)
	if diag == nil {
		return nil
	}
	return []domain.Issue{{
		Category:   domain.CategoryUnclosedQuotes,
		Message:    "tokenize: " + diag.Error(),
		Suggestion: SuggestQuotes,
	}}
}

var pairs = map[rune]rune{')': '(', ']': '[', '}': '{'}

type opener struct {
	ch   rune
	line int
	col  int
}

func detectBrackets(code string, _ pysyntax.ParseOutcome) []domain.Issue {
	var (
		stack  []opener
		issues []domain.Issue
	)
	for i, line := range strings.Split(code, "\n") {
		lineno := i + 1
		col := 0
		for _, ch := range line {
			col++
			switch ch {
			case '(', '[', '{':
				stack = append(stack, opener{ch: ch, line: lineno, col: col})
			case ')', ']', '}':
				if len(stack) == 0 {
					issues = append(issues, domain.Issue{
						Category:   domain.CategoryUnmatchedBracket,
						Message:    fmt.Sprintf("Found closing %c without opening bracket.", ch),
						Line:       lineno,
						Column:     col,
						Suggestion: SuggestExtraCloser,
					})
					continue
				}
				top := stack[len(stack)-1]
				if top.ch == pairs[ch] {
					stack = stack[:len(stack)-1]
					continue
				}
				issues = append(issues, domain.Issue{
					Category:   domain.CategoryUnmatchedBracket,
					Message:    fmt.Sprintf("Bracket mismatch: found %c but last opening is %c.", ch, top.ch),
					Line:       lineno,
					Column:     col,
					Suggestion: SuggestMismatch,
				})
			}
		}
	}
	for _, o := range stack {
		issues = append(issues, domain.Issue{
			Category:   domain.CategoryUnmatchedBracket,
			Message:    fmt.Sprintf("Opening %c at line %d has no matching closing bracket.", o.ch, o.line),
			Line:       o.line,
			Column:     o.col,
			Suggestion: fmt.Sprintf("Add a closing bracket for %c.", o.ch),
		})
	}
	return issues
}

var colonKeywords = []string{"def", "class", "if", "elif", "else", "for", "while", "try", "except", "with"}

var colonPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(colonKeywords))
	for i, kw := range colonKeywords {
		out[i] = regexp.MustCompile(`^` + kw + `\b`)
	}
	return out
}()

func detectMissingColon(code string, _ pysyntax.ParseOutcome) []domain.Issue {
	var issues []domain.Issue
	for i, raw := range strings.Split(code, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		codePart, _, _ := strings.Cut(line, "#")
		codePart = strings.TrimRight(codePart, " \t\r")
		for k, re := range colonPatterns {
			if !re.MatchString(codePart) {
				continue
			}
			if !strings.HasSuffix(codePart, ":") {
				issues = append(issues, domain.Issue{
					Category:   domain.CategoryMissingColon,
					Message:    fmt.Sprintf("Probable missing ':' after statement starting with '%s'", colonKeywords[k]),
					Line:       i + 1,
					Snippet:    line,
					Suggestion: SuggestColon,
				})
			}
			break
		}
	}
	return issues
}

func detectIndentation(_ string, outcome pysyntax.ParseOutcome) []domain.Issue {
	d, failed := outcome.Diagnostic()
	if !failed || !d.IsIndentation() {
		return nil
	}
	return []domain.Issue{{
		Category:   domain.CategoryIndentationError,
		Message:    d.Error(),
		Line:       d.Line,
		Suggestion: SuggestIndentation,
	}}
}

var parseSuggestions = map[domain.Category]string{
	domain.CategoryMissingColon:     "Check for missing ':' after function/if/for/while/with/try/except/else.",
	domain.CategoryUnclosedQuotes:   "It looks like a string wasn't closed properly.",
	domain.CategoryIndentationError: "Fix indentation (consistent spaces/tabs).",
	domain.CategoryUnmatchedBracket: "Check parentheses/brackets.",
}

func parseIssue(outcome pysyntax.ParseOutcome) []domain.Issue {
	d, failed := outcome.Diagnostic()
	if !failed {
		return nil
	}
	category := pysyntax.ClassifyMessage(d.Msg)
	column := 0
	if d.Line > 0 {
		column = d.Col + 1
	}
	return []domain.Issue{{
		Category:   category,
		Message:    d.Error(),
		Line:       d.Line,
		Column:     column,
		Suggestion: parseSuggestions[category],
	}}
}
