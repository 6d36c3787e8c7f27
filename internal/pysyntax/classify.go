package pysyntax

import (
	"strings"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

type messageRule struct {
	all      []string
	any      []string
	category domain.Category
}

// Evaluated top to bottom; a rule matches when every "all" substring and at
// least one "any" substring (if given) occur in the lower-cased message.
var messageRules = []messageRule{
	{all: []string{"expected", ":"}, category: domain.CategoryMissingColon},
	{any: []string{"eof while scanning string literal", "unterminated string", "unterminated triple-quoted string"}, category: domain.CategoryUnclosedQuotes},
	{any: []string{"unexpected indent", "unindent does not match", "expected an indented block", "inconsistent use of tabs"}, category: domain.CategoryIndentationError},
	{any: []string{"parenthesis", "was never closed", "unmatched"}, category: domain.CategoryUnmatchedBracket},
}

// ClassifyMessage maps a parser diagnostic message to an error category.
func ClassifyMessage(msg string) domain.Category {
	text := strings.ToLower(msg)
	for _, rule := range messageRules {
		if rule.matches(text) {
			return rule.category
		}
	}
	return domain.CategorySyntaxError
}

func (r messageRule) matches(text string) bool {
	for _, s := range r.all {
		if !strings.Contains(text, s) {
			return false
		}
	}
	if len(r.any) == 0 {
		return true
	}
	for _, s := range r.any {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
