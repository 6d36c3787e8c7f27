// Package autofix applies small, conservative repairs for detected categories.
package autofix

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

var colonMarkers = []string{"if ", "elif ", "else", "for ", "while ", "def ", "class ", "try", "except", "finally", "with "}

// Lines containing any of these are never given a semicolon.
var semicolonSkip = []string{"{", "}", "//", "/*", "*/", "if ", "for ", "while "}

// Extra exclusions when scanning without a line hint.
var semicolonScanSkip = []string{"else", "class ", "public ", "private"}

var statementMarkers = []string{"int ", "float ", "double ", "String ", "char ", "boolean ", "="}

var closers = map[rune]rune{'(': ')', '[': ']', '{': '}'}

// fixer accumulates the changes of one Apply call.
type fixer struct {
	changes []string
}

func (f *fixer) record(format string, args ...any) {
	f.changes = append(f.changes, fmt.Sprintf(format, args...))
}

// Apply repairs req.Code for req.Category. The original text is returned
// unchanged when nothing applies or the repair fails.
func Apply(req domain.FixRequest) (result domain.FixResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.FixResult{
				FixedCode: req.Code,
				Changes:   []string{},
				Success:   false,
				Error:     fmt.Sprint(r),
			}
		}
	}()

	f := &fixer{}
	code := req.Code

	switch req.Category {
	case domain.CategoryMissingDelimiter:
		switch {
		case req.Language == domain.LanguagePython:
			code = f.colon(code, req.LineHint)
		case req.Language.UsesDelimiters():
			code = f.semicolon(code, req.LineHint)
		}
	case domain.CategoryMissingColon:
		code = f.colon(code, req.LineHint)
	case domain.CategoryMissingSemicolon:
		code = f.semicolon(code, req.LineHint)
	case domain.CategoryIndentationError:
		code = f.indentation(code)
	case domain.CategoryUnmatchedBracket:
		code = f.brackets(code)
	case domain.CategoryUnclosedQuotes, domain.CategoryUnclosedString:
		code = f.quotes(code)
	case domain.CategoryNoError,
		domain.CategoryDivisionByZero,
		domain.CategoryUndeclaredIdentifier,
		domain.CategoryMissingInclude,
		domain.CategoryTypeMismatch,
		domain.CategorySyntaxError:
		// no mechanical repair exists
	default:
		panic(fmt.Sprintf("unhandled category %v", req.Category))
	}

	if f.changes == nil {
		f.changes = []string{}
	}
	return domain.FixResult{
		FixedCode: code,
		Changes:   f.changes,
		Success:   len(f.changes) > 0,
	}
}

// Fixable reports whether Apply has a repair for the category in lang.
func Fixable(c domain.Category, lang domain.Language) bool {
	switch c {
	case domain.CategoryMissingDelimiter:
		return lang == domain.LanguagePython || lang.UsesDelimiters()
	case domain.CategoryMissingColon,
		domain.CategoryMissingSemicolon,
		domain.CategoryIndentationError,
		domain.CategoryUnmatchedBracket,
		domain.CategoryUnclosedQuotes,
		domain.CategoryUnclosedString:
		return true
	default:
		return false
	}
}

// colon appends ':' to the hinted line when it holds a block keyword.
func (f *fixer) colon(code string, hint int) string {
	lines := strings.Split(code, "\n")
	if hint < 1 || hint > len(lines) {
		return code
	}
	line := strings.TrimRight(lines[hint-1], " \t\r")
	if strings.HasSuffix(line, ":") || !containsAny(line, colonMarkers) {
		return code
	}
	lines[hint-1] = line + ":"
	f.record("Added colon at line %d", hint)
	return strings.Join(lines, "\n")
}

// semicolon terminates the hinted line, or every statement-like line when no hint is given.
func (f *fixer) semicolon(code string, hint int) string {
	lines := strings.Split(code, "\n")

	if hint == 0 {
		for i, raw := range lines {
			if containsAny(raw, semicolonSkip) || containsAny(raw, semicolonScanSkip) {
				continue
			}
			line := strings.TrimRight(raw, " \t\r")
			if line == "" || strings.HasSuffix(line, ";") || strings.HasSuffix(line, ":") {
				continue
			}
			if !containsAny(raw, statementMarkers) {
				continue
			}
			lines[i] = line + ";"
			f.record("Added semicolon at line %d", i+1)
		}
		return strings.Join(lines, "\n")
	}

	if hint < 1 || hint > len(lines) {
		return code
	}
	line := strings.TrimRight(lines[hint-1], " \t\r")
	if line == "" || strings.HasSuffix(line, ";") || containsAny(line, semicolonSkip) {
		return code
	}
	lines[hint-1] = line + ";"
	f.record("Added semicolon at line %d", hint)
	return strings.Join(lines, "\n")
}

func (f *fixer) indentation(code string) string {
	if !strings.Contains(code, "\t") {
		return code
	}
	f.record("Standardized indentation to 4 spaces")
	return strings.ReplaceAll(code, "\t", "    ")
}

// brackets closes every opener left on the stack, most recent first.
// Closers that do not match the top of the stack are ignored.
func (f *fixer) brackets(code string) string {
	var stack []rune
	for _, r := range code {
		switch r {
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if n := len(stack); n > 0 && closers[stack[n-1]] == r {
				stack = stack[:n-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(code)
	for i := len(stack) - 1; i >= 0; i-- {
		c := closers[stack[i]]
		b.WriteRune(c)
		f.record("Added missing closing bracket: %c", c)
	}
	return b.String()
}

func (f *fixer) quotes(code string) string {
	if strings.Count(code, "'")%2 != 0 {
		code += "'"
		f.record("Closed unclosed single quote")
	}
	if strings.Count(code, `"`)%2 != 0 {
		code += `"`
		f.record("Closed unclosed double quote")
	}
	return code
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
