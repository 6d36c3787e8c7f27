// Package pysyntax is a Python front-end that reports the first syntax
// problem in a snippet the way the reference interpreter words it.
package pysyntax

import "fmt"

// Kind identifies the pass that produced a diagnostic.
type Kind int

const (
	KindLexical Kind = iota
	KindTab
	KindBracket
	KindIndentation
	KindGrammar
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindTab:
		return "tab"
	case KindBracket:
		return "bracket"
	case KindIndentation:
		return "indentation"
	case KindGrammar:
		return "grammar"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic is a single syntax problem. Line is 1-based, Col 0-based.
type Diagnostic struct {
	Kind Kind
	Msg  string
	Line int
	Col  int
}

// IsIndentation reports whether the problem is an indentation error.
func (d Diagnostic) IsIndentation() bool {
	return d.Kind == KindIndentation || d.Kind == KindTab
}

func (d Diagnostic) Error() string {
	if d.Line <= 0 {
		return d.Msg
	}
	return fmt.Sprintf("%s (line %d)", d.Msg, d.Line)
}

// ParseOutcome is either Ok or Err(Diagnostic).
type ParseOutcome struct {
	diag *Diagnostic
}

// Ok returns a successful outcome.
func Ok() ParseOutcome {
	return ParseOutcome{}
}

// Err returns a failed outcome carrying d.
func Err(d Diagnostic) ParseOutcome {
	return ParseOutcome{diag: &d}
}

// IsOk reports whether the source parsed.
func (o ParseOutcome) IsOk() bool {
	return o.diag == nil
}

// Diagnostic returns the failure, if any.
func (o ParseOutcome) Diagnostic() (Diagnostic, bool) {
	if o.diag == nil {
		return Diagnostic{}, false
	}
	return *o.diag, true
}
