package pysyntax

import (
	"context"
	"fmt"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/parser"
)

// grammarStage runs the tree-sitter Python grammar and reports the earlier of
// its first error and the first construct Python 3 rejects but the grammar
// still accepts.
func grammarStage(ctx context.Context, code string) (*Diagnostic, error) {
	tree, err := parser.ParseForLanguage(ctx, domain.LanguagePython, []byte(code))
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var found *Diagnostic
	if problem := tree.FirstProblem(); problem != nil {
		msg := "invalid syntax"
		if problem.Kind == parser.ProblemMissing && isPunctuation(problem.Type) {
			msg = fmt.Sprintf("expected '%s'", problem.Type)
		}
		found = &Diagnostic{
			Kind: KindGrammar,
			Msg:  msg,
			Line: problem.Position.Line,
			Col:  problem.Position.Column,
		}
	}
	if legacy := rejectedConstruct(tree.Root(), tree.Source()); legacy != nil && (found == nil || legacy.Line < found.Line) {
		found = legacy
	}
	return found, nil
}

// rejectedConstruct finds Python 2 statements and unparenthesized
// assignment expressions used as statements.
func rejectedConstruct(root *sitter.Node, src []byte) *Diagnostic {
	var found *Diagnostic
	parser.Walk(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		switch n.Type() {
		case "print_statement", "exec_statement":
			if callLike(n, src) {
				return true
			}
			keyword := n.Child(0).Type()
			pos := parser.StartOf(n)
			found = &Diagnostic{
				Kind: KindGrammar,
				Msg:  fmt.Sprintf("Missing parentheses in call to '%s'. Did you mean %s(...)?", keyword, keyword),
				Line: pos.Line,
				Col:  pos.Column,
			}
			return false
		case "named_expression":
			if p := n.Parent(); p != nil && bareWalrusParent[p.Type()] {
				pos := parser.StartOf(n)
				for i := 0; i < int(n.ChildCount()); i++ {
					if c := n.Child(i); c.Type() == ":=" {
						pos = parser.StartOf(c)
						break
					}
				}
				found = &Diagnostic{Kind: KindGrammar, Msg: "invalid syntax", Line: pos.Line, Col: pos.Column}
				return false
			}
		}
		return true
	})
	return found
}

// Statements that reject ':=' unless it is wrapped in parentheses.
var bareWalrusParent = map[string]bool{
	"expression_statement": true,
	"assignment":           true,
	"augmented_assignment": true,
}

// callLike reports whether a print or exec statement is still valid Python 3:
// an argument list opening with '(' reads as a call, and a chevron reads as a
// right shift.
func callLike(n *sitter.Node, src []byte) bool {
	if n.NamedChildCount() == 0 {
		return true
	}
	arg := n.NamedChild(0)
	if arg.Type() == "chevron" {
		return true
	}
	start := int(arg.StartByte())
	return start < len(src) && src[start] == '('
}

func isPunctuation(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return false
		}
	}
	return true
}
