package quality

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/parser"
)

// Node types that add one decision point, per language.
var decisionNodes = map[domain.Language]map[string]bool{
	domain.LanguagePython: set(
		"if_statement", "elif_clause", "for_statement", "while_statement",
		"except_clause", "conditional_expression", "boolean_operator",
		"for_in_clause", "if_clause", "case_clause",
	),
	domain.LanguageJava: set(
		"if_statement", "for_statement", "enhanced_for_statement", "while_statement",
		"do_statement", "catch_clause", "ternary_expression",
	),
	domain.LanguageC: set(
		"if_statement", "for_statement", "while_statement", "do_statement",
		"conditional_expression",
	),
	domain.LanguageCPP: set(
		"if_statement", "for_statement", "for_range_loop", "while_statement",
		"do_statement", "conditional_expression", "catch_clause",
	),
}

// Node types holding a case label; "default" labels are not decisions.
var caseNodes = set("switch_label", "case_statement")

// Node types that define a named function, per language.
var functionNodes = map[domain.Language]map[string]bool{
	domain.LanguagePython: set("function_definition"),
	domain.LanguageJava:   set("method_declaration", "constructor_declaration"),
	domain.LanguageC:      set("function_definition"),
	domain.LanguageCPP:    set("function_definition"),
}

var fallbackKeywords = regexp.MustCompile(`\b(if|elif|for|while|case|catch|except)\b`)

// function is one function found in the tree.
type function struct {
	name  string
	kind  string
	line  int
	lines int
}

// structure is what the tree walk collects.
type structure struct {
	complexity int
	functions  []function
}

// analyzeStructure walks the syntax tree of code. It reports false when the
// language has no grammar.
func analyzeStructure(ctx context.Context, code string, lang domain.Language) (structure, bool) {
	decisions, ok := decisionNodes[lang]
	if !ok {
		return structure{}, false
	}
	tree, err := parser.ParseForLanguage(ctx, lang, []byte(code))
	if err != nil {
		return structure{}, false
	}
	defer tree.Close()

	s := structure{complexity: 1}
	functions := functionNodes[lang]
	parser.Walk(tree.Root(), func(n *sitter.Node) bool {
		typ := n.Type()
		switch {
		case decisions[typ]:
			s.complexity++
		case caseNodes[typ]:
			if strings.HasPrefix(tree.Text(n), "case") {
				s.complexity++
			}
		case typ == "binary_expression":
			if op := n.ChildByFieldName("operator"); op != nil {
				if t := op.Type(); t == "&&" || t == "||" {
					s.complexity++
				}
			}
		}
		if functions[typ] {
			start, end := parser.StartOf(n), parser.EndOf(n)
			s.functions = append(s.functions, function{
				name:  functionName(tree, n),
				kind:  typ,
				line:  start.Line,
				lines: end.Line - start.Line + 1,
			})
		}
		return true
	})
	return s, true
}

// functionName resolves the identifier of a function node. C declarators
// nest, so the innermost declarator carries the name.
func functionName(tree *parser.Tree, n *sitter.Node) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return tree.Text(name)
	}
	d := n.ChildByFieldName("declarator")
	for d != nil {
		inner := d.ChildByFieldName("declarator")
		if inner == nil {
			break
		}
		d = inner
	}
	if d == nil {
		return ""
	}
	return tree.Text(d)
}

// keywordComplexity estimates complexity from keywords when no tree is available.
func keywordComplexity(code string) int {
	return 1 + len(fallbackKeywords.FindAllString(code, -1)) +
		strings.Count(code, "&&") + strings.Count(code, "||")
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}
