package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

// Parser wraps a tree-sitter parser bound to one grammar
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
	lang     domain.Language
}

// GrammarFor returns the tree-sitter grammar for a language
func GrammarFor(lang domain.Language) (*sitter.Language, error) {
	switch lang {
	case domain.LanguagePython:
		return python.GetLanguage(), nil
	case domain.LanguageJava:
		return java.GetLanguage(), nil
	case domain.LanguageC:
		return c.GetLanguage(), nil
	case domain.LanguageCPP:
		return cpp.GetLanguage(), nil
	}
	return nil, fmt.Errorf("no grammar for language %s", lang)
}

// NewParser creates a parser for the given language
func NewParser(lang domain.Language) (*Parser, error) {
	grammar, err := GrammarFor(lang)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)

	return &Parser{
		parser:   parser,
		language: grammar,
		lang:     lang,
	}, nil
}

// Language returns the language this parser was built for
func (p *Parser) Language() domain.Language {
	return p.lang
}

// Parse parses source code into a concrete syntax tree.
// The caller must Close the returned tree.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s source: %v", p.lang, err)
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("no root node in parse tree for %s source", p.lang)
	}

	return &Tree{tree: tree, root: root, source: source}, nil
}

// ParseString parses source code from a string
func (p *Parser) ParseString(ctx context.Context, source string) (*Tree, error) {
	return p.Parse(ctx, []byte(source))
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParseForLanguage parses source with a throwaway parser for lang
func ParseForLanguage(ctx context.Context, lang domain.Language, source []byte) (*Tree, error) {
	p, err := NewParser(lang)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	return p.Parse(ctx, source)
}
