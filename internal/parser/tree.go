package parser

import (
	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
)

// Tree is a parsed syntax tree together with its source
type Tree struct {
	tree   *sitter.Tree
	root   *sitter.Node
	source []byte
}

// Root returns the root node
func (t *Tree) Root() *sitter.Node {
	return t.root
}

// Source returns the parsed bytes
func (t *Tree) Source() []byte {
	return t.source
}

// Text returns the source text covered by n
func (t *Tree) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(t.source)
}

// HasError reports whether the tree contains ERROR or MISSING nodes
func (t *Tree) HasError() bool {
	return t.root != nil && t.root.HasError()
}

// Close frees the underlying tree
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Position is a 1-based line and 0-based column
type Position struct {
	Line   int
	Column int
}

// PositionOf converts a tree-sitter point to a Position
func PositionOf(p sitter.Point) (Position, error) {
	row, err := safecast.Conv[int](p.Row)
	if err != nil {
		return Position{}, err
	}
	col, err := safecast.Conv[int](p.Column)
	if err != nil {
		return Position{}, err
	}
	return Position{Line: row + 1, Column: col}, nil
}

// StartOf returns the start position of n
func StartOf(n *sitter.Node) Position {
	pos, err := PositionOf(n.StartPoint())
	if err != nil {
		return Position{}
	}
	return pos
}

// EndOf returns the end position of n
func EndOf(n *sitter.Node) Position {
	pos, err := PositionOf(n.EndPoint())
	if err != nil {
		return Position{}
	}
	return pos
}

// Walk visits n and its descendants depth-first in source order.
// Returning false from fn skips the children of the current node.
func Walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		Walk(n.Child(i), fn)
	}
}

// ProblemKind distinguishes the two ways tree-sitter reports a syntax error
type ProblemKind int

const (
	ProblemError ProblemKind = iota
	ProblemMissing
)

// Problem is the first syntax error found in a tree
type Problem struct {
	Kind ProblemKind
	// Type is the node type; for MISSING nodes this is the expected token.
	Type     string
	Position Position
}

// FirstProblem returns the earliest ERROR or MISSING node, or nil if the tree is clean
func (t *Tree) FirstProblem() *Problem {
	if !t.HasError() {
		return nil
	}
	var found *Problem
	Walk(t.root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsMissing() {
			found = &Problem{Kind: ProblemMissing, Type: n.Type(), Position: StartOf(n)}
			return false
		}
		if n.Type() == "ERROR" {
			found = &Problem{Kind: ProblemError, Type: n.Type(), Position: StartOf(n)}
			return false
		}
		return n.HasError()
	})
	return found
}
