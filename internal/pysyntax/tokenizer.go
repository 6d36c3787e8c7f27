package pysyntax

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const tabSize = 8

// Multi-character operators, longest first.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"!=", "%=", "&=", "**", "*=", "+=", "-=", "->", "//", "/=", ":=",
	"<<", "<=", "==", ">=", ">>", "@=", "^=", "|=",
}

type scanner struct {
	src  string
	pos  int
	line int
	// byte offset where the current physical line starts
	lineStart int

	depth       int
	indents     []int
	altIndents  []int
	atLineStart bool
	// tokens emitted since the last NEWLINE
	pendingTokens bool

	tokens []Token
}

// Tokenize splits code into logical lines. On a lexical failure it returns
// the lines scanned so far together with the diagnostic.
func Tokenize(code string) ([]LogicalLine, *Diagnostic) {
	tokens, diag := scan(code)
	return groupLogicalLines(tokens), diag
}

func scan(code string) ([]Token, *Diagnostic) {
	s := &scanner{
		src:         code,
		line:        1,
		indents:     []int{0},
		altIndents:  []int{0},
		atLineStart: true,
	}
	if diag := s.run(); diag != nil {
		return s.tokens, diag
	}
	return s.tokens, nil
}

func (s *scanner) col() int {
	return s.pos - s.lineStart
}

func (s *scanner) emit(kind TokenKind, text string, line, col int) {
	s.tokens = append(s.tokens, Token{Kind: kind, Text: text, Line: line, Col: col})
	if kind != TokenNewline && kind != TokenIndent && kind != TokenDedent {
		s.pendingTokens = true
	}
}

func (s *scanner) newline() {
	s.pos++
	s.line++
	s.lineStart = s.pos
}

func (s *scanner) run() *Diagnostic {
	for {
		if s.atLineStart && s.depth == 0 {
			if diag := s.indentation(); diag != nil {
				return diag
			}
		}
		if s.pos >= len(s.src) {
			break
		}

		c := s.src[s.pos]
		switch {
		case c == '\n':
			if s.depth == 0 && s.pendingTokens {
				s.emit(TokenNewline, "", s.line, s.col())
				s.pendingTokens = false
			}
			s.newline()
			s.atLineStart = s.depth == 0
		case c == ' ' || c == '\t' || c == '\f' || c == '\r':
			s.pos++
		case c == '#':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		case c == '\\':
			next := s.pos + 1
			if next < len(s.src) && s.src[next] == '\r' {
				next++
			}
			if next < len(s.src) && s.src[next] == '\n' {
				s.pos = next
				s.newline()
				continue
			}
			if next >= len(s.src) {
				return &Diagnostic{Kind: KindLexical, Msg: "unexpected EOF while parsing", Line: s.line, Col: s.col()}
			}
			return &Diagnostic{Kind: KindLexical, Msg: "unexpected character after line continuation character", Line: s.line, Col: s.col()}
		case c == '"' || c == '\'':
			if diag := s.str(s.pos); diag != nil {
				return diag
			}
		case isDigit(c) || (c == '.' && s.pos+1 < len(s.src) && isDigit(s.src[s.pos+1])):
			s.number()
		case isNameStart(s.src[s.pos:]):
			start := s.pos
			s.name()
			word := s.src[start:s.pos]
			if s.pos < len(s.src) && (s.src[s.pos] == '"' || s.src[s.pos] == '\'') && isStringPrefix(word) {
				if diag := s.str(start); diag != nil {
					return diag
				}
				continue
			}
			s.emit(TokenName, word, s.line, start-s.lineStart)
		default:
			s.op()
		}
	}

	if s.pendingTokens {
		s.emit(TokenNewline, "", s.line, s.col())
	}
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.altIndents = s.altIndents[:len(s.altIndents)-1]
		s.emit(TokenDedent, "", s.line, 0)
	}
	s.emit(TokenEOF, "", s.line, s.col())
	if s.depth > 0 {
		return &Diagnostic{Kind: KindLexical, Msg: "unexpected EOF in multi-line statement"}
	}
	return nil
}

// indentation measures leading whitespace and emits INDENT/DEDENT tokens.
// Blank and comment-only lines leave the indent stack untouched.
func (s *scanner) indentation() *Diagnostic {
	col, alt := 0, 0
	p := s.pos
measure:
	for ; p < len(s.src); p++ {
		switch s.src[p] {
		case ' ':
			col++
			alt++
		case '\t':
			col = (col/tabSize + 1) * tabSize
			alt++
		case '\f':
			col, alt = 0, 0
		default:
			break measure
		}
	}
	s.pos = p
	if p >= len(s.src) || s.src[p] == '\n' || s.src[p] == '#' || s.src[p] == '\r' {
		return nil
	}
	s.atLineStart = false

	top := s.indents[len(s.indents)-1]
	altTop := s.altIndents[len(s.altIndents)-1]
	switch {
	case col == top:
		if alt != altTop {
			return s.tabError()
		}
	case col > top:
		if alt <= altTop {
			return s.tabError()
		}
		s.indents = append(s.indents, col)
		s.altIndents = append(s.altIndents, alt)
		s.emit(TokenIndent, "", s.line, 0)
	default:
		for len(s.indents) > 1 && col < s.indents[len(s.indents)-1] {
			s.indents = s.indents[:len(s.indents)-1]
			s.altIndents = s.altIndents[:len(s.altIndents)-1]
			s.emit(TokenDedent, "", s.line, 0)
		}
		if col != s.indents[len(s.indents)-1] {
			return &Diagnostic{
				Kind: KindIndentation,
				Msg:  "unindent does not match any outer indentation level",
				Line: s.line,
				Col:  col,
			}
		}
		if alt != s.altIndents[len(s.altIndents)-1] {
			return s.tabError()
		}
	}
	return nil
}

func (s *scanner) tabError() *Diagnostic {
	return &Diagnostic{
		Kind: KindTab,
		Msg:  "inconsistent use of tabs and spaces in indentation",
		Line: s.line,
	}
}

// str scans a string literal whose prefix starts at start.
func (s *scanner) str(start int) *Diagnostic {
	line, col := s.line, start-s.lineStart
	q := s.src[s.pos]
	triple := strings.HasPrefix(s.src[s.pos:], strings.Repeat(string(q), 3))

	if triple {
		s.pos += 3
		closing := strings.Repeat(string(q), 3)
		for s.pos < len(s.src) {
			switch {
			case s.src[s.pos] == '\\':
				s.pos++
				if s.pos < len(s.src) && s.src[s.pos] == '\n' {
					s.newline()
					continue
				}
				if s.pos < len(s.src) {
					s.pos++
				}
			case strings.HasPrefix(s.src[s.pos:], closing):
				s.pos += 3
				s.emit(TokenString, s.src[start:s.pos], line, col)
				return nil
			case s.src[s.pos] == '\n':
				s.newline()
			default:
				s.pos++
			}
		}
		return &Diagnostic{
			Kind: KindLexical,
			Msg:  fmt.Sprintf("unterminated triple-quoted string literal (detected at line %d)", s.line),
			Line: line,
			Col:  col,
		}
	}

	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos++
			if s.pos < len(s.src) && s.src[s.pos] == '\r' {
				s.pos++
			}
			if s.pos < len(s.src) && s.src[s.pos] == '\n' {
				s.newline()
				continue
			}
			if s.pos < len(s.src) {
				s.pos++
			}
		case q:
			s.pos++
			s.emit(TokenString, s.src[start:s.pos], line, col)
			return nil
		case '\n':
			return s.unterminated(line, col)
		default:
			s.pos++
		}
	}
	return s.unterminated(line, col)
}

func (s *scanner) unterminated(line, col int) *Diagnostic {
	return &Diagnostic{
		Kind: KindLexical,
		Msg:  fmt.Sprintf("unterminated string literal (detected at line %d)", s.line),
		Line: line,
		Col:  col,
	}
}

func (s *scanner) number() {
	start, col := s.pos, s.col()
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case isDigit(c) || isLetter(c) || c == '_' || c == '.':
			s.pos++
		case (c == '+' || c == '-') && s.pos > start && (s.src[s.pos-1] == 'e' || s.src[s.pos-1] == 'E') && !isHex(s.src[start:s.pos]):
			s.pos++
		default:
			s.emit(TokenNumber, s.src[start:s.pos], s.line, col)
			return
		}
	}
	s.emit(TokenNumber, s.src[start:s.pos], s.line, col)
}

func (s *scanner) name() {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) {
			s.pos += size
			continue
		}
		return
	}
}

func (s *scanner) op() {
	col := s.col()
	for _, op := range operators {
		if strings.HasPrefix(s.src[s.pos:], op) {
			s.pos += len(op)
			s.emit(TokenOp, op, s.line, col)
			return
		}
	}
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	text := string(r)
	switch text {
	case "(", "[", "{":
		s.depth++
	case ")", "]", "}":
		if s.depth > 0 {
			s.depth--
		}
	}
	s.pos += size
	s.emit(TokenOp, text, s.line, col)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isHex(s string) bool {
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func isNameStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r)
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "u", "f", "b", "br", "rb", "fr", "rf":
		return true
	}
	return false
}
