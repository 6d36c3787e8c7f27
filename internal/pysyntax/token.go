package pysyntax

// TokenKind classifies a token.
type TokenKind int

const (
	TokenName TokenKind = iota
	TokenNumber
	TokenString
	TokenOp
	TokenNewline
	TokenIndent
	TokenDedent
	TokenEOF
)

// Token is a lexical token. Line is 1-based, Col 0-based byte offset in the line.
type Token struct {
	Kind TokenKind
	Text string
	Line int
	Col  int
}

// Is reports whether t is an operator or name with the given text.
func (t Token) Is(text string) bool {
	return (t.Kind == TokenOp || t.Kind == TokenName) && t.Text == text
}

// LogicalLine is a statement-level run of tokens terminated by NEWLINE.
type LogicalLine struct {
	Tokens []Token
	// Line is the line of the first token.
	Line int
	// Indented is set when an INDENT token precedes the line.
	Indented bool
	// Dedents counts DEDENT tokens preceding the line.
	Dedents int
}

// First returns the first token.
func (l LogicalLine) First() Token {
	return l.Tokens[0]
}

// Last returns the last token.
func (l LogicalLine) Last() Token {
	return l.Tokens[len(l.Tokens)-1]
}

// EndsWithColon reports whether the line opens a block.
func (l LogicalLine) EndsWithColon() bool {
	return len(l.Tokens) > 0 && l.Last().Is(":")
}

// HasTopLevelColon reports whether a ':' appears outside any bracket.
func (l LogicalLine) HasTopLevelColon() bool {
	depth := 0
	for _, t := range l.Tokens {
		if t.Kind != TokenOp {
			continue
		}
		switch t.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			if depth > 0 {
				depth--
			}
		case ":":
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

func groupLogicalLines(tokens []Token) []LogicalLine {
	var (
		lines   []LogicalLine
		cur     LogicalLine
		pending LogicalLine
	)
	flush := func() {
		if len(cur.Tokens) > 0 {
			cur.Line = cur.Tokens[0].Line
			lines = append(lines, cur)
		}
		cur = LogicalLine{}
	}
	for _, t := range tokens {
		switch t.Kind {
		case TokenIndent:
			pending.Indented = true
		case TokenDedent:
			pending.Dedents++
		case TokenNewline, TokenEOF:
			flush()
		default:
			if len(cur.Tokens) == 0 {
				cur.Indented = pending.Indented
				cur.Dedents = pending.Dedents
				pending = LogicalLine{}
			}
			cur.Tokens = append(cur.Tokens, t)
		}
	}
	flush()
	return lines
}
