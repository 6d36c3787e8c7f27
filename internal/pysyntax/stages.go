package pysyntax

import "fmt"

var closerFor = map[string]string{"(": ")", "[": "]", "{": "}"}
var openerFor = map[string]string{")": "(", "]": "[", "}": "{"}

// bracketStage matches brackets over tokens, so brackets inside strings and
// comments are ignored.
func bracketStage(lines []LogicalLine) *Diagnostic {
	var stack []Token
	for _, ll := range lines {
		for _, t := range ll.Tokens {
			if t.Kind != TokenOp {
				continue
			}
			if _, ok := closerFor[t.Text]; ok {
				stack = append(stack, t)
				continue
			}
			want, ok := openerFor[t.Text]
			if !ok {
				continue
			}
			if len(stack) == 0 {
				return &Diagnostic{Kind: KindBracket, Msg: fmt.Sprintf("unmatched '%s'", t.Text), Line: t.Line, Col: t.Col}
			}
			top := stack[len(stack)-1]
			if top.Text != want {
				msg := fmt.Sprintf("closing parenthesis '%s' does not match opening parenthesis '%s'", t.Text, top.Text)
				if top.Line != t.Line {
					msg += fmt.Sprintf(" on line %d", top.Line)
				}
				return &Diagnostic{Kind: KindBracket, Msg: msg, Line: t.Line, Col: t.Col}
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return &Diagnostic{Kind: KindBracket, Msg: fmt.Sprintf("'%s' was never closed", top.Text), Line: top.Line, Col: top.Col}
	}
	return nil
}

// indentationStage checks that blocks open exactly where a header ends in ':'.
func indentationStage(lines []LogicalLine) *Diagnostic {
	for i, ll := range lines {
		opensBlock := i > 0 && lines[i-1].EndsWithColon()
		switch {
		case ll.Indented && !opensBlock:
			return &Diagnostic{Kind: KindIndentation, Msg: "unexpected indent", Line: ll.Line, Col: ll.First().Col}
		case !ll.Indented && opensBlock:
			return expectedBlock(lines[i-1], ll.Line)
		}
	}
	if n := len(lines); n > 0 && lines[n-1].EndsWithColon() {
		return expectedBlock(lines[n-1], lines[n-1].Last().Line+1)
	}
	return nil
}

func expectedBlock(header LogicalLine, line int) *Diagnostic {
	return &Diagnostic{
		Kind: KindIndentation,
		Msg:  fmt.Sprintf("expected an indented block after %s on line %d", construct(header), header.Line),
		Line: line,
	}
}

func construct(header LogicalLine) string {
	kw := header.First().Text
	if kw == "async" && len(header.Tokens) > 1 {
		kw = header.Tokens[1].Text
	}
	switch kw {
	case "def":
		return "function definition"
	case "class":
		return "class definition"
	}
	return fmt.Sprintf("'%s' statement", kw)
}

var compoundKeywords = map[string]bool{
	"def": true, "class": true, "if": true, "elif": true, "else": true,
	"for": true, "while": true, "try": true, "except": true, "finally": true,
	"with": true,
}

// headerStage flags compound statement headers without a ':' outside brackets.
func headerStage(lines []LogicalLine) *Diagnostic {
	for _, ll := range lines {
		first := ll.First()
		if first.Kind != TokenName {
			continue
		}
		kw := first.Text
		if kw == "async" && len(ll.Tokens) > 1 {
			kw = ll.Tokens[1].Text
		}
		if !compoundKeywords[kw] || ll.HasTopLevelColon() {
			continue
		}
		last := ll.Last()
		return &Diagnostic{Kind: KindGrammar, Msg: "expected ':'", Line: last.Line, Col: last.Col + len(last.Text)}
	}
	return nil
}
