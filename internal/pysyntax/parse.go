package pysyntax

import "context"

// Parse runs the token passes over code and returns the earliest problem;
// on a line tie the lexical pass wins, then bracket, indentation and header.
// The grammar pass is consulted only when the token passes find nothing.
func Parse(code string) ParseOutcome {
	return ParseContext(context.Background(), code)
}

// ParseContext is Parse with a context for the grammar pass.
func ParseContext(ctx context.Context, code string) ParseOutcome {
	lines, lexErr := Tokenize(code)

	best := earliest(
		lexErr,
		bracketStage(lines),
		indentationStage(lines),
		headerStage(lines),
	)
	if best != nil {
		return Err(*best)
	}

	grammarErr, err := grammarStage(ctx, code)
	if err != nil {
		return Err(Diagnostic{Kind: KindGrammar, Msg: "invalid syntax: " + err.Error()})
	}
	if grammarErr != nil {
		return Err(*grammarErr)
	}
	return Ok()
}

func earliest(candidates ...*Diagnostic) *Diagnostic {
	var best *Diagnostic
	for _, d := range candidates {
		if d == nil {
			continue
		}
		if best == nil || earlier(d, best) {
			best = d
		}
	}
	return best
}

func earlier(a, b *Diagnostic) bool {
	switch {
	case a.Line <= 0:
		return false
	case b.Line <= 0:
		return true
	}
	return a.Line < b.Line
}
