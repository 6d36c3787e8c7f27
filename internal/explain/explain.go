// Package explain maps verdict categories to tutoring text.
package explain

import "github.com/ludo-technologies/syntaxcheck/domain"

// Fallback is returned for categories without a dedicated entry.
var Fallback = domain.Explanation{
	Why: "The code contains a structural or syntactic issue.",
	Fix: "Review the code structure and correct the error.",
}

const noChanges = "No changes are required."

var unclosedString = domain.Explanation{
	Why: "A string was started but not closed with a matching quote.",
	Fix: "Add the missing quote to close the string.",
}

var table = map[domain.Category]domain.Explanation{
	domain.CategoryMissingColon: {
		Why: "In many programming languages, certain statements must end with a delimiter such as ':' (Python) or ';' (C/Java/C++).",
		Fix: "Add the required delimiter at the end of the statement.",
	},
	domain.CategoryMissingDelimiter: {
		Why: "Statements in C, C++, and Java must end with a semicolon.",
		Fix: "Add a semicolon ';' at the end of the statement.",
	},
	domain.CategoryIndentationError: {
		Why: "Python uses indentation to define code blocks.",
		Fix: "Indent the statement correctly (usually 4 spaces inside blocks).",
	},
	domain.CategoryUnclosedString: unclosedString,
	domain.CategoryUnclosedQuotes: unclosedString,
	domain.CategoryUnmatchedBracket: {
		Why: "Every opening bracket '{', '(', '[' must have a matching closing bracket.",
		Fix: "Add or remove brackets so that all pairs match correctly.",
	},
	domain.CategoryDivisionByZero: {
		Why: "Division by zero is undefined and will cause a runtime error.",
		Fix: "Ensure the denominator is not zero before performing division.",
	},
	domain.CategoryUndeclaredIdentifier: {
		Why: "A variable or identifier is used without being declared.",
		Fix: "Declare the variable before using it.",
	},
	domain.CategoryMissingInclude: {
		Why: "The function or object used requires a header file that has not been included.",
		Fix: "Add the required #include statement at the top of the file.",
	},
	domain.CategoryTypeMismatch: {
		Why: "A value of one data type is being assigned to a variable of another type.",
		Fix: "Convert the value to the correct type or change the variable type.",
	},
}

// Explain returns the why/fix pair for an error category. NoError and
// categories without an entry get Fallback; use NoError for clean verdicts.
func Explain(c domain.Category) domain.Explanation {
	if e, ok := table[c]; ok {
		return e
	}
	return Fallback
}

// Has reports whether c has a dedicated entry.
func Has(c domain.Category) bool {
	_, ok := table[c]
	return ok
}

// NoError returns the feedback for a clean verdict. The wording depends on
// which kind of evidence cleared the snippet.
func NoError(lang domain.Language) domain.Explanation {
	switch {
	case lang == domain.LanguagePython:
		return domain.Explanation{Why: "The Python code follows correct syntax rules.", Fix: noChanges}
	case lang.UsesDelimiters():
		return domain.Explanation{Why: "The code follows valid syntax rules for this language.", Fix: noChanges}
	default:
		return domain.Explanation{Why: "The code structure appears syntactically correct.", Fix: noChanges}
	}
}

// For returns the explanation attached to a verdict of category c for lang.
func For(c domain.Category, lang domain.Language) domain.Explanation {
	if !c.IsError() {
		return NoError(lang)
	}
	return Explain(c)
}
