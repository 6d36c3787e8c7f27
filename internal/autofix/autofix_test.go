package autofix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

func TestApply_UnmatchedBracket(t *testing.T) {
	res := Apply(domain.FixRequest{Code: "print('hi'", Category: domain.CategoryUnmatchedBracket})

	assert.True(t, res.Success)
	assert.Equal(t, "print('hi')", res.FixedCode)
	assert.Equal(t, []string{"Added missing closing bracket: )"}, res.Changes)
}

func TestApply_BracketsMostRecentFirst(t *testing.T) {
	res := Apply(domain.FixRequest{Code: "f({'a': [1, 2", Category: domain.CategoryUnmatchedBracket})

	assert.Equal(t, "f({'a': [1, 2]})", res.FixedCode)
	assert.Equal(t, []string{
		"Added missing closing bracket: ]",
		"Added missing closing bracket: }",
		"Added missing closing bracket: )",
	}, res.Changes)
}

func TestApply_BracketsIdempotent(t *testing.T) {
	inputs := []string{"print('hi'", "x = [1, (2, 3", "{[(", "a) b] c}", "balanced()"}
	for _, in := range inputs {
		once := Apply(domain.FixRequest{Code: in, Category: domain.CategoryUnmatchedBracket})
		twice := Apply(domain.FixRequest{Code: once.FixedCode, Category: domain.CategoryUnmatchedBracket})

		assert.Equal(t, once.FixedCode, twice.FixedCode, in)
		assert.False(t, twice.Success, in)
		assert.Empty(t, twice.Changes, in)
	}
}

func TestApply_Quotes(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    string
		changes []string
	}{
		{"single", "print('hi)", "print('hi)'", []string{"Closed unclosed single quote"}},
		{"double", `s = "abc`, `s = "abc"`, []string{"Closed unclosed double quote"}},
		{"both", `a = 'x + "y`, `a = 'x + "y'"`, []string{"Closed unclosed single quote", "Closed unclosed double quote"}},
		{"balanced", `x = "a" + 'b'`, `x = "a" + 'b'`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(domain.FixRequest{Code: tt.code, Category: domain.CategoryUnclosedQuotes})
			assert.Equal(t, tt.want, res.FixedCode)
			assert.Equal(t, tt.changes, res.Changes)
			assert.Equal(t, len(tt.changes) > 0, res.Success)
			assert.Zero(t, strings.Count(res.FixedCode, "'")%2)
			assert.Zero(t, strings.Count(res.FixedCode, `"`)%2)
		})
	}
}

func TestApply_UnclosedStringUsesQuoteFix(t *testing.T) {
	res := Apply(domain.FixRequest{Code: "x = 'a", Category: domain.CategoryUnclosedString})
	assert.Equal(t, "x = 'a'", res.FixedCode)
}

func TestApply_Colon(t *testing.T) {
	code := "def hello()\n    print('Hi')"

	res := Apply(domain.FixRequest{Code: code, Category: domain.CategoryMissingColon, LineHint: 1})
	assert.True(t, res.Success)
	assert.Equal(t, "def hello():\n    print('Hi')", res.FixedCode)
	assert.Equal(t, []string{"Added colon at line 1"}, res.Changes)

	res = Apply(domain.FixRequest{Code: code, Category: domain.CategoryMissingDelimiter, Language: domain.LanguagePython, LineHint: 1})
	assert.Equal(t, "def hello():\n    print('Hi')", res.FixedCode)
}

func TestApply_ColonNoOp(t *testing.T) {
	tests := []struct {
		name string
		code string
		hint int
	}{
		{"no hint", "if x\n    pass", 0},
		{"hint out of range", "if x\n    pass", 5},
		{"already has colon", "if x:   \n    pass", 1},
		{"no keyword", "x = 1\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(domain.FixRequest{Code: tt.code, Category: domain.CategoryMissingColon, LineHint: tt.hint})
			assert.False(t, res.Success)
			assert.Equal(t, tt.code, res.FixedCode)
			assert.Empty(t, res.Changes)
		})
	}
}

func TestApply_SemicolonWithHint(t *testing.T) {
	code := "int x = 5\nint y = 6;"

	res := Apply(domain.FixRequest{Code: code, Category: domain.CategoryMissingDelimiter, Language: domain.LanguageJava, LineHint: 1})
	require.True(t, res.Success)
	assert.Equal(t, "int x = 5;\nint y = 6;", res.FixedCode)
	assert.Equal(t, []string{"Added semicolon at line 1"}, res.Changes)

	res = Apply(domain.FixRequest{Code: "if (x) {\n}", Category: domain.CategoryMissingSemicolon, LineHint: 1})
	assert.False(t, res.Success)
}

func TestApply_SemicolonScan(t *testing.T) {
	code := strings.Join([]string{
		"public class A {",
		"    int x = 5",
		"    String s = \"a\"",
		"    // note",
		"    foo()",
		"    total = x + 1",
		"    else",
		"    label:",
		"}",
	}, "\n")

	res := Apply(domain.FixRequest{Code: code, Category: domain.CategoryMissingSemicolon})
	require.True(t, res.Success)
	assert.Equal(t, []string{
		"Added semicolon at line 2",
		"Added semicolon at line 3",
		"Added semicolon at line 6",
	}, res.Changes)

	lines := strings.Split(res.FixedCode, "\n")
	assert.Equal(t, "    int x = 5;", lines[1])
	assert.Equal(t, "    foo()", lines[4])
	assert.Equal(t, "    total = x + 1;", lines[5])
}

func TestApply_MissingDelimiterNeedsKnownLanguage(t *testing.T) {
	res := Apply(domain.FixRequest{Code: "int x = 5", Category: domain.CategoryMissingDelimiter})
	assert.False(t, res.Success)
	assert.Equal(t, "int x = 5", res.FixedCode)
}

func TestApply_Indentation(t *testing.T) {
	res := Apply(domain.FixRequest{Code: "if x:\n\tpass\n\t\treturn", Category: domain.CategoryIndentationError})
	assert.True(t, res.Success)
	assert.Equal(t, "if x:\n    pass\n        return", res.FixedCode)
	assert.Equal(t, []string{"Standardized indentation to 4 spaces"}, res.Changes)

	res = Apply(domain.FixRequest{Code: "if x:\n    pass", Category: domain.CategoryIndentationError})
	assert.False(t, res.Success)
}

func TestApply_NoRepairCategories(t *testing.T) {
	for _, c := range []domain.Category{
		domain.CategoryNoError,
		domain.CategoryDivisionByZero,
		domain.CategoryUndeclaredIdentifier,
		domain.CategoryMissingInclude,
		domain.CategoryTypeMismatch,
		domain.CategorySyntaxError,
	} {
		res := Apply(domain.FixRequest{Code: "x = 1 / 0", Category: c})
		assert.False(t, res.Success, c.String())
		assert.Equal(t, "x = 1 / 0", res.FixedCode, c.String())
		assert.False(t, Fixable(c, domain.LanguagePython), c.String())
	}
}

func TestApply_RecoversFromFailure(t *testing.T) {
	res := Apply(domain.FixRequest{Code: "print(", Category: domain.Category(200)})

	assert.False(t, res.Success)
	assert.Equal(t, "print(", res.FixedCode)
	assert.Empty(t, res.Changes)
	assert.Contains(t, res.Error, "unhandled category")
}

func TestApply_CoversEveryCategory(t *testing.T) {
	for _, c := range domain.AllCategories() {
		res := Apply(domain.FixRequest{Code: "x", Category: c, Language: domain.LanguageJava})
		assert.Empty(t, res.Error, c.String())
	}
}

func TestFixable(t *testing.T) {
	assert.True(t, Fixable(domain.CategoryMissingDelimiter, domain.LanguageC))
	assert.True(t, Fixable(domain.CategoryMissingDelimiter, domain.LanguagePython))
	assert.False(t, Fixable(domain.CategoryMissingDelimiter, domain.LanguageUnknown))
	assert.True(t, Fixable(domain.CategoryUnclosedString, domain.LanguageUnknown))
}
