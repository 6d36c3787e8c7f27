package domain

import (
	"fmt"
	"sort"
)

// Category is the closed set of error categories a verdict can report.
// The zero value is CategoryNoError.
type Category uint8

const (
	CategoryNoError Category = iota
	CategoryMissingColon
	CategoryMissingDelimiter
	CategoryMissingSemicolon
	CategoryIndentationError
	CategoryUnclosedQuotes
	CategoryUnclosedString
	CategoryUnmatchedBracket
	CategoryDivisionByZero
	CategoryUndeclaredIdentifier
	CategoryMissingInclude
	CategoryTypeMismatch
	CategorySyntaxError
)

var categoryNames = [...]string{
	CategoryNoError:              "NoError",
	CategoryMissingColon:         "MissingColon",
	CategoryMissingDelimiter:     "MissingDelimiter",
	CategoryMissingSemicolon:     "MissingSemicolon",
	CategoryIndentationError:     "IndentationError",
	CategoryUnclosedQuotes:       "UnclosedQuotes",
	CategoryUnclosedString:       "UnclosedString",
	CategoryUnmatchedBracket:     "UnmatchedBracket",
	CategoryDivisionByZero:       "DivisionByZero",
	CategoryUndeclaredIdentifier: "UndeclaredIdentifier",
	CategoryMissingInclude:       "MissingInclude",
	CategoryTypeMismatch:         "TypeMismatch",
	CategorySyntaxError:          "SyntaxError",
}

var categoryByName = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for i, name := range categoryNames {
		m[name] = Category(i)
	}
	return m
}()

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", c)
}

// IsError reports whether the category describes a defect.
func (c Category) IsError() bool {
	return c != CategoryNoError
}

// MarshalText implements encoding.TextMarshaler
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Category) UnmarshalText(text []byte) error {
	cat, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown category %q", string(text))
	}
	*c = cat
	return nil
}

// ParseCategory looks up a category by its exact name.
func ParseCategory(name string) (Category, bool) {
	c, ok := categoryByName[name]
	return c, ok
}

// CategoryFromLabel maps a classifier label onto the closed enum.
// Labels outside the enum collapse to CategorySyntaxError.
func CategoryFromLabel(label string) Category {
	if c, ok := ParseCategory(label); ok {
		return c
	}
	return CategorySyntaxError
}

// AllCategories returns every category in declaration order.
func AllCategories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

// CategoryNames returns every category name sorted alphabetically.
func CategoryNames() []string {
	names := make([]string, 0, len(categoryNames))
	names = append(names, categoryNames[:]...)
	sort.Strings(names)
	return names
}
