// Package langid guesses the source language of a snippet.
package langid

import (
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

var extensions = map[string]domain.Language{
	".py":   domain.LanguagePython,
	".java": domain.LanguageJava,
	".c":    domain.LanguageC,
	".cpp":  domain.LanguageCPP,
}

type signature struct {
	lang    domain.Language
	markers []string
}

// Checked in order; the first language with a matching marker wins.
var signatures = []signature{
	{domain.LanguagePython, []string{"def ", "print("}},
	{domain.LanguageJava, []string{"system.out.println", "public class"}},
	{domain.LanguageCPP, []string{"cout <<"}},
	{domain.LanguageC, []string{"printf(", "int main"}},
}

// Identify returns the language of code. A recognised filename extension is
// authoritative; otherwise content signatures are tried in a fixed order.
func Identify(code, filename string) domain.Language {
	if lang, ok := FromFilename(filename); ok {
		return lang
	}
	return FromContent(code)
}

// FromFilename maps a file extension (case-insensitive) to a language.
func FromFilename(filename string) (domain.Language, bool) {
	if filename == "" {
		return domain.LanguageUnknown, false
	}
	lang, ok := extensions[strings.ToLower(filepath.Ext(filename))]
	return lang, ok
}

// FromContent applies the content signatures to the lower-cased text.
func FromContent(code string) domain.Language {
	lower := strings.ToLower(code)
	for _, sig := range signatures {
		for _, m := range sig.markers {
			if strings.Contains(lower, m) {
				return sig.lang
			}
		}
	}
	return domain.LanguageUnknown
}

// Extensions returns the recognised file extensions.
func Extensions() []string {
	out := make([]string, 0, len(extensions))
	for ext := range extensions {
		out = append(out, ext)
	}
	return out
}
