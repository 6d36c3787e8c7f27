package domain

import (
	"fmt"
	"strings"
)

// Language is the source language a snippet was identified as.
type Language uint8

const (
	LanguageUnknown Language = iota
	LanguagePython
	LanguageJava
	LanguageC
	LanguageCPP
)

var languageNames = [...]string{
	LanguageUnknown: "Unknown",
	LanguagePython:  "Python",
	LanguageJava:    "Java",
	LanguageC:       "C",
	LanguageCPP:     "C++",
}

func (l Language) String() string {
	if int(l) < len(languageNames) {
		return languageNames[l]
	}
	return fmt.Sprintf("Language(%d)", l)
}

// UsesDelimiters reports whether statements of the language end in ';' or a brace.
func (l Language) UsesDelimiters() bool {
	switch l {
	case LanguageJava, LanguageC, LanguageCPP:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler
func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Language) UnmarshalText(text []byte) error {
	lang, ok := ParseLanguage(string(text))
	if !ok {
		return fmt.Errorf("unknown language %q", string(text))
	}
	*l = lang
	return nil
}

// ParseLanguage resolves a display name or common alias.
func ParseLanguage(name string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "python", "py":
		return LanguagePython, true
	case "java":
		return LanguageJava, true
	case "c":
		return LanguageC, true
	case "c++", "cpp", "cxx":
		return LanguageCPP, true
	case "unknown", "":
		return LanguageUnknown, true
	}
	return LanguageUnknown, false
}
