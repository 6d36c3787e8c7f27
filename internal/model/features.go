package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultFeatureNames lists the structural features in training order.
var DefaultFeatureNames = []string{
	"code_length",
	"num_lines",
	"has_division",
	"has_type_conv",
	"missing_colon",
	"missing_semicolon",
	"compares_zero",
	"has_string_ops",
	"has_type_decl",
	"bracket_diff",
}

var featureFuncs = map[string]func(code string) float64{
	"code_length": func(code string) float64 {
		return float64(utf8.RuneCountInString(code))
	},
	"num_lines": func(code string) float64 {
		return float64(strings.Count(code, "\n") + 1)
	},
	"has_division": func(code string) float64 {
		return flag(strings.ContainsAny(code, "/%"))
	},
	"has_type_conv": func(code string) float64 {
		return flag(containsAny(code, "int(", "float(", "str(", "stoi", "static_cast"))
	},
	"missing_colon": func(code string) float64 {
		keywords := containsAny(code, "def ", "class ", "if ", "for ", "while ")
		return flag(keywords && strings.Count(code, ":") < strings.Count(code, "\n"))
	},
	"missing_semicolon": func(code string) float64 {
		return flag(strings.Count(code, ";") < strings.Count(code, "\n")-1)
	},
	"compares_zero": func(code string) float64 {
		return flag(containsAny(code, "== 0", "!= 0", "> 0", "< 0", ">= 0", "<= 0"))
	},
	"has_string_ops": func(code string) float64 {
		return flag(strings.ContainsAny(code, `"'`))
	},
	"has_type_decl": func(code string) float64 {
		return flag(containsAny(code, "int ", "float ", "double ", "char ", "String ", "bool"))
	},
	"bracket_diff": func(code string) float64 {
		diff := 0
		for _, pair := range []string{"()", "[]", "{}"} {
			d := strings.Count(code, pair[:1]) - strings.Count(code, pair[1:])
			if d < 0 {
				d = -d
			}
			diff += d
		}
		return float64(diff)
	},
}

// ExtractFeatures computes the named structural features in order.
func ExtractFeatures(names []string, code string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		fn, ok := featureFuncs[name]
		if !ok {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
		out[i] = fn(code)
	}
	return out, nil
}

// KnownFeature reports whether name can be computed.
func KnownFeature(name string) bool {
	_, ok := featureFuncs[name]
	return ok
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
