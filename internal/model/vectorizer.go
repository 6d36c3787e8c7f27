package model

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Analyzer names
const (
	AnalyzerWord   = "word"
	AnalyzerChar   = "char"
	AnalyzerCharWB = "char_wb"
)

// DefaultTokenPattern matches runs of two or more word characters.
const DefaultTokenPattern = `(?u)\b\w\w+\b`

// unicodeWordPattern is DefaultTokenPattern for RE2, whose \w and \b only
// know ASCII.
const unicodeWordPattern = `[\p{L}\p{N}_]{2,}`

// VectorizerState is the persisted form of a TF-IDF vectorizer.
type VectorizerState struct {
	Schema       uint16
	Analyzer     string
	NgramMin     int
	NgramMax     int
	Lowercase    bool
	StripAccents string
	TokenPattern string
	SublinearTF  bool
	UseIDF       bool
	Norm         string
	Vocabulary   map[string]int
	IDF          []float64
}

// Entry is one non-zero component of a sparse vector.
type Entry struct {
	Index int
	Value float64
}

// SparseVector holds non-zero entries sorted by index.
type SparseVector []Entry

// Vectorizer turns text into TF-IDF weighted n-gram counts.
type Vectorizer struct {
	state   VectorizerState
	pattern *regexp.Regexp
	dim     int
}

var whitespaceRun = regexp.MustCompile(`\s\s+`)

// NewVectorizer validates state and prepares it for use.
func NewVectorizer(state VectorizerState) (*Vectorizer, error) {
	if state.NgramMin <= 0 {
		state.NgramMin = 1
	}
	if state.NgramMax < state.NgramMin {
		state.NgramMax = state.NgramMin
	}

	v := &Vectorizer{state: state}
	for term, idx := range state.Vocabulary {
		if idx < 0 {
			return nil, fmt.Errorf("vocabulary term %q has negative index %d", term, idx)
		}
		if idx+1 > v.dim {
			v.dim = idx + 1
		}
	}
	if state.UseIDF && len(state.IDF) != v.dim {
		return nil, fmt.Errorf("idf has %d weights for a vocabulary of dimension %d", len(state.IDF), v.dim)
	}

	switch state.Analyzer {
	case AnalyzerWord, "":
		v.state.Analyzer = AnalyzerWord
		re, err := regexp.Compile(tokenRegexp(state.TokenPattern))
		if err != nil {
			return nil, fmt.Errorf("invalid token pattern: %w", err)
		}
		v.pattern = re
	case AnalyzerChar, AnalyzerCharWB:
	default:
		return nil, fmt.Errorf("unsupported analyzer %q", state.Analyzer)
	}

	switch state.Norm {
	case "", "l1", "l2":
	default:
		return nil, fmt.Errorf("unsupported norm %q", state.Norm)
	}
	return v, nil
}

// tokenRegexp translates a persisted token pattern to RE2 syntax.
func tokenRegexp(pattern string) string {
	switch pattern {
	case "", DefaultTokenPattern, strings.TrimPrefix(DefaultTokenPattern, "(?u)"):
		return unicodeWordPattern
	}
	// RE2 has no (?u) flag.
	return strings.TrimPrefix(pattern, "(?u)")
}

// Dim returns the number of text features.
func (v *Vectorizer) Dim() int {
	return v.dim
}

// State returns the persisted form.
func (v *Vectorizer) State() VectorizerState {
	return v.state
}

// Transform vectorizes one document.
func (v *Vectorizer) Transform(text string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range v.analyze(text) {
		if idx, ok := v.state.Vocabulary[term]; ok {
			counts[idx]++
		}
	}

	vec := make(SparseVector, 0, len(counts))
	for idx, tf := range counts {
		if v.state.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		if v.state.UseIDF {
			tf *= v.state.IDF[idx]
		}
		vec = append(vec, Entry{Index: idx, Value: tf})
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].Index < vec[j].Index })
	vec.normalize(v.state.Norm)
	return vec
}

func (v *Vectorizer) analyze(text string) []string {
	text = v.preprocess(text)
	switch v.state.Analyzer {
	case AnalyzerChar:
		return charNgrams(text, v.state.NgramMin, v.state.NgramMax)
	case AnalyzerCharWB:
		return charWBNgrams(text, v.state.NgramMin, v.state.NgramMax)
	default:
		return wordNgrams(v.pattern.FindAllString(text, -1), v.state.NgramMin, v.state.NgramMax)
	}
}

func (v *Vectorizer) preprocess(text string) string {
	switch v.state.StripAccents {
	case "unicode":
		text = stripAccents(text)
	case "ascii":
		text = stripAccents(text)
		text = strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return -1
			}
			return r
		}, text)
	}
	if v.state.Lowercase {
		text = strings.ToLower(text)
	}
	return text
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func wordNgrams(tokens []string, minN, maxN int) []string {
	if maxN == 1 {
		return tokens
	}
	var out []string
	if minN == 1 {
		out = append(out, tokens...)
		minN = 2
	}
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

func charNgrams(text string, minN, maxN int) []string {
	rs := []rune(whitespaceRun.ReplaceAllString(text, " "))
	var out []string
	for n := minN; n <= maxN && n <= len(rs); n++ {
		for i := 0; i+n <= len(rs); i++ {
			out = append(out, string(rs[i:i+n]))
		}
	}
	return out
}

func charWBNgrams(text string, minN, maxN int) []string {
	var out []string
	for _, word := range strings.Fields(whitespaceRun.ReplaceAllString(text, " ")) {
		w := []rune(" " + word + " ")
		for n := minN; n <= maxN; n++ {
			offset := 0
			out = append(out, string(w[offset:min(offset+n, len(w))]))
			for offset+n < len(w) {
				offset++
				out = append(out, string(w[offset:offset+n]))
			}
			if offset == 0 {
				break
			}
		}
	}
	return out
}

func (vec SparseVector) normalize(kind string) {
	var total float64
	switch kind {
	case "l2":
		for _, e := range vec {
			total += e.Value * e.Value
		}
		total = math.Sqrt(total)
	case "l1":
		for _, e := range vec {
			total += math.Abs(e.Value)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range vec {
		vec[i].Value /= total
	}
}
