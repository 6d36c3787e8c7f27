package model

import (
	"bytes"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

func tinyBundle(features []string) Bundle {
	width := 4 + len(features)
	row := func(weights ...float64) []float64 {
		r := make([]float64, width)
		copy(r, weights)
		return r
	}
	return Bundle{
		Vectorizer: VectorizerState{
			Schema:     SchemaVersion,
			Analyzer:   AnalyzerWord,
			NgramMin:   1,
			NgramMax:   1,
			Lowercase:  true,
			Vocabulary: map[string]int{"zero": 0, "divide": 1, "ok": 2, "cast": 3},
		},
		Model: ModelState{
			Schema: SchemaVersion,
			Coef: [][]float64{
				row(3, 3, 0, 0),
				row(0, 0, 3, 0),
				row(0, 0, 0, 3),
			},
			Intercept: []float64{0, 0, 0},
		},
		Labels: LabelState{
			Schema:  SchemaVersion,
			Classes: []string{"DivisionByZero", "NoError", "TypeMismatch"},
		},
		Features: features,
	}
}

func terms(v *Vectorizer, text string) []string {
	out := v.analyze(text)
	sort.Strings(out)
	return out
}

func TestVectorizer_CharNgrams(t *testing.T) {
	v, err := NewVectorizer(VectorizerState{Analyzer: AnalyzerChar, NgramMin: 1, NgramMax: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{" ", " b", "a", "a ", "b"}, terms(v, "a   b"))
}

func TestVectorizer_CharWBNgrams(t *testing.T) {
	v, err := NewVectorizer(VectorizerState{Analyzer: AnalyzerCharWB, NgramMin: 2, NgramMax: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{" a", " a ", "a "}, terms(v, "a"))
	assert.Equal(t, []string{" a", " ab", "ab", "ab ", "b "}, terms(v, "ab"))
}

func TestVectorizer_WordNgrams(t *testing.T) {
	v, err := NewVectorizer(VectorizerState{
		Analyzer:     AnalyzerWord,
		NgramMin:     1,
		NgramMax:     2,
		TokenPattern: `[A-Za-z_][A-Za-z0-9_]*`,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"int", "int x", "x"}, terms(v, "int x = 5;"))
}

func TestVectorizer_DefaultPatternDropsSingleCharacters(t *testing.T) {
	v, err := NewVectorizer(VectorizerState{TokenPattern: `(?u)\b\w\w+\b`})
	require.NoError(t, err)

	assert.Equal(t, []string{"print", "xy"}, terms(v, "print(x, xy)"))
}

func TestVectorizer_DefaultPatternIsUnicodeAware(t *testing.T) {
	for _, pattern := range []string{"", DefaultTokenPattern, `\b\w\w+\b`} {
		v, err := NewVectorizer(VectorizerState{TokenPattern: pattern})
		require.NoError(t, err)

		assert.Equal(t, []string{"größe", "naïve", "数据"}, terms(v, "größe = naïve(数据, é)"), "pattern %q", pattern)
	}
}

func TestVectorizer_StripAccentsAndLowercase(t *testing.T) {
	v, err := NewVectorizer(VectorizerState{
		Analyzer:     AnalyzerWord,
		Lowercase:    true,
		StripAccents: "unicode",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"cafe"}, terms(v, "Café"))
}

func TestVectorizer_TransformWeights(t *testing.T) {
	v, err := NewVectorizer(VectorizerState{
		Analyzer:    AnalyzerWord,
		Vocabulary:  map[string]int{"aa": 0, "bb": 1},
		IDF:         []float64{1, 2},
		UseIDF:      true,
		SublinearTF: true,
		Norm:        "l2",
	})
	require.NoError(t, err)

	vec := v.Transform("aa aa bb cc")
	require.Len(t, vec, 2)

	a := 1 + math.Log(2)
	b := 2.0
	n := math.Sqrt(a*a + b*b)
	assert.InDelta(t, a/n, vec[0].Value, 1e-9)
	assert.InDelta(t, b/n, vec[1].Value, 1e-9)
	assert.Equal(t, 2, v.Dim())
}

func TestNewVectorizer_Invalid(t *testing.T) {
	_, err := NewVectorizer(VectorizerState{Analyzer: "bytes"})
	assert.Error(t, err)

	_, err = NewVectorizer(VectorizerState{Vocabulary: map[string]int{"a": 0}, UseIDF: true})
	assert.Error(t, err)

	_, err = NewVectorizer(VectorizerState{TokenPattern: "("})
	assert.Error(t, err)
}

func TestExtractFeatures(t *testing.T) {
	code := "def f(x):\n    return x / 0\nif x == 0\n    print(\"zero\"\n"

	got, err := ExtractFeatures(DefaultFeatureNames, code)
	require.NoError(t, err)

	want := []float64{
		float64(len(code)), // code_length
		5,                  // num_lines
		1,                  // has_division
		1,                  // has_type_conv ("print(" contains "int(")
		1,                  // missing_colon
		1,                  // missing_semicolon
		1,                  // compares_zero
		1,                  // has_string_ops
		0,                  // has_type_decl
		1,                  // bracket_diff
	}
	assert.Equal(t, want, got)

	_, err = ExtractFeatures([]string{"code_length", "entropy"}, code)
	assert.Error(t, err)
}

func TestLogisticModel_Binary(t *testing.T) {
	m, err := NewLogisticModel(ModelState{
		Coef:      [][]float64{{2}},
		Intercept: []float64{0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumClasses())

	p := m.PredictProba(SparseVector{{Index: 0, Value: 1}})
	require.Len(t, p, 2)
	assert.InDelta(t, 1, p[0]+p[1], 1e-9)
	assert.Greater(t, p[1], p[0])
}

func TestLogisticModel_Validation(t *testing.T) {
	_, err := NewLogisticModel(ModelState{})
	assert.Error(t, err)

	_, err = NewLogisticModel(ModelState{Coef: [][]float64{{1}, {1, 2}}, Intercept: []float64{0, 0}})
	assert.Error(t, err)

	_, err = NewLogisticModel(ModelState{Coef: [][]float64{{1}, {2}}, Intercept: []float64{0}})
	assert.Error(t, err)

	_, err = NewLogisticModel(ModelState{Coef: [][]float64{{1}, {2}}, Intercept: []float64{0, 0}, Classes: []int{0}})
	assert.Error(t, err)
}

func TestFromBundle_DimensionCheck(t *testing.T) {
	b := tinyBundle(nil)
	b.Features = []string{"code_length"}

	_, err := FromBundle(b)
	assert.ErrorContains(t, err, "model expects 4 features")
}

func TestFromBundle_InfersDefaultFeatures(t *testing.T) {
	b := tinyBundle(DefaultFeatureNames)
	b.Features = nil

	a, err := FromBundle(b)
	require.NoError(t, err)
	assert.True(t, a.Enhanced())
	assert.Equal(t, DefaultFeatureNames, a.Features)
}

func TestFromBundle_SchemaMismatch(t *testing.T) {
	b := tinyBundle(nil)
	b.Labels.Schema = SchemaVersion + 1

	_, err := FromBundle(b)
	assert.ErrorContains(t, err, "labels schema")
}

func TestLoad_PrefersCurrentSet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, SetLegacy, tinyBundle(nil)))
	require.NoError(t, Save(dir, SetCurrent, tinyBundle(DefaultFeatureNames)))

	a, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, SetCurrent, a.Manifest.Set)
	assert.True(t, a.Enhanced())
	require.Len(t, a.Manifest.Files, 4)
	for _, f := range a.Manifest.Files {
		assert.NotZero(t, f.XXHash, f.Name)
		assert.Positive(t, f.Size, f.Name)
	}
}

func TestLoad_FallsBackToLegacySet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, SetLegacy, tinyBundle(nil)))

	a, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, SetLegacy, a.Manifest.Set)
	assert.False(t, a.Enhanced())
}

func TestLoad_CurrentWithoutFeatureFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, SetCurrent, tinyBundle(nil)))

	a, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, SetCurrent, a.Manifest.Set)
	assert.False(t, a.Enhanced())
	assert.Len(t, a.Manifest.Files, 3)
}

func TestLoad_CorruptCurrentFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, SetCurrent, tinyBundle(nil)))
	require.NoError(t, Save(dir, SetLegacy, tinyBundle(nil)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ModelFile), []byte("not msgpack"), 0o644))

	a, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, SetLegacy, a.Manifest.Set)
}

func TestLoad_NothingUsable(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "no usable artifact set")
}

func TestClassifier_Classify(t *testing.T) {
	a, err := FromBundle(tinyBundle(nil))
	require.NoError(t, err)
	c := NewClassifier(a)

	res := c.Classify("divide by zero")
	assert.Equal(t, "DivisionByZero", res.Label)
	assert.Equal(t, domain.CategoryDivisionByZero, res.Category)
	assert.InDelta(t, math.Exp(6)/(math.Exp(6)+2), res.Confidence, 1e-9)
	assert.False(t, res.Enhanced)

	res = c.Classify("")
	assert.InDelta(t, 1.0/3, res.Confidence, 1e-9)
}

func TestClassifier_Enhanced(t *testing.T) {
	a, err := FromBundle(tinyBundle(DefaultFeatureNames))
	require.NoError(t, err)

	res := NewClassifier(a).Classify("cast cast")
	assert.Equal(t, domain.CategoryTypeMismatch, res.Category)
	assert.True(t, res.Enhanced)
}

func TestClassifier_DegradesOnUnknownFeature(t *testing.T) {
	features := []string{"code_length", "mystery"}
	b := tinyBundle(features)
	a, err := FromBundle(b)
	require.NoError(t, err)

	var buf bytes.Buffer
	c := NewClassifier(a)
	c.SetLogger(log.New(&buf, "", 0))

	res := c.Classify("ok ok")
	assert.Equal(t, domain.CategoryNoError, res.Category)
	assert.False(t, res.Enhanced)
	assert.Contains(t, buf.String(), "feature augmentation skipped")
}

func TestClassifier_UnknownLabelIsGeneric(t *testing.T) {
	b := tinyBundle(nil)
	b.Labels.Classes = []string{"LegacyBucket", "NoError", "TypeMismatch"}
	a, err := FromBundle(b)
	require.NoError(t, err)

	res := NewClassifier(a).Classify("zero")
	assert.Equal(t, "LegacyBucket", res.Label)
	assert.Equal(t, domain.CategorySyntaxError, res.Category)
}

func TestClassifier_Distribution(t *testing.T) {
	a, err := FromBundle(tinyBundle(nil))
	require.NoError(t, err)

	dist := NewClassifier(a).Distribution("ok")
	require.Len(t, dist, 3)
	assert.Equal(t, "NoError", dist[0].Label)

	var total float64
	for _, d := range dist {
		total += d.Probability
	}
	assert.InDelta(t, 1, total, 1e-9)
}

func TestClassifier_ConcurrentUse(t *testing.T) {
	a, err := FromBundle(tinyBundle(DefaultFeatureNames))
	require.NoError(t, err)
	c := NewClassifier(a)
	want := c.Classify("divide zero")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, c.Classify("divide zero"))
		}()
	}
	wg.Wait()
}
