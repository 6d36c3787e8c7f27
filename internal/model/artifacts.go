// Package model loads the persisted classifier artifacts and scores snippets.
package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion is bumped whenever a persisted state changes shape.
const SchemaVersion uint16 = 1

// SetName identifies which artifact set was loaded.
type SetName string

const (
	// SetCurrent carries a vectorizer, a model, a label decoder and an optional feature list.
	SetCurrent SetName = "current"
	// SetLegacy carries a vectorizer, a model and a label decoder with text features only.
	SetLegacy SetName = "legacy"
)

// Artifact file names per set
const (
	VectorizerFile       = "tfidf_vectorizer.msgpack"
	ModelFile            = "syntax_error_model.msgpack"
	LabelsFile           = "label_encoder.msgpack"
	FeaturesFile         = "numerical_features.msgpack"
	LegacyVectorizerFile = "tfidf.msgpack"
	LegacyModelFile      = "error_classifier.msgpack"
)

type setLayout struct {
	vectorizer string
	model      string
	labels     string
	features   string
}

var layouts = map[SetName]setLayout{
	SetCurrent: {vectorizer: VectorizerFile, model: ModelFile, labels: LabelsFile, features: FeaturesFile},
	SetLegacy:  {vectorizer: LegacyVectorizerFile, model: LegacyModelFile, labels: LabelsFile},
}

// FeatureState is the persisted list of structural feature names.
type FeatureState struct {
	Schema uint16
	Names  []string
}

// Bundle groups the persisted states of one artifact set.
type Bundle struct {
	Vectorizer VectorizerState
	Model      ModelState
	Labels     LabelState
	// Features is empty when the model was trained on text features only.
	Features []string
}

// FileDigest fingerprints one artifact file.
type FileDigest struct {
	Name   string `json:"name" yaml:"name"`
	Size   int64  `json:"size" yaml:"size"`
	XXHash uint64 `json:"xxhash" yaml:"xxhash"`
}

// Manifest describes what was loaded.
type Manifest struct {
	Set   SetName      `json:"set" yaml:"set"`
	Dir   string       `json:"dir" yaml:"dir"`
	Files []FileDigest `json:"files" yaml:"files"`
}

// Artifacts is the loaded, read-only classifier state.
type Artifacts struct {
	Vectorizer *Vectorizer
	Model      *LogisticModel
	Labels     *LabelDecoder
	Features   []string
	Manifest   Manifest
}

// Enhanced reports whether structural features are appended to the text vector.
func (a *Artifacts) Enhanced() bool {
	return len(a.Features) > 0
}

// Load reads the current artifact set from dir, falling back to the legacy set.
func Load(dir string) (*Artifacts, error) {
	current, err := LoadSet(dir, SetCurrent)
	if err == nil {
		return current, nil
	}
	legacy, legacyErr := LoadSet(dir, SetLegacy)
	if legacyErr == nil {
		return legacy, nil
	}
	return nil, fmt.Errorf("no usable artifact set in %s: %w", dir, errors.Join(err, legacyErr))
}

// LoadSet reads one artifact set from dir.
func LoadSet(dir string, set SetName) (*Artifacts, error) {
	layout, ok := layouts[set]
	if !ok {
		return nil, fmt.Errorf("unknown artifact set %q", set)
	}

	manifest := Manifest{Set: set, Dir: dir}
	var (
		vecState   VectorizerState
		modelState ModelState
		labelState LabelState
	)
	if err := readState(dir, layout.vectorizer, &vecState, &manifest); err != nil {
		return nil, err
	}
	if err := readState(dir, layout.model, &modelState, &manifest); err != nil {
		return nil, err
	}
	if err := readState(dir, layout.labels, &labelState, &manifest); err != nil {
		return nil, err
	}

	bundle := Bundle{Vectorizer: vecState, Model: modelState, Labels: labelState}
	if layout.features != "" {
		var features FeatureState
		err := readState(dir, layout.features, &features, &manifest)
		switch {
		case err == nil:
			bundle.Features = features.Names
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}

	a, err := FromBundle(bundle)
	if err != nil {
		return nil, fmt.Errorf("%s artifact set: %w", set, err)
	}
	a.Manifest = manifest
	return a, nil
}

// FromBundle builds artifacts from in-memory states, checking that they were
// trained together.
func FromBundle(b Bundle) (*Artifacts, error) {
	for name, schema := range map[string]uint16{
		"vectorizer": b.Vectorizer.Schema,
		"model":      b.Model.Schema,
		"labels":     b.Labels.Schema,
	} {
		if schema != SchemaVersion {
			return nil, fmt.Errorf("%s schema %d, want %d", name, schema, SchemaVersion)
		}
	}

	vec, err := NewVectorizer(b.Vectorizer)
	if err != nil {
		return nil, err
	}
	lm, err := NewLogisticModel(b.Model)
	if err != nil {
		return nil, err
	}
	labels, err := NewLabelDecoder(b.Labels)
	if err != nil {
		return nil, err
	}

	features := b.Features
	extra := lm.Width() - vec.Dim()
	if len(features) == 0 && extra == len(DefaultFeatureNames) {
		features = DefaultFeatureNames
	}
	if extra != len(features) {
		return nil, fmt.Errorf("model expects %d features, vectorizer and feature list provide %d",
			lm.Width(), vec.Dim()+len(features))
	}
	for _, cls := range lm.Classes() {
		if cls < 0 || cls >= labels.Len() {
			return nil, fmt.Errorf("model class %d has no label (decoder knows %d)", cls, labels.Len())
		}
	}

	return &Artifacts{
		Vectorizer: vec,
		Model:      lm,
		Labels:     labels,
		Features:   append([]string(nil), features...),
	}, nil
}

func readState(dir, name string, out any, manifest *Manifest) error {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	manifest.Files = append(manifest.Files, FileDigest{
		Name:   name,
		Size:   int64(len(data)),
		XXHash: xxhash.Sum64(data),
	})
	return nil
}

// Save writes a bundle to dir using the layout of set.
func Save(dir string, set SetName, b Bundle) error {
	layout, ok := layouts[set]
	if !ok {
		return fmt.Errorf("unknown artifact set %q", set)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	b.Vectorizer.Schema = SchemaVersion
	b.Model.Schema = SchemaVersion
	b.Labels.Schema = SchemaVersion

	files := []struct {
		name  string
		state any
	}{
		{layout.vectorizer, b.Vectorizer},
		{layout.model, b.Model},
		{layout.labels, b.Labels},
	}
	if layout.features != "" && len(b.Features) > 0 {
		files = append(files, struct {
			name  string
			state any
		}{layout.features, FeatureState{Schema: SchemaVersion, Names: b.Features}})
	}

	for _, f := range files {
		if err := writeState(filepath.Join(dir, f.name), f.state); err != nil {
			return err
		}
	}
	return nil
}

func writeState(path string, state any) error {
	data, err := msgpack.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
