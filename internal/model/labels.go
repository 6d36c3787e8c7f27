package model

import "fmt"

// LabelState is the persisted form of a label decoder.
type LabelState struct {
	Schema  uint16
	Classes []string
}

// LabelDecoder maps encoded class indices back to label names.
type LabelDecoder struct {
	classes []string
}

// NewLabelDecoder validates state.
func NewLabelDecoder(state LabelState) (*LabelDecoder, error) {
	if len(state.Classes) == 0 {
		return nil, fmt.Errorf("label decoder has no classes")
	}
	return &LabelDecoder{classes: append([]string(nil), state.Classes...)}, nil
}

// Decode returns the label for an encoded index.
func (d *LabelDecoder) Decode(idx int) (string, error) {
	if idx < 0 || idx >= len(d.classes) {
		return "", fmt.Errorf("label index %d out of range [0,%d)", idx, len(d.classes))
	}
	return d.classes[idx], nil
}

// Classes returns every label in encoded order.
func (d *LabelDecoder) Classes() []string {
	return append([]string(nil), d.classes...)
}

// Len returns the number of labels.
func (d *LabelDecoder) Len() int {
	return len(d.classes)
}
