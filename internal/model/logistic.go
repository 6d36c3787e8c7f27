package model

import (
	"fmt"
	"math"
)

// Multi-class strategies
const (
	MultiClassMultinomial = "multinomial"
	MultiClassOvR         = "ovr"
)

// ModelState is the persisted form of a logistic regression classifier.
// Classes maps each output row to an encoded label index.
type ModelState struct {
	Schema     uint16
	MultiClass string
	Coef       [][]float64
	Intercept  []float64
	Classes    []int
}

// LogisticModel scores sparse vectors with a trained linear model.
type LogisticModel struct {
	state ModelState
	width int
}

// NewLogisticModel validates state and prepares it for use.
func NewLogisticModel(state ModelState) (*LogisticModel, error) {
	if len(state.Coef) == 0 {
		return nil, fmt.Errorf("model has no coefficients")
	}
	if len(state.Intercept) != len(state.Coef) {
		return nil, fmt.Errorf("model has %d intercepts for %d coefficient rows", len(state.Intercept), len(state.Coef))
	}
	width := len(state.Coef[0])
	for i, row := range state.Coef {
		if len(row) != width {
			return nil, fmt.Errorf("coefficient row %d has width %d, want %d", i, len(row), width)
		}
	}

	m := &LogisticModel{state: state, width: width}
	if len(state.Classes) == 0 {
		m.state.Classes = make([]int, m.NumClasses())
		for i := range m.state.Classes {
			m.state.Classes[i] = i
		}
	}
	if len(m.state.Classes) != m.NumClasses() {
		return nil, fmt.Errorf("model lists %d classes but scores %d", len(m.state.Classes), m.NumClasses())
	}
	switch m.state.MultiClass {
	case "", MultiClassMultinomial, MultiClassOvR:
	default:
		return nil, fmt.Errorf("unsupported multi-class strategy %q", m.state.MultiClass)
	}
	return m, nil
}

// Width returns the number of input features.
func (m *LogisticModel) Width() int {
	return m.width
}

// NumClasses returns the number of output classes. A single coefficient row is a binary model.
func (m *LogisticModel) NumClasses() int {
	if len(m.state.Coef) == 1 {
		return 2
	}
	return len(m.state.Coef)
}

// Classes returns the encoded label index of each output.
func (m *LogisticModel) Classes() []int {
	return m.state.Classes
}

// State returns the persisted form.
func (m *LogisticModel) State() ModelState {
	return m.state
}

// PredictProba returns a probability per class. Entries beyond Width are ignored.
func (m *LogisticModel) PredictProba(x SparseVector) []float64 {
	scores := make([]float64, len(m.state.Coef))
	for k, row := range m.state.Coef {
		z := m.state.Intercept[k]
		for _, e := range x {
			if e.Index >= 0 && e.Index < m.width {
				z += row[e.Index] * e.Value
			}
		}
		scores[k] = z
	}

	if len(scores) == 1 {
		p := sigmoid(scores[0])
		return []float64{1 - p, p}
	}
	if m.state.MultiClass == MultiClassOvR {
		var total float64
		for k, z := range scores {
			scores[k] = sigmoid(z)
			total += scores[k]
		}
		for k := range scores {
			scores[k] /= total
		}
		return scores
	}
	return softmax(scores)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func softmax(z []float64) []float64 {
	maxZ := math.Inf(-1)
	for _, v := range z {
		maxZ = math.Max(maxZ, v)
	}
	var total float64
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = math.Exp(v - maxZ)
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

func argmax(p []float64) int {
	best := 0
	for i := range p {
		if p[i] > p[best] {
			best = i
		}
	}
	return best
}
