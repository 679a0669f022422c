package hmm

import (
	"text2phenotype.com/seqlearn/types"
)

// DenseModel backs the Model contract with flat arrays over a fixed feature
// dimension. It suits hashed feature spaces and small experiments where the
// number of features is known up front.
type DenseModel struct {
	defaultState int
	numFeatures  int

	initial    []float64
	transition [][]float64
	emission   [][]float64 // [state][feature]

	sumInitial      []float64
	sumTransition   [][]float64
	sumEmission     [][]float64
	lastAccumulated int
}

var _ Model = (*DenseModel)(nil)

func NewDenseModel(numStates, numFeatures, defaultState int) *DenseModel {
	model := &DenseModel{
		defaultState: defaultState,
		numFeatures:  numFeatures,
		initial:      make([]float64, numStates),
		sumInitial:   make([]float64, numStates),
	}
	model.transition = newMatrix(numStates, numStates)
	model.sumTransition = newMatrix(numStates, numStates)
	model.emission = newMatrix(numStates, numFeatures)
	model.sumEmission = newMatrix(numStates, numFeatures)
	return model
}

func newMatrix(rows, cols int) [][]float64 {
	matrix := make([][]float64, rows)
	for i := range matrix {
		matrix[i] = make([]float64, cols)
	}
	return matrix
}

func (model *DenseModel) NumStates() int {
	return len(model.initial)
}

func (model *DenseModel) NumFeatures() int {
	return model.numFeatures
}

func (model *DenseModel) DefaultState() int {
	return model.defaultState
}

func (model *DenseModel) Initial(state int) float64 {
	return model.initial[state]
}

func (model *DenseModel) Transition(from, to int) float64 {
	return model.transition[from][to]
}

func (model *DenseModel) Emission(state, feature int) float64 {
	return model.emission[state][feature]
}

func (model *DenseModel) AddInitial(state int, delta float64) {
	model.initial[state] += delta
}

func (model *DenseModel) AddTransition(from, to int, delta float64) {
	model.transition[from][to] += delta
}

func (model *DenseModel) AddEmission(input types.Sequence, token, state int, delta float64) {
	for _, feature := range input.Features(token) {
		model.emission[state][feature] += delta
	}
}

// Accumulate adds the current parameters into the averaging accumulators,
// weighted by the number of iterations since the previous call.
func (model *DenseModel) Accumulate(iteration int) {
	weight := float64(iteration - model.lastAccumulated)
	model.lastAccumulated = iteration

	for state, value := range model.initial {
		model.sumInitial[state] += weight * value
	}
	for from := range model.transition {
		for to, value := range model.transition[from] {
			model.sumTransition[from][to] += weight * value
		}
	}
	for state := range model.emission {
		for feature, value := range model.emission[state] {
			model.sumEmission[state][feature] += weight * value
		}
	}
}

// Average replaces every parameter with its accumulated mean.
func (model *DenseModel) Average(totalIterations int) {
	div := float64(totalIterations)

	for state := range model.initial {
		model.initial[state] = model.sumInitial[state] / div
	}
	for from := range model.transition {
		for to := range model.transition[from] {
			model.transition[from][to] = model.sumTransition[from][to] / div
		}
	}
	for state := range model.emission {
		for feature := range model.emission[state] {
			model.emission[state][feature] = model.sumEmission[state][feature] / div
		}
	}
}
