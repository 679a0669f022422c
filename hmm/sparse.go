package hmm

import (
	"text2phenotype.com/seqlearn/types"
)

// SparseModel keeps per-state emission weights in maps, so the feature space
// may grow without bound during training. Initial and transition tables stay
// dense; the state set is always small.
type SparseModel struct {
	defaultState int

	initial    []float64
	transition [][]float64
	emission   []map[int]float64 // [state] feature -> weight

	sumInitial      []float64
	sumTransition   [][]float64
	sumEmission     []map[int]float64
	lastAccumulated int
}

var _ Model = (*SparseModel)(nil)

func NewSparseModel(numStates, defaultState int) *SparseModel {
	model := &SparseModel{
		defaultState:  defaultState,
		initial:       make([]float64, numStates),
		sumInitial:    make([]float64, numStates),
		transition:    newMatrix(numStates, numStates),
		sumTransition: newMatrix(numStates, numStates),
		emission:      make([]map[int]float64, numStates),
		sumEmission:   make([]map[int]float64, numStates),
	}
	for state := 0; state < numStates; state++ {
		model.emission[state] = make(map[int]float64)
		model.sumEmission[state] = make(map[int]float64)
	}
	return model
}

func (model *SparseModel) NumStates() int {
	return len(model.initial)
}

func (model *SparseModel) DefaultState() int {
	return model.defaultState
}

func (model *SparseModel) Initial(state int) float64 {
	return model.initial[state]
}

func (model *SparseModel) Transition(from, to int) float64 {
	return model.transition[from][to]
}

// Emission returns 0 for any (state, feature) pair never touched by an
// update.
func (model *SparseModel) Emission(state, feature int) float64 {
	return model.emission[state][feature]
}

func (model *SparseModel) AddInitial(state int, delta float64) {
	model.initial[state] += delta
}

func (model *SparseModel) AddTransition(from, to int, delta float64) {
	model.transition[from][to] += delta
}

func (model *SparseModel) AddEmission(input types.Sequence, token, state int, delta float64) {
	weights := model.emission[state]
	for _, feature := range input.Features(token) {
		weights[feature] += delta
	}
}

func (model *SparseModel) Accumulate(iteration int) {
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
	for state, weights := range model.emission {
		sums := model.sumEmission[state]
		for feature, value := range weights {
			sums[feature] += weight * value
		}
	}
}

func (model *SparseModel) Average(totalIterations int) {
	div := float64(totalIterations)

	for state := range model.initial {
		model.initial[state] = model.sumInitial[state] / div
	}
	for from := range model.transition {
		for to := range model.transition[from] {
			model.transition[from][to] = model.sumTransition[from][to] / div
		}
	}
	for state, weights := range model.emission {
		for feature := range weights {
			weights[feature] = model.sumEmission[state][feature] / div
		}
	}
}
