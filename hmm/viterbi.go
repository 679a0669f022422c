package hmm

import (
	"text2phenotype.com/seqlearn/types"
)

// Decode runs the exact Viterbi dynamic program over the input and returns
// the highest-scoring label assignment. The model is not modified.
//
// Tie-break policy: at every arg-max (per-step predecessor choice and final
// state choice) the default state is tested first and is only displaced by a
// strictly greater score, so ties resolve toward the default state; among
// non-default candidates the lowest index wins. Trained models reproduce
// only if this policy is kept intact.
//
// Runs in O(T*S^2) time and O(T*S) space. Non-finite weights in the model
// propagate into the result undetected.
func Decode(input types.Sequence, model Model) (types.Labels, error) {
	length := input.Len()
	if length == 0 {
		return nil, ErrEmptySequence
	}

	delta, psi := fillTrellis(input, model)

	// The default state is always the first option.
	defaultState := model.DefaultState()
	bestState := defaultState
	bestWeight := delta[length-1][defaultState]
	for state := 0; state < model.NumStates(); state++ {
		if delta[length-1][state] > bestWeight {
			bestWeight = delta[length-1][state]
			bestState = state
		}
	}

	output := make(types.Labels, length)
	backwardTag(output, psi, bestState)
	return output, nil
}

// fillTrellis computes the best partial-path weights (delta) and the
// backpointer table (psi). Both tables are owned by the current call.
func fillTrellis(input types.Sequence, model Model) (delta [][]float64, psi [][]int) {
	numStates := model.NumStates()
	defaultState := model.DefaultState()
	length := input.Len()

	delta = make([][]float64, length)
	psi = make([][]int, length)
	for token := 0; token < length; token++ {
		delta[token] = make([]float64, numStates)
		psi[token] = make([]int, numStates)
	}

	for state := 0; state < numStates; state++ {
		delta[0][state] = tokenEmissionWeight(model, input, 0, state) +
			model.Initial(state)
	}

	for token := 1; token < length; token++ {
		for state := 0; state < numStates; state++ {
			viterbiStep(model, input, delta, psi, token, state, defaultState)
		}
	}
	return delta, psi
}

// viterbiStep picks the best predecessor for toState at position token,
// seeding the scan with the default state.
func viterbiStep(model Model, input types.Sequence, delta [][]float64, psi [][]int,
	token, toState, defaultState int) {

	maxState := defaultState
	maxWeight := delta[token-1][defaultState] + model.Transition(defaultState, toState)
	for fromState := 0; fromState < model.NumStates(); fromState++ {
		weight := delta[token-1][fromState] + model.Transition(fromState, toState)
		if weight > maxWeight {
			maxWeight = weight
			maxState = fromState
		}
	}

	psi[token][toState] = maxState
	delta[token][toState] = maxWeight + tokenEmissionWeight(model, input, token, toState)
}

// backwardTag walks the backpointer table from the chosen final state and
// fills output back to front.
func backwardTag(output types.Labels, psi [][]int, bestFinalState int) {
	state := bestFinalState
	for token := len(output) - 1; token > 0; token-- {
		output[token] = state
		state = psi[token][state]
	}
	output[0] = state
}
