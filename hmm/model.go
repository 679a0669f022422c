// Package hmm implements exact Viterbi decoding and the online
// structured-perceptron update over an abstract HMM-like parameter store.
// All scores are additive log-domain weights; nothing in this package
// normalizes or clamps them.
package hmm

import (
	"errors"
	"fmt"

	"text2phenotype.com/seqlearn/types"
)

// Model is the parameter store consumed by Decode and mutated by Update.
// It exposes initial, transition and emission weights plus the additive
// mutators the learner needs. The store is long-lived and shared across
// calls; the package never replaces it, only adjusts individual entries.
//
// Decode is read-only with respect to the Model and may run concurrently
// across examples. Update assumes exclusive access; callers that train from
// multiple goroutines must serialize externally.
type Model interface {
	// NumStates returns the number of states (labels). Valid states are
	// [0, NumStates).
	NumStates() int
	// DefaultState is the state the decoder seeds every arg-max scan with,
	// so it wins all exact ties. It also acts as the assumed predecessor
	// for the first token.
	DefaultState() int

	Initial(state int) float64
	Transition(from, to int) float64
	Emission(state, feature int) float64

	AddInitial(state int, delta float64)
	AddTransition(from, to int, delta float64)
	// AddEmission adds delta to the (state, feature) weight of every
	// feature active at position token of input.
	AddEmission(input types.Sequence, token, state int, delta float64)

	// Accumulate records a snapshot of the current parameters, weighted by
	// the number of iterations elapsed since the previous call. Called once
	// per training iteration.
	Accumulate(iteration int)
	// Average replaces every parameter with the mean of its accumulated
	// snapshots over totalIterations. After averaging the accumulators are
	// no longer meaningful; the model should only be used for inference.
	Average(totalIterations int)
}

var (
	// ErrEmptySequence is returned when a zero-length input reaches Decode
	// or Update. Callers are expected to filter empty examples out.
	ErrEmptySequence = errors.New("hmm: empty input sequence")
)

func errLengthMismatch(what string, got, want int) error {
	return fmt.Errorf("hmm: %s has length %d, input has length %d", what, got, want)
}

// tokenEmissionWeight is the summed emission weight of state over the
// features active at position token.
func tokenEmissionWeight(model Model, input types.Sequence, token, state int) float64 {
	weight := 0.0
	for _, feature := range input.Features(token) {
		weight += model.Emission(state, feature)
	}
	return weight
}
