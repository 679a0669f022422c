package hmm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"text2phenotype.com/seqlearn/types"
)

// singleFeatureSequence gives token t the single active feature t.
func singleFeatureSequence(length int) types.Sequence {
	seq := make(types.Sequence, length)
	for t := 0; t < length; t++ {
		seq[t] = types.Token{Features: []int{t}}
	}
	return seq
}

// pseudoModel fills a dense model with small deterministic weights so that
// exhaustive checks stay reproducible without fixtures.
func pseudoModel(numStates, numFeatures, defaultState, salt int) *DenseModel {
	model := NewDenseModel(numStates, numFeatures, defaultState)
	for s := 0; s < numStates; s++ {
		model.AddInitial(s, float64((s*7+salt)%5)-2)
		for to := 0; to < numStates; to++ {
			model.AddTransition(s, to, float64((s*11+to*3+salt)%7)-3)
		}
		for f := 0; f < numFeatures; f++ {
			model.emission[s][f] = float64((s*13+f*5+salt)%9) - 4
		}
	}
	return model
}

// pathScore recomputes a full path score independently of the decoder.
func pathScore(model Model, input types.Sequence, path []int) float64 {
	score := model.Initial(path[0]) + tokenEmissionWeight(model, input, 0, path[0])
	for t := 1; t < input.Len(); t++ {
		score += model.Transition(path[t-1], path[t]) +
			tokenEmissionWeight(model, input, t, path[t])
	}
	return score
}

// bestScoreExhaustive enumerates every possible label sequence.
func bestScoreExhaustive(model Model, input types.Sequence) float64 {
	numStates := model.NumStates()
	length := input.Len()
	path := make([]int, length)
	best := 0.0
	first := true

	total := 1
	for t := 0; t < length; t++ {
		total *= numStates
	}
	for n := 0; n < total; n++ {
		v := n
		for t := 0; t < length; t++ {
			path[t] = v % numStates
			v /= numStates
		}
		score := pathScore(model, input, path)
		if first || score > best {
			best = score
			first = false
		}
	}
	return best
}

func TestDecodeMatchesExhaustiveSearch(t *testing.T) {
	for _, numStates := range []int{1, 2, 3} {
		for length := 1; length <= 4; length++ {
			for salt := 0; salt < 5; salt++ {
				model := pseudoModel(numStates, length, numStates-1, salt)
				input := singleFeatureSequence(length)

				output, err := Decode(input, model)
				require.NoError(t, err)
				require.Len(t, []int(output), length)

				got := pathScore(model, input, output)
				want := bestScoreExhaustive(model, input)
				require.InDelta(t, want, got, 1e-12,
					"states=%d len=%d salt=%d output=%v", numStates, length, salt, output)
			}
		}
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	model := NewDenseModel(2, 1, 0)
	_, err := Decode(types.Sequence{}, model)
	require.ErrorIs(t, err, ErrEmptySequence)
}

func TestDecodeTieBreaksTowardDefaultState(t *testing.T) {
	// All weights are zero, every path ties; the default state must win at
	// every position.
	model := NewDenseModel(3, 4, 1)
	input := singleFeatureSequence(4)

	output, err := Decode(input, model)
	require.NoError(t, err)
	require.Equal(t, types.Labels{1, 1, 1, 1}, output)
}

func TestDecodeTieBreaksTowardLowestIndexWithoutDefault(t *testing.T) {
	// The default state is strictly worse, states 0 and 2 tie; the scan
	// order must pick state 0.
	model := NewDenseModel(4, 1, 1)
	model.AddInitial(1, -1)
	model.AddInitial(3, -1)
	input := types.Sequence{{Features: nil}}

	output, err := Decode(input, model)
	require.NoError(t, err)
	require.Equal(t, types.Labels{0}, output)
}

func TestDecodeAlternatingPreference(t *testing.T) {
	// Two states, three tokens. Each token's feature favors one state by +2
	// and the transition table rewards switching states.
	model := NewDenseModel(2, 3, 0)
	model.AddTransition(0, 1, 1)
	model.AddTransition(1, 0, 1)
	input := singleFeatureSequence(3)
	model.emission[0][0] = 2
	model.emission[1][1] = 2
	model.emission[0][2] = 2

	output, err := Decode(input, model)
	require.NoError(t, err)
	require.Equal(t, types.Labels{0, 1, 0}, output)
	require.InDelta(t, 8.0, pathScore(model, input, output), 1e-12)
}

func TestBackpointersConsistentWithOutput(t *testing.T) {
	model := pseudoModel(3, 4, 0, 2)
	input := singleFeatureSequence(4)

	output, err := Decode(input, model)
	require.NoError(t, err)

	_, psi := fillTrellis(input, model)
	for token := 1; token < input.Len(); token++ {
		require.Equal(t, output[token-1], psi[token][output[token]],
			"backpointer at token %d disagrees with the decoded path", token)
	}
}

func TestDecodeLeavesModelUntouched(t *testing.T) {
	model := pseudoModel(3, 4, 0, 3)
	before := pseudoModel(3, 4, 0, 3)
	input := singleFeatureSequence(4)

	_, err := Decode(input, model)
	require.NoError(t, err)
	require.Equal(t, before, model)
}

func TestSparseModelDecodesLikeDense(t *testing.T) {
	dense := pseudoModel(3, 4, 1, 4)
	sparse := NewSparseModel(3, 1)
	input := singleFeatureSequence(4)
	for s := 0; s < 3; s++ {
		sparse.AddInitial(s, dense.Initial(s))
		for to := 0; to < 3; to++ {
			sparse.AddTransition(s, to, dense.Transition(s, to))
		}
		for f := 0; f < 4; f++ {
			sparse.emission[s][f] = dense.Emission(s, f)
		}
	}

	fromDense, err := Decode(input, dense)
	require.NoError(t, err)
	fromSparse, err := Decode(input, sparse)
	require.NoError(t, err)
	require.Equal(t, fromDense, fromSparse)
}
