package eval

import (
	"testing"

	"github.com/stretchr/testify/require"
	"text2phenotype.com/seqlearn/types"
)

func encode(states *types.Encoder, tags ...string) types.Labels {
	labels := make(types.Labels, len(tags))
	for i, tag := range tags {
		labels[i] = states.Index(tag)
	}
	return labels
}

func TestEvaluatePerfectPrediction(t *testing.T) {
	states := types.NewEncoder()
	gold := encode(states, "B-PER", "I-PER", "O", "B-LOC")

	report, err := Evaluate([]types.Labels{gold}, []types.Labels{gold.Clone()}, states)
	require.NoError(t, err)
	require.Equal(t, 1.0, report.TokenAccuracy)

	overall := report.Overall()
	require.Equal(t, Counts{Gold: 2, Predicted: 2, Correct: 2}, overall)
	require.Equal(t, 1.0, overall.F1())
	require.Equal(t, []string{"LOC", "PER"}, report.Labels())
}

func TestEvaluateCountsPartialOverlapAsWrong(t *testing.T) {
	states := types.NewEncoder()
	gold := encode(states, "B-PER", "I-PER", "O", "O")
	// The predicted PER chunk is one token short: both precision and
	// recall lose it.
	pred := encode(states, "B-PER", "O", "O", "B-LOC")

	report, err := Evaluate([]types.Labels{gold}, []types.Labels{pred}, states)
	require.NoError(t, err)
	require.Equal(t, 0.5, report.TokenAccuracy)

	per := report.ByLabel["PER"]
	require.Equal(t, Counts{Gold: 1, Predicted: 1, Correct: 0}, per)
	loc := report.ByLabel["LOC"]
	require.Equal(t, Counts{Gold: 0, Predicted: 1, Correct: 0}, loc)
	require.Equal(t, 0.0, report.Overall().F1())
}

func TestEvaluateSplitsChunksOnTypeChange(t *testing.T) {
	states := types.NewEncoder()
	gold := encode(states, "B-PER", "I-LOC", "I-LOC")

	report, err := Evaluate([]types.Labels{gold}, []types.Labels{gold.Clone()}, states)
	require.NoError(t, err)
	require.Equal(t, Counts{Gold: 1, Predicted: 1, Correct: 1}, report.ByLabel["PER"])
	require.Equal(t, Counts{Gold: 1, Predicted: 1, Correct: 1}, report.ByLabel["LOC"])
}

func TestEvaluatePlainTagsActAsSingleTokenChunks(t *testing.T) {
	states := types.NewEncoder()
	gold := encode(states, "NN", "NN", "O")
	pred := encode(states, "NN", "VB", "O")

	report, err := Evaluate([]types.Labels{gold}, []types.Labels{pred}, states)
	require.NoError(t, err)
	require.Equal(t, Counts{Gold: 2, Predicted: 1, Correct: 1}, report.ByLabel["NN"])
	require.Equal(t, Counts{Gold: 0, Predicted: 1, Correct: 0}, report.ByLabel["VB"])
}

func TestEvaluateRejectsMismatchedShapes(t *testing.T) {
	states := types.NewEncoder()
	gold := encode(states, "O", "O")

	_, err := Evaluate([]types.Labels{gold}, nil, states)
	require.Error(t, err)

	_, err = Evaluate([]types.Labels{gold}, []types.Labels{encode(states, "O")}, states)
	require.Error(t, err)
}
