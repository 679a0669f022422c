package train

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"text2phenotype.com/seqlearn/dataset"
	"text2phenotype.com/seqlearn/hmm"
	"text2phenotype.com/seqlearn/types"
)

// Tiny unambiguous corpus: "ana" is always a person, "paris" a location.
const toyCorpus = `ana B-PER
visited O
paris B-LOC

paris B-LOC
welcomed O
ana B-PER
`

func loadToyCorpus(t *testing.T) ([]dataset.Example, *types.Encoder, *types.Encoder) {
	t.Helper()
	states := types.NewEncoder()
	features := types.NewEncoder()
	examples, err := dataset.Read(strings.NewReader(toyCorpus), 0, 1, states, dataset.NewTemplateExtractor(features))
	require.NoError(t, err)
	return examples, states, features
}

func TestTrainerLearnsToyCorpus(t *testing.T) {
	examples, states, _ := loadToyCorpus(t)
	model := hmm.NewSparseModel(states.Len(), states.Index("O"))

	trainer, err := New(model, Options{Iterations: 5, LearningRate: 1})
	require.NoError(t, err)
	history, err := trainer.Train(examples)
	require.NoError(t, err)
	require.Len(t, history, 5)

	// The corpus is separable; late iterations must be mistake free.
	require.Equal(t, 0, history[len(history)-1].Mistakes)
	require.Equal(t, 1.0, history[len(history)-1].TokenAccuracy)

	for _, example := range examples {
		predicted, err := hmm.Decode(example.Input, model)
		require.NoError(t, err)
		require.Equal(t, example.Gold, predicted)
	}
}

func TestTrainerAveragedStillDecodesCorrectly(t *testing.T) {
	examples, states, _ := loadToyCorpus(t)
	model := hmm.NewSparseModel(states.Len(), states.Index("O"))

	trainer, err := New(model, Options{Iterations: 8, LearningRate: 0.5, Averaged: true})
	require.NoError(t, err)
	_, err = trainer.Train(examples)
	require.NoError(t, err)

	for _, example := range examples {
		predicted, err := hmm.Decode(example.Input, model)
		require.NoError(t, err)
		require.Equal(t, example.Gold, predicted)
	}
}

func TestTrainerStopConditionEndsEarly(t *testing.T) {
	examples, states, _ := loadToyCorpus(t)
	model := hmm.NewSparseModel(states.Len(), states.Index("O"))

	stopAfterConverged := func(iteration, iterations, mistakes int) bool {
		return iteration <= iterations && (iteration == 1 || mistakes > 0)
	}
	trainer, err := New(model, Options{Iterations: 100, LearningRate: 1, Continue: stopAfterConverged})
	require.NoError(t, err)
	history, err := trainer.Train(examples)
	require.NoError(t, err)
	require.Less(t, len(history), 100)
	require.Equal(t, 0, history[len(history)-1].Mistakes)
}

func TestTrainerRejectsBadOptions(t *testing.T) {
	model := hmm.NewSparseModel(2, 0)
	_, err := New(model, Options{Iterations: 0, LearningRate: 1})
	require.Error(t, err)
	_, err = New(model, Options{Iterations: 1, LearningRate: 0})
	require.Error(t, err)

	trainer, err := New(model, Options{Iterations: 1, LearningRate: 1})
	require.NoError(t, err)
	_, err = trainer.Train(nil)
	require.Error(t, err)
}
