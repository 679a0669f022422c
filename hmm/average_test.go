package hmm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"text2phenotype.com/seqlearn/types"
)

func TestSingleIterationAverageIsIdentity(t *testing.T) {
	dense := pseudoModel(3, 4, 0, 7)
	want := pseudoModel(3, 4, 0, 7)

	dense.Accumulate(1)
	dense.Average(1)
	require.Equal(t, want.initial, dense.initial)
	require.Equal(t, want.transition, dense.transition)
	require.Equal(t, want.emission, dense.emission)
}

func TestAverageOverTwoIterations(t *testing.T) {
	model := NewSparseModel(2, 0)
	input := singleFeatureSequence(1)

	model.AddInitial(0, 4)
	model.AddEmission(input, 0, 0, 2)
	model.AddTransition(0, 1, 6)
	model.Accumulate(1)

	model.AddInitial(0, 2)
	model.AddEmission(input, 0, 0, 2)
	model.Accumulate(2)

	model.Average(2)
	require.Equal(t, 5.0, model.Initial(0))     // (4+6)/2
	require.Equal(t, 3.0, model.Emission(0, 0)) // (2+4)/2
	require.Equal(t, 6.0, model.Transition(0, 1))
	require.Equal(t, 0.0, model.Initial(1))
}

func TestAccumulateWeightsSkippedIterations(t *testing.T) {
	// No accumulation happened for iterations 1 and 2; iteration 3 must
	// count the unchanged parameters three times.
	model := NewSparseModel(2, 0)
	model.AddInitial(1, 3)
	model.Accumulate(3)
	model.Average(3)
	require.Equal(t, 3.0, model.Initial(1))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	model := NewSparseModel(3, 1)
	input := singleFeatureSequence(3)
	model.AddInitial(2, 1.5)
	model.AddTransition(0, 2, -2.25)
	model.AddEmission(input, 1, 0, 0.75)

	stateEnc := types.NewEncoderFromNames([]string{"O", "B-X", "I-X"})
	featureEnc := types.NewEncoderFromNames([]string{"w=a", "w=b", "w=c"})

	path := t.TempDir() + "/model.json"
	require.NoError(t, Save(path, model, stateEnc, featureEnc, 0))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, model.initial, loaded.Model.initial)
	require.Equal(t, model.transition, loaded.Model.transition)
	require.Equal(t, model.emission, loaded.Model.emission)
	require.Equal(t, 1, loaded.Model.DefaultState())
	require.Equal(t, stateEnc.Names(), loaded.States.Names())
	require.Equal(t, featureEnc.Names(), loaded.Features.Names())
	require.True(t, loaded.Features.IsLocked())
	require.Equal(t, 0, loaded.HashedBuckets)
}
