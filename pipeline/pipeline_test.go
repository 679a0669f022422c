package pipeline

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"text2phenotype.com/seqlearn/dataset"
	"text2phenotype.com/seqlearn/hmm"
	"text2phenotype.com/seqlearn/train"
	"text2phenotype.com/seqlearn/types"
)

const pipelineCorpus = `ana B-PER
visited O
paris B-LOC

paris B-LOC
welcomed O
ana B-PER
`

func trainedPipeline(t *testing.T) Pipeline {
	t.Helper()
	states := types.NewEncoder()
	features := types.NewEncoder()
	extractor := dataset.NewTemplateExtractor(features)
	examples, err := dataset.Read(strings.NewReader(pipelineCorpus), 0, 1, states, extractor)
	require.NoError(t, err)

	model := hmm.NewSparseModel(states.Len(), states.Index("O"))
	trainer, err := train.New(model, train.Options{Iterations: 5, LearningRate: 1})
	require.NoError(t, err)
	_, err = trainer.Train(examples)
	require.NoError(t, err)

	features.Lock()
	states.Lock()
	return NewTagging(model, states, extractor)
}

func TestTaggingPipeline(t *testing.T) {
	ppln := trainedPipeline(t)

	result, ok := <-ppln(Request{Text: "ana visited paris", Tid: "req-1"})
	require.True(t, ok)

	var response Response
	require.NoError(t, json.Unmarshal([]byte(result), &response))
	require.Empty(t, response.Error)

	want := Response{
		Tid: "req-1",
		Tokens: []TaggedToken{
			{Word: "ana", Begin: 0, End: 3, Tag: "B-PER"},
			{Word: "visited", Begin: 4, End: 11, Tag: "O"},
			{Word: "paris", Begin: 12, End: 17, Tag: "B-LOC"},
		},
	}
	if diff := cmp.Diff(want, response); diff != "" {
		t.Errorf("unexpected response (-want +got):\n%s", diff)
	}
}

func TestTaggingPipelineEmptyText(t *testing.T) {
	ppln := trainedPipeline(t)

	result, ok := <-ppln(Request{Text: "", Tid: "req-2"})
	require.True(t, ok)

	var response Response
	require.NoError(t, json.Unmarshal([]byte(result), &response))
	require.Empty(t, response.Error)
	require.Empty(t, response.Tokens)
}

func TestTokenizeOffsetsAndSentences(t *testing.T) {
	sentences := tokenize("He left. She stayed,\nquietly")
	require.Len(t, sentences, 3)

	require.Equal(t, []span{
		{Word: "He", Begin: 0, End: 2},
		{Word: "left", Begin: 3, End: 7},
		{Word: ".", Begin: 7, End: 8},
	}, sentences[0])

	require.Equal(t, []span{
		{Word: "She", Begin: 9, End: 12},
		{Word: "stayed", Begin: 13, End: 19},
		{Word: ",", Begin: 19, End: 20},
	}, sentences[1])

	require.Equal(t, []span{
		{Word: "quietly", Begin: 21, End: 28},
	}, sentences[2])
}
