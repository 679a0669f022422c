// Package pipeline turns raw text into a tagged JSON response: tokenize,
// extract features, decode with the loaded model, name the states.
package pipeline

import (
	"encoding/json"

	"text2phenotype.com/seqlearn/dataset"
	"text2phenotype.com/seqlearn/hmm"
	"text2phenotype.com/seqlearn/logger"
	"text2phenotype.com/seqlearn/types"
)

type Request struct {
	Text string `json:"text"`
	Tid  string `json:"tid"`
}

// Result is the marshaled Response for one request.
type Result string

type Pipeline func(request Request) <-chan Result

type TaggedToken struct {
	Word  string `json:"word"`
	Begin int    `json:"begin"`
	End   int    `json:"end"`
	Tag   string `json:"tag"`
}

type Response struct {
	Tid    string        `json:"tid"`
	Tokens []TaggedToken `json:"tokens"`
	Error  string        `json:"error,omitempty"`
}

// NewTagging builds the inference pipeline over a trained model and its
// encodings. The model is only read, so one pipeline may serve concurrent
// requests.
func NewTagging(model hmm.Model, states *types.Encoder, extractor dataset.Extractor) Pipeline {
	pplnLogger := logger.NewLogger("Tagging pipeline")

	return func(request Request) <-chan Result {
		out := make(chan Result, 1)
		go func() {
			defer close(out)

			response := Response{Tid: request.Tid}
			for _, sentence := range tokenize(request.Text) {
				words := make([]string, len(sentence))
				for i, tok := range sentence {
					words[i] = tok.Word
				}

				input := extractor.Extract(words)
				output, err := hmm.Decode(input, model)
				if err != nil {
					pplnLogger.Err(err).Str("tid", request.Tid).Msg("Failed to decode sentence")
					response.Error = err.Error()
					break
				}

				for i, tok := range sentence {
					response.Tokens = append(response.Tokens, TaggedToken{
						Word:  tok.Word,
						Begin: tok.Begin,
						End:   tok.End,
						Tag:   states.Name(output[i]),
					})
				}
			}

			buf, err := json.Marshal(&response)
			if err != nil {
				pplnLogger.Err(err).Str("tid", request.Tid).Msg("Failed to marshal response")
				out <- Result(`{"error":"failed to marshal response"}`)
				return
			}
			out <- Result(buf)
		}()
		return out
	}
}
