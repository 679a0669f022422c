// Package eval scores predicted label sequences against gold ones: token
// accuracy plus chunk-level precision/recall/F1 for BIO-style tag sets.
package eval

import (
	"fmt"
	"sort"
	"strings"

	"text2phenotype.com/seqlearn/types"
)

// OverallLabel keys the aggregate row of a report.
const OverallLabel = "overall"

type Counts struct {
	Gold      int `json:"gold"`
	Predicted int `json:"predicted"`
	Correct   int `json:"correct"`
}

func (c Counts) Precision() float64 {
	if c.Predicted == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Predicted)
}

func (c Counts) Recall() float64 {
	if c.Gold == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Gold)
}

func (c Counts) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

type Report struct {
	TokenAccuracy float64           `json:"token_accuracy"`
	ByLabel       map[string]Counts `json:"by_label"`
}

// Overall returns the aggregate counts row.
func (rep *Report) Overall() Counts {
	return rep.ByLabel[OverallLabel]
}

// Labels returns the per-type labels of the report in sorted order, without
// the overall row.
func (rep *Report) Labels() []string {
	labels := make([]string, 0, len(rep.ByLabel))
	for label := range rep.ByLabel {
		if label != OverallLabel {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}

// Evaluate scores prediction against gold for a set of sequences. Both
// slices must be parallel and each pair equally long.
func Evaluate(gold, predicted []types.Labels, states *types.Encoder) (*Report, error) {
	if len(gold) != len(predicted) {
		return nil, fmt.Errorf("eval: %d gold sequences vs %d predicted", len(gold), len(predicted))
	}

	byLabel := map[string]Counts{}
	tokens, correctTokens := 0, 0

	for i := range gold {
		if gold[i].Len() != predicted[i].Len() {
			return nil, fmt.Errorf("eval: sequence %d length mismatch: %d vs %d",
				i, gold[i].Len(), predicted[i].Len())
		}
		for t := 0; t < gold[i].Len(); t++ {
			tokens++
			if gold[i][t] == predicted[i][t] {
				correctTokens++
			}
		}

		goldChunks := extractChunks(gold[i], states)
		predChunks := extractChunks(predicted[i], states)
		for _, chunk := range goldChunks {
			counts := byLabel[chunk.label]
			counts.Gold++
			byLabel[chunk.label] = counts
		}
		for _, chunk := range predChunks {
			counts := byLabel[chunk.label]
			counts.Predicted++
			if containsChunk(goldChunks, chunk) {
				counts.Correct++
			}
			byLabel[chunk.label] = counts
		}
	}

	overall := Counts{}
	for _, counts := range byLabel {
		overall.Gold += counts.Gold
		overall.Predicted += counts.Predicted
		overall.Correct += counts.Correct
	}
	byLabel[OverallLabel] = overall

	report := &Report{ByLabel: byLabel}
	if tokens > 0 {
		report.TokenAccuracy = float64(correctTokens) / float64(tokens)
	}
	return report, nil
}

type chunk struct {
	label      string
	begin, end int // [begin, end)
}

// extractChunks lists the typed spans of a BIO-tagged sequence. A chunk
// starts at a B- tag or at an I- tag whose type differs from the running
// chunk; tags without a B-/I- prefix other than "O" form one-token chunks
// of their own type.
func extractChunks(labels types.Labels, states *types.Encoder) []chunk {
	var chunks []chunk
	var open *chunk

	closeChunk := func(end int) {
		if open != nil {
			open.end = end
			chunks = append(chunks, *open)
			open = nil
		}
	}

	for t, state := range labels {
		tag := states.Name(state)
		switch {
		case tag == "O":
			closeChunk(t)
		case strings.HasPrefix(tag, "B-"):
			closeChunk(t)
			open = &chunk{label: tag[2:], begin: t}
		case strings.HasPrefix(tag, "I-"):
			label := tag[2:]
			if open == nil || open.label != label {
				closeChunk(t)
				open = &chunk{label: label, begin: t}
			}
		default:
			closeChunk(t)
			open = &chunk{label: tag, begin: t}
			closeChunk(t + 1)
		}
	}
	closeChunk(len(labels))
	return chunks
}

func containsChunk(chunks []chunk, c chunk) bool {
	for _, other := range chunks {
		if other == c {
			return true
		}
	}
	return false
}
