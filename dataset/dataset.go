// Package dataset reads column-formatted (CoNLL-style) corpora and turns
// them into feature-encoded training examples.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"text2phenotype.com/seqlearn/types"
)

// Example pairs one encoded input sequence with its gold label assignment.
// Words keeps the surface forms for reporting.
type Example struct {
	Words []string
	Input types.Sequence
	Gold  types.Labels
}

// Load reads a column file: one token per line, whitespace-separated
// columns, blank line between sentences. obsColumn selects the word column
// and stateColumn the gold tag column. Tags are encoded through states,
// which must be unlocked when new tags may appear.
func Load(path string, obsColumn, stateColumn int, states *types.Encoder, extractor Extractor) ([]Example, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	examples, err := Read(file, obsColumn, stateColumn, states, extractor)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return examples, nil
}

// Read is Load over an arbitrary reader.
func Read(r io.Reader, obsColumn, stateColumn int, states *types.Encoder, extractor Extractor) ([]Example, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var examples []Example
	var words []string
	var tags []string
	line := 0

	flush := func() error {
		if len(words) == 0 {
			return nil
		}
		example, err := buildExample(words, tags, states, extractor)
		if err != nil {
			return err
		}
		examples = append(examples, example)
		words, tags = nil, nil
		return nil
	}

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		columns := strings.Fields(text)
		if obsColumn >= len(columns) || stateColumn >= len(columns) {
			return nil, fmt.Errorf("line %d has %d columns, need columns %d and %d",
				line, len(columns), obsColumn, stateColumn)
		}
		words = append(words, columns[obsColumn])
		tags = append(tags, columns[stateColumn])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return examples, nil
}

func buildExample(words, tags []string, states *types.Encoder, extractor Extractor) (Example, error) {
	gold := make(types.Labels, len(tags))
	for i, tag := range tags {
		state := states.Index(tag)
		if state == types.UnknownIndex {
			return Example{}, fmt.Errorf("tag %q is not in the locked state set", tag)
		}
		gold[i] = state
	}
	return Example{
		Words: words,
		Input: extractor.Extract(words),
		Gold:  gold,
	}, nil
}
