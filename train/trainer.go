// Package train drives online structured-perceptron training: decode each
// example, update on mistakes, accumulate per-iteration snapshots and
// average them at the end.
package train

import (
	"fmt"

	"github.com/rs/zerolog"
	"text2phenotype.com/seqlearn/dataset"
	"text2phenotype.com/seqlearn/hmm"
	"text2phenotype.com/seqlearn/logger"
)

// StopCondition is consulted before each iteration. Training proceeds while
// it returns true.
type StopCondition func(iteration, iterations, mistakes int) bool

func defaultStopCondition(iteration, iterations, mistakes int) bool {
	return iteration <= iterations
}

type Options struct {
	Iterations   int
	LearningRate float64
	// Averaged selects averaged-perceptron inference weights: the final
	// model is the per-iteration mean instead of the last snapshot.
	Averaged bool
	Continue StopCondition
}

// IterationStats reports one pass over the training data.
type IterationStats struct {
	Iteration     int
	Mistakes      int
	TokenErrors   int
	Tokens        int
	TokenAccuracy float64
}

type Trainer struct {
	model     hmm.Model
	opts      Options
	trnLogger zerolog.Logger
}

func New(model hmm.Model, opts Options) (*Trainer, error) {
	if opts.Iterations <= 0 {
		return nil, fmt.Errorf("train: iterations must be positive, got %d", opts.Iterations)
	}
	if opts.LearningRate <= 0 {
		return nil, fmt.Errorf("train: learning rate must be positive, got %v", opts.LearningRate)
	}
	if opts.Continue == nil {
		opts.Continue = defaultStopCondition
	}
	return &Trainer{
		model:     model,
		opts:      opts,
		trnLogger: logger.NewLogger("Trainer"),
	}, nil
}

// Train runs the online loop over examples. The model is mutated in place
// and ready for inference when Train returns.
func (trainer *Trainer) Train(examples []dataset.Example) ([]IterationStats, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("train: no examples")
	}

	var history []IterationStats
	mistakes := 0
	iterations := 0
	for iteration := 1; trainer.opts.Continue(iteration, trainer.opts.Iterations, mistakes); iteration++ {
		stats, err := trainer.runIteration(iteration, examples)
		if err != nil {
			return history, err
		}
		trainer.model.Accumulate(iteration)
		history = append(history, stats)
		mistakes = stats.Mistakes
		iterations = iteration

		trainer.trnLogger.Info().
			Int("iteration", iteration).
			Int("mistakes", stats.Mistakes).
			Float64("token_accuracy", stats.TokenAccuracy).
			Msg("Finished training iteration")
	}

	if trainer.opts.Averaged && iterations > 0 {
		trainer.model.Average(iterations)
		trainer.trnLogger.Info().Int("iterations", iterations).Msg("Averaged model parameters")
	}
	return history, nil
}

func (trainer *Trainer) runIteration(iteration int, examples []dataset.Example) (IterationStats, error) {
	stats := IterationStats{Iteration: iteration}

	for i, example := range examples {
		predicted, err := hmm.Decode(example.Input, trainer.model)
		if err != nil {
			return stats, fmt.Errorf("train: decoding example %d: %w", i, err)
		}

		stats.Tokens += example.Input.Len()
		for t := 0; t < example.Input.Len(); t++ {
			if predicted[t] != example.Gold[t] {
				stats.TokenErrors++
			}
		}

		if predicted.Equal(example.Gold) {
			continue
		}
		stats.Mistakes++
		err = hmm.Update(trainer.model, example.Input, example.Gold, predicted, trainer.opts.LearningRate)
		if err != nil {
			return stats, fmt.Errorf("train: updating on example %d: %w", i, err)
		}
	}

	if stats.Tokens > 0 {
		stats.TokenAccuracy = 1 - float64(stats.TokenErrors)/float64(stats.Tokens)
	}
	return stats, nil
}
