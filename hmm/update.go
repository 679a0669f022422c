package hmm

import (
	"text2phenotype.com/seqlearn/types"
)

// Update applies one structured-perceptron step: every parameter on the
// symmetric difference of the correct and predicted label paths is moved by
// +rate (toward correct) or -rate (away from predicted). Identical paths
// leave the model untouched.
//
// The model is mutated in place; the caller must hold exclusive access for
// the duration of the call.
func Update(model Model, input types.Sequence, correct, predicted types.Labels, rate float64) error {
	length := input.Len()
	if length == 0 {
		return ErrEmptySequence
	}
	if correct.Len() != length {
		return errLengthMismatch("correct output", correct.Len(), length)
	}
	if predicted.Len() != length {
		return errLengthMismatch("predicted output", predicted.Len(), length)
	}

	labelCorrect := correct[0]
	labelPredicted := predicted[0]
	if labelCorrect != labelPredicted {
		model.AddInitial(labelCorrect, rate)
		model.AddInitial(labelPredicted, -rate)
		model.AddEmission(input, 0, labelCorrect, rate)
		model.AddEmission(input, 0, labelPredicted, -rate)
	}

	prevCorrect := labelCorrect
	prevPredicted := labelPredicted
	for token := 1; token < length; token++ {
		labelCorrect = correct[token]
		labelPredicted = predicted[token]

		if labelCorrect != labelPredicted {
			model.AddEmission(input, token, labelCorrect, rate)
			model.AddEmission(input, token, labelPredicted, -rate)
			model.AddTransition(prevCorrect, labelCorrect, rate)
			model.AddTransition(prevPredicted, labelPredicted, -rate)
		} else if prevCorrect != prevPredicted {
			// The paths just re-converged: the states agree but they were
			// reached over different transitions.
			model.AddTransition(prevCorrect, labelCorrect, rate)
			model.AddTransition(prevPredicted, labelPredicted, -rate)
		}

		prevCorrect = labelCorrect
		prevPredicted = labelPredicted
	}
	return nil
}
