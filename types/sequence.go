package types

// Token is a single position of an input sequence: the surface form plus the
// indices of the features active at that position. Feature indices are
// produced by an Encoder and are unordered.
type Token struct {
	Word     string
	Features []int
}

// Sequence is an ordered token sequence used as decoder and learner input.
type Sequence []Token

func (seq Sequence) Len() int {
	return len(seq)
}

// Features returns the active feature indices at position i.
func (seq Sequence) Features(i int) []int {
	return seq[i].Features
}

// Labels is a per-token state assignment. A Labels value is always paired
// with a Sequence of the same length.
type Labels []int

func (labels Labels) Len() int {
	return len(labels)
}

func (labels Labels) Clone() Labels {
	cloned := make(Labels, len(labels))
	copy(cloned, labels)
	return cloned
}

// Equal reports whether both assignments pick the same state at every
// position.
func (labels Labels) Equal(other Labels) bool {
	if len(labels) != len(other) {
		return false
	}
	for i, state := range labels {
		if other[i] != state {
			return false
		}
	}
	return true
}
