package types

// Encoder maps symbolic names (feature strings, state tags) to dense integer
// indices. During training it grows on demand; once all training data has
// been seen the owner locks it so inference can not grow the feature space.
type Encoder struct {
	byName map[string]int
	names  []string
	locked bool
}

// UnknownIndex is returned by Index for symbols first seen after the encoder
// was locked.
const UnknownIndex = -1

func NewEncoder() *Encoder {
	return &Encoder{byName: make(map[string]int)}
}

// NewEncoderFromNames rebuilds a locked encoder from a saved name list.
func NewEncoderFromNames(names []string) *Encoder {
	enc := NewEncoder()
	for _, name := range names {
		enc.Index(name)
	}
	enc.Lock()
	return enc
}

// Index returns the index for name, assigning the next free index when the
// name is new and the encoder is unlocked. On a locked encoder unknown names
// yield UnknownIndex.
func (enc *Encoder) Index(name string) int {
	if idx, ok := enc.byName[name]; ok {
		return idx
	}
	if enc.locked {
		return UnknownIndex
	}
	idx := len(enc.names)
	enc.byName[name] = idx
	enc.names = append(enc.names, name)
	return idx
}

func (enc *Encoder) Lookup(name string) (int, bool) {
	idx, ok := enc.byName[name]
	return idx, ok
}

// Name returns the symbol for a previously assigned index.
func (enc *Encoder) Name(index int) string {
	return enc.names[index]
}

// Names returns the symbols in index order. The returned slice is shared;
// callers must not modify it.
func (enc *Encoder) Names() []string {
	return enc.names
}

func (enc *Encoder) Len() int {
	return len(enc.names)
}

func (enc *Encoder) Lock() {
	enc.locked = true
}

func (enc *Encoder) IsLocked() bool {
	return enc.locked
}
