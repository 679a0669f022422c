package hmm

import (
	"encoding/json"
	"errors"
	"io/ioutil"

	"text2phenotype.com/seqlearn/types"
)

// ModelFile is the on-disk JSON layout of a trained model together with its
// state and feature encodings. Hashed models carry no feature names, only
// the bucket count.
type ModelFile struct {
	States        []string          `json:"states"`
	DefaultState  string            `json:"default_state"`
	Features      []string          `json:"features,omitempty"`
	HashedBuckets int               `json:"hashed_buckets,omitempty"`
	Initial       []float64         `json:"initial_weights"`
	Transition    [][]float64       `json:"transition_weights"`
	Emission      []map[int]float64 `json:"emission_weights"`
}

// Save writes model plus its encodings to path. featureEnc may be nil for
// hashed models; hashedBuckets is 0 otherwise.
func Save(path string, model *SparseModel, stateEnc, featureEnc *types.Encoder, hashedBuckets int) error {
	file := ModelFile{
		States:        stateEnc.Names(),
		DefaultState:  stateEnc.Name(model.DefaultState()),
		HashedBuckets: hashedBuckets,
		Initial:       model.initial,
		Transition:    model.transition,
		Emission:      model.emission,
	}
	if featureEnc != nil {
		file.Features = featureEnc.Names()
	}

	buf, err := json.Marshal(&file)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, buf, 0644)
}

// LoadedModel is a model read back from disk, ready for decoding. Features
// is nil for hashed models, which carry only HashedBuckets.
type LoadedModel struct {
	Model         *SparseModel
	States        *types.Encoder
	Features      *types.Encoder
	HashedBuckets int
}

// Load reads a model file and rebuilds the model and the locked encoders.
func Load(path string) (*LoadedModel, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeModel(buf)
}

func decodeModel(buf []byte) (*LoadedModel, error) {
	var file ModelFile
	if err := json.Unmarshal(buf, &file); err != nil {
		return nil, err
	}

	numStates := len(file.States)
	if numStates == 0 {
		return nil, errors.New("hmm: model file has no states")
	}
	if len(file.Initial) != numStates ||
		len(file.Transition) != numStates ||
		len(file.Emission) != numStates {
		return nil, errors.New("hmm: model file parameter tables do not match state count")
	}

	stateEnc := types.NewEncoderFromNames(file.States)
	defaultState, ok := stateEnc.Lookup(file.DefaultState)
	if !ok {
		return nil, errors.New("hmm: model file default state is not in the state list")
	}

	model := NewSparseModel(numStates, defaultState)
	copy(model.initial, file.Initial)
	for from := range file.Transition {
		if len(file.Transition[from]) != numStates {
			return nil, errors.New("hmm: model file transition row has wrong length")
		}
		copy(model.transition[from], file.Transition[from])
	}
	for state := range file.Emission {
		for feature, weight := range file.Emission[state] {
			model.emission[state][feature] = weight
		}
	}

	loaded := LoadedModel{
		Model:         model,
		States:        stateEnc,
		HashedBuckets: file.HashedBuckets,
	}
	if file.HashedBuckets == 0 {
		loaded.Features = types.NewEncoderFromNames(file.Features)
	}
	return &loaded, nil
}
