package types

import (
	"errors"
	"gopkg.in/yaml.v3"
	"io/ioutil"
)

const (
	// feature extraction modes
	FeatureModeTemplates = "templates"
	FeatureModeHashed    = "hashed"
)

// TrainingConfig describes one training job. It is read from a YAML file
// referenced by the driver or carried inside a training task message.
type TrainingConfig struct {
	TrainFile         string  `yaml:"train_file" json:"train_file"`
	DevFile           string  `yaml:"dev_file" json:"dev_file"`
	ObservationColumn int     `yaml:"observation_column" json:"observation_column"`
	StateColumn       int     `yaml:"state_column" json:"state_column"`
	DefaultState      string  `yaml:"default_state" json:"default_state"`
	Iterations        int     `yaml:"iterations" json:"iterations"`
	LearningRate      float64 `yaml:"learning_rate" json:"learning_rate"`
	Averaged          bool    `yaml:"averaged" json:"averaged"`
	FeatureMode       string  `yaml:"feature_mode" json:"feature_mode"`
	HashedBuckets     int     `yaml:"hashed_buckets" json:"hashed_buckets"`
	ModelPath         string  `yaml:"model_path" json:"model_path"`
	// ModelS3Key, when set, uploads the saved model file to storage after
	// training.
	ModelS3Key string `yaml:"model_s3_key" json:"model_s3_key"`
}

func LoadTrainingConfig(filePath string) (*TrainingConfig, error) {
	buf, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := TrainingConfig{
		StateColumn:  1,
		Iterations:   10,
		LearningRate: 1.0,
		Averaged:     true,
		FeatureMode:  FeatureModeTemplates,
	}
	if err = yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *TrainingConfig) Validate() error {
	if cfg.TrainFile == "" {
		return errors.New("training config: train_file is required")
	}
	if cfg.Iterations <= 0 {
		return errors.New("training config: iterations must be positive")
	}
	if cfg.LearningRate <= 0 {
		return errors.New("training config: learning_rate must be positive")
	}
	switch cfg.FeatureMode {
	case FeatureModeTemplates:
	case FeatureModeHashed:
		if cfg.HashedBuckets <= 0 {
			return errors.New("training config: hashed feature mode requires hashed_buckets")
		}
	default:
		return errors.New("training config: unknown feature_mode " + cfg.FeatureMode)
	}
	return nil
}
