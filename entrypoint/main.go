package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"text2phenotype.com/seqlearn/api"
	"text2phenotype.com/seqlearn/dataset"
	"text2phenotype.com/seqlearn/eval"
	"text2phenotype.com/seqlearn/hmm"
	"text2phenotype.com/seqlearn/logger"
	"text2phenotype.com/seqlearn/pipeline"
	"text2phenotype.com/seqlearn/s3client"
	"text2phenotype.com/seqlearn/train"
	"text2phenotype.com/seqlearn/types"
	"text2phenotype.com/seqlearn/worker"
)

type Config struct {
	ModelPath     string `envconfig:"SEQL_MODEL_PATH" required:"true"`
	RestAPIActive bool   `envconfig:"SEQL_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"SEQL_REST_API_PORT" default:"10000"`
}

const pipelineStartMaxRetries = 5

func main() {
	logger.SetupLogging()
	mainLogger := logger.NewLogger("Main")
	fatalErrLogger := mainLogger.Fatal().Caller()
	trainConfigPath := flag.String("train", "", "path to a training config, train a model and exit")
	flag.Parse()

	// train a model
	if *trainConfigPath != "" {
		if err := runTraining(*trainConfigPath, &mainLogger); err != nil {
			fatalErrLogger.Err(err).Msg("Training failed")
			os.Exit(1)
		}
		mainLogger.Info().Msg("Training finished. Exit...")
		return
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}

	// Load Pipeline
	pipelineChannel := make(chan pipeline.Pipeline)
	go func() {
		for retry := 0; retry < pipelineStartMaxRetries; retry++ {
			ppln, err := loadPipeline(config.ModelPath)
			if err != nil {
				mainLogger.Err(err).Msg("Failed to load model. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			mainLogger.Info().Msg("Pipeline loaded")
			pipelineChannel <- ppln
			return
		}
		fatalErrLogger.Msg("Could not load model after 5 retries, exiting")
		os.Exit(1)
	}()

	// block until pipeline loads
	ppln := <-pipelineChannel

	if config.RestAPIActive {
		go func() {
			mainLogger.Info().Msg("Starting API service")
			apiRequest := &api.Request{
				Pipeline: ppln,
			}
			http.HandleFunc("/", apiRequest.ProcessData)
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			mainLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, nil)
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		}()
	}

	mainLogger.Info().Msg("Start tagging worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			mainLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		err = rmqWorker.StartWorker()
		if err != nil {
			mainLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}

func loadPipeline(modelPath string) (pipeline.Pipeline, error) {
	loaded, err := hmm.Load(modelPath)
	if err != nil {
		return nil, err
	}
	var extractor dataset.Extractor
	if loaded.HashedBuckets > 0 {
		extractor = dataset.NewHashedExtractor(loaded.HashedBuckets)
	} else {
		extractor = dataset.NewTemplateExtractor(loaded.Features)
	}
	return pipeline.NewTagging(loaded.Model, loaded.States, extractor), nil
}

func runTraining(configPath string, mainLogger *zerolog.Logger) error {
	cfg, err := types.LoadTrainingConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.ModelPath == "" {
		return errors.New("training config: model_path is required")
	}

	states := types.NewEncoder()
	if cfg.DefaultState != "" {
		states.Index(cfg.DefaultState)
	}

	var featureEnc *types.Encoder
	var extractor dataset.Extractor
	buckets := 0
	if cfg.FeatureMode == types.FeatureModeHashed {
		buckets = cfg.HashedBuckets
		extractor = dataset.NewHashedExtractor(buckets)
	} else {
		featureEnc = types.NewEncoder()
		extractor = dataset.NewTemplateExtractor(featureEnc)
	}

	examples, err := dataset.Load(cfg.TrainFile, cfg.ObservationColumn, cfg.StateColumn, states, extractor)
	if err != nil {
		return err
	}
	mainLogger.Info().Msgf("Loaded %d training sentences, %d states", len(examples), states.Len())
	states.Lock()
	if featureEnc != nil {
		featureEnc.Lock()
	}

	defaultState := 0
	if cfg.DefaultState != "" {
		idx, ok := states.Lookup(cfg.DefaultState)
		if !ok {
			return errors.New("training config: default_state not present in training data")
		}
		defaultState = idx
	}

	model := hmm.NewSparseModel(states.Len(), defaultState)
	trainer, err := train.New(model, train.Options{
		Iterations:   cfg.Iterations,
		LearningRate: cfg.LearningRate,
		Averaged:     cfg.Averaged,
	})
	if err != nil {
		return err
	}
	stats, err := trainer.Train(examples)
	if err != nil {
		return err
	}
	if len(stats) > 0 {
		last := stats[len(stats)-1]
		mainLogger.Info().Msgf(
			"Finished %d iterations, last iteration had %d sentence mistakes",
			len(stats), last.Mistakes,
		)
	}

	if cfg.DevFile != "" {
		if err = evaluateOnDevSet(cfg, states, extractor, model, mainLogger); err != nil {
			return err
		}
	}

	if err = hmm.Save(cfg.ModelPath, model, states, featureEnc, buckets); err != nil {
		return err
	}
	mainLogger.Info().Msgf("Saved model to %s", cfg.ModelPath)

	if cfg.ModelS3Key != "" {
		if err = uploadModel(cfg.ModelPath, cfg.ModelS3Key); err != nil {
			return err
		}
		mainLogger.Info().Msgf("Uploaded model to %s", cfg.ModelS3Key)
	}
	return nil
}

func uploadModel(modelPath, key string) error {
	buf, err := os.ReadFile(modelPath)
	if err != nil {
		return err
	}
	s3Client, err := s3client.New()
	if err != nil {
		return err
	}
	defer s3Client.Close()
	_, err = s3Client.Upload(string(buf), key)
	return err
}

func evaluateOnDevSet(
	cfg *types.TrainingConfig,
	states *types.Encoder,
	extractor dataset.Extractor,
	model hmm.Model,
	mainLogger *zerolog.Logger,
) error {
	devExamples, err := dataset.Load(cfg.DevFile, cfg.ObservationColumn, cfg.StateColumn, states, extractor)
	if err != nil {
		return err
	}
	gold := make([]types.Labels, len(devExamples))
	predicted := make([]types.Labels, len(devExamples))
	for i, example := range devExamples {
		gold[i] = example.Gold
		predicted[i], err = hmm.Decode(example.Input, model)
		if err != nil {
			return err
		}
	}
	report, err := eval.Evaluate(gold, predicted, states)
	if err != nil {
		return err
	}
	overall := report.Overall()
	mainLogger.Info().Msgf(
		"Dev set: token accuracy %.4f, precision %.4f, recall %.4f, F1 %.4f",
		report.TokenAccuracy, overall.Precision(), overall.Recall(), overall.F1(),
	)
	for _, label := range report.Labels() {
		counts := report.ByLabel[label]
		mainLogger.Info().Msgf(
			"Dev set %s: precision %.4f, recall %.4f, F1 %.4f",
			label, counts.Precision(), counts.Recall(), counts.F1(),
		)
	}
	return nil
}
