package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"github.com/spigell/candidate-sourcer/internal/ai"
	"github.com/spigell/candidate-sourcer/internal/ai/anthropic"
	"github.com/spigell/candidate-sourcer/internal/ai/gemini"
	"github.com/spigell/candidate-sourcer/internal/logger"
	"github.com/spigell/candidate-sourcer/internal/people"
	"github.com/spigell/candidate-sourcer/internal/people/exa"
	"github.com/spigell/candidate-sourcer/internal/secrets"
	"github.com/spigell/candidate-sourcer/internal/sourcing"
	"go.uber.org/zap"
)

const (
	providerGemini    = "gemini"
	providerAnthropic = "anthropic"
	providerExa       = "exa"
)

// setup builds the logger and reads the config every subcommand needs.
func setup() (*zap.Logger, *Config) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		panic(err)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("failed to read config", zap.Error(err))
	}

	return log, config
}

func newGenerator(ctx context.Context, cfg *LLMConfig, log *zap.Logger) (ai.StructuredGenerator, error) {
	switch cfg.Provider {
	case "", providerGemini:
		key, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, err
		}
		return gemini.NewGenerator(ctx, key, gemini.Options{
			Model:        cfg.Model,
			MaxRetries:   cfg.MaxRetries,
			MaxLogLength: cfg.MaxLogLength,
		}, log)
	case providerAnthropic:
		key, err := secrets.Load(secrets.Source{
			Name:  "anthropic api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
			Env:   "ANTHROPIC_API_KEY",
		})
		if err != nil {
			return nil, err
		}
		return anthropic.NewGenerator(key, anthropic.Options{
			Model:        cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			MaxRetries:   cfg.MaxRetries,
			MaxLogLength: cfg.MaxLogLength,
		}, log)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func newProvider(cfg *PeopleSearchConfig, log *zap.Logger) (people.Provider, error) {
	switch cfg.Provider {
	case "", providerExa:
		key, err := secrets.Load(secrets.Source{
			Name:  "exa api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
			Env:   "EXA_API_KEY",
		})
		if err != nil {
			return nil, err
		}
		return exa.New(key, exa.Config{
			APIURL:            cfg.BaseURL,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			MaxRetries:        cfg.MaxRetries,
		}, log)
	default:
		return nil, fmt.Errorf("unknown people search provider %q", cfg.Provider)
	}
}

func workflowOptions(config *Config, defaultMax int) sourcing.Options {
	search := sourcing.DefaultSearchConfig()
	search.ResultsPerQuery = config.PeopleSearch.ResultsPerQuery
	search.RetryVariants = config.Workflow.RetryVariants
	search.MinScore = config.Workflow.MinScore
	search.DisabledFilters = config.Workflow.DisabledFilters

	return sourcing.Options{
		Search: search,
		Summary: sourcing.SummaryConfig{
			Concurrency:  config.Workflow.SummaryConcurrency,
			ContentRunes: config.Workflow.ContentPreviewRunes,
		},
		DefaultMaxCandidates: defaultMax,
	}
}

// newWorkflow wires the configured generator and provider into a workflow.
func newWorkflow(ctx context.Context, config *Config, defaultMax int, log *zap.Logger) (*sourcing.Workflow, error) {
	generator, err := newGenerator(ctx, config.LLM, log)
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}

	provider, err := newProvider(config.PeopleSearch, log)
	if err != nil {
		return nil, fmt.Errorf("creating people search client: %w", err)
	}

	log.Info("workflow ready",
		zap.String(logger.FieldProvider, config.LLM.Provider),
		zap.String(logger.FieldSearchProvider, provider.Name()),
	)

	return sourcing.New(generator, provider, workflowOptions(config, defaultMax), log), nil
}
