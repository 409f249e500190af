package main

import (
	"errors"
	"fmt"

	"textintel/internal/chunker"
	"textintel/internal/config"
	"textintel/internal/docstore"
	"textintel/internal/domain"
	"textintel/internal/embedding"
	"textintel/internal/llm"
	"textintel/internal/sentiment"
	"textintel/internal/service"
	"textintel/internal/summarizer"
)

// components selects which optional parts of the service a command needs.
type components struct {
	llm     bool
	chunker bool
}

// buildService assembles the text service from globalConfig. The returned
// cleanup closes the document store.
func buildService(need components) (*service.TextService, func(), error) {
	cfg := globalConfig
	store, err := openStore(cfg)
	if err != nil {
		return nil, func() {}, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			globalLogger.Error(err, "closing document store")
		}
	}

	var (
		analyzer service.Analyzer
		sum      domain.Summarizer
		ch       domain.Chunker
	)
	if need.llm {
		chat, err := llm.NewClient(llm.Config{
			BaseURL:     cfg.LLM.BaseURL,
			APIKeyEnv:   cfg.LLM.APIKeyEnv,
			Model:       cfg.LLM.Model,
			Timeout:     config.Seconds(cfg.LLM.TimeoutSecs),
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
		})
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		analyzer = sentiment.NewService(chat, globalLogger.WithName("sentiment"))
		sum, err = newSummarizer(cfg.Summarizer, chat)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
	}
	if need.chunker {
		ch, err = newChunker(cfg.Chunker)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
	}
	svc := service.NewTextService(cfg.App, analyzer, sum, store, ch, globalLogger.WithName("service"))
	return svc, cleanup, nil
}

func openStore(cfg *config.AppConfig) (*docstore.Store, error) {
	emb, err := embedding.New(cfg.Embedder, cfg.Index.Dimension)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}
	snap, err := docstore.OpenSnapshotter(cfg.Index.Backend, cfg.Index.Dir, config.Seconds(cfg.Index.LockTimeoutSecs))
	if errors.Is(err, docstore.ErrLocked) {
		return nil, fmt.Errorf("index %s is in use by another textintel process: %w", cfg.Index.Dir, err)
	}
	if err != nil {
		return nil, fmt.Errorf("index backend: %w", err)
	}
	log := globalLogger.WithName("docstore").WithValues("dir", cfg.Index.Dir, "backend", cfg.Index.Backend)
	store, err := docstore.New(emb, cfg.Index.Dimension, docstore.WithSnapshotter(snap), docstore.WithLogger(log))
	if err != nil {
		_ = snap.Close()
		return nil, err
	}
	log.Info("document store ready", "embedder", emb.Name(), "documents", store.Len())
	return store, nil
}

func newSummarizer(cfg config.SummarizerConfig, chat domain.ChatCompleter) (domain.Summarizer, error) {
	switch cfg.Type {
	case "llm", "":
		return summarizer.NewLLMSummarizer(chat), nil
	case "frequency":
		return summarizer.NewFrequencySummarizer(), nil
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Type)
	}
}

func newChunker(cfg config.ChunkerConfig) (domain.Chunker, error) {
	switch cfg.Type {
	case "sentence", "":
		return chunker.NewSentenceChunker(cfg.SentencesPerChunk, cfg.OverlapSentences), nil
	default:
		return nil, fmt.Errorf("unknown chunker: %s", cfg.Type)
	}
}
