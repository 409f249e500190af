package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-logr/logr"

	"textintel/internal/config"
	"textintel/internal/docstore"
	"textintel/internal/domain"
)

// Input limits shared by every front end.
const (
	MinSummarizeChars = 10
	MinSummaryLength  = 50
	MaxSummaryLength  = 500
	DefaultTopK       = 5
	MinTopK           = 1
	MaxTopK           = 10
)

// ErrInvalidInput wraps every validation failure. Nothing is changed when it
// is returned.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Analyzer classifies the sentiment of text. It does not fail.
type Analyzer interface {
	Analyze(ctx context.Context, text string) domain.Sentiment
}

// Health is the liveness report.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Message string `json:"message"`
}

// IngestReport summarizes an ingest run.
type IngestReport struct {
	Files          []string `json:"files"`
	Chunks         int      `json:"chunks"`
	TotalDocuments int      `json:"total_documents"`
}

// TextService is the facade the HTTP, MCP and terminal front ends share.
// Components the front end does not need may be nil; calling an operation
// whose component is missing returns an error.
type TextService struct {
	info       config.AppInfoConfig
	analyzer   Analyzer
	summarizer domain.Summarizer
	store      *docstore.Store
	chunker    domain.Chunker
	log        logr.Logger
}

func NewTextService(info config.AppInfoConfig, analyzer Analyzer, sum domain.Summarizer, store *docstore.Store, chunker domain.Chunker, log logr.Logger) *TextService {
	return &TextService{info: info, analyzer: analyzer, summarizer: sum, store: store, chunker: chunker, log: log}
}

// Health reports that the service is up.
func (s *TextService) Health() Health {
	return Health{Status: "healthy", Version: s.info.Version, Message: s.info.Name + " is running"}
}

// Info returns the application identity.
func (s *TextService) Info() config.AppInfoConfig { return s.info }

// Analyze returns the sentiment and top keywords of text.
func (s *TextService) Analyze(ctx context.Context, text string) (domain.Sentiment, error) {
	if text == "" {
		return domain.Sentiment{}, invalid("text must not be empty")
	}
	if s.analyzer == nil {
		return domain.Sentiment{}, errors.New("sentiment analysis is not configured")
	}
	return s.analyzer.Analyze(ctx, text), nil
}

// Summarize condenses text to at most maxLength words. Lengths in the result
// count characters.
func (s *TextService) Summarize(ctx context.Context, text string, maxLength int) (domain.Summary, error) {
	if n := utf8.RuneCountInString(text); n < MinSummarizeChars {
		return domain.Summary{}, invalid("text must be at least %d characters, got %d", MinSummarizeChars, n)
	}
	if maxLength < MinSummaryLength || maxLength > MaxSummaryLength {
		return domain.Summary{}, invalid("max_length must be between %d and %d, got %d", MinSummaryLength, MaxSummaryLength, maxLength)
	}
	if s.summarizer == nil {
		return domain.Summary{}, errors.New("summarization is not configured")
	}
	out, err := s.summarizer.Summarize(ctx, text, maxLength)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summary{
		Summary:        out,
		OriginalLength: utf8.RuneCountInString(text),
		SummaryLength:  utf8.RuneCountInString(out),
	}, nil
}

// SemanticSearch ranks stored documents against query.
func (s *TextService) SemanticSearch(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if query == "" {
		return nil, invalid("query must not be empty")
	}
	if topK < MinTopK || topK > MaxTopK {
		return nil, invalid("top_k must be between %d and %d, got %d", MinTopK, MaxTopK, topK)
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	return s.store.Search(ctx, query, topK)
}

// AddDocument stores text with metadata.
func (s *TextService) AddDocument(ctx context.Context, text string, metadata domain.Metadata) (domain.AddResult, error) {
	if text == "" {
		return domain.AddResult{}, invalid("text must not be empty")
	}
	if err := s.requireStore(); err != nil {
		return domain.AddResult{}, err
	}
	res, err := s.store.Add(ctx, text, metadata)
	if err != nil {
		return domain.AddResult{}, err
	}
	s.log.V(1).Info("document added", "id", res.DocumentID, "total", res.TotalDocuments)
	return res, nil
}

// IndexStats describes the document store.
func (s *TextService) IndexStats() (domain.IndexStats, error) {
	if err := s.requireStore(); err != nil {
		return domain.IndexStats{}, err
	}
	st := s.store.Stats()
	if st.TotalDocuments != st.IndexSize {
		return st, fmt.Errorf("%w: %d documents, index holds %d", docstore.ErrIndexOutOfSync, st.TotalDocuments, st.IndexSize)
	}
	return st, nil
}

// ClearIndex removes every stored document.
func (s *TextService) ClearIndex() error {
	if err := s.requireStore(); err != nil {
		return err
	}
	s.store.Clear()
	s.log.Info("index cleared")
	return nil
}

// IngestFiles chunks every .txt file matched by patterns and adds each chunk
// as a document with metadata {source, chunk}. A pattern that matches nothing
// is treated as a literal path.
func (s *TextService) IngestFiles(ctx context.Context, patterns []string) (IngestReport, error) {
	if err := s.requireStore(); err != nil {
		return IngestReport{}, err
	}
	if s.chunker == nil {
		return IngestReport{}, errors.New("chunker is not configured")
	}
	var files []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return IngestReport{}, invalid("bad pattern %q: %v", p, err)
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if strings.HasSuffix(strings.ToLower(m), ".txt") {
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return IngestReport{}, invalid("no .txt documents found")
	}

	report := IngestReport{Files: files}
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return report, err
		}
		chunks, err := s.chunker.Chunk(f, string(data))
		if err != nil {
			return report, fmt.Errorf("chunk %s: %w", f, err)
		}
		for _, ch := range chunks {
			res, err := s.store.Add(ctx, ch.Text, domain.Metadata{"source": ch.Source, "chunk": ch.Index})
			if err != nil {
				return report, fmt.Errorf("add %s chunk %d: %w", f, ch.Index, err)
			}
			report.Chunks++
			report.TotalDocuments = res.TotalDocuments
		}
		s.log.Info("ingested file", "path", f, "chunks", len(chunks))
	}
	return report, nil
}

func (s *TextService) requireStore() error {
	if s.store == nil {
		return errors.New("document store is not configured")
	}
	return nil
}

