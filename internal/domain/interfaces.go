package domain

import "context"

// Metadata is the open key-value map attached to a stored document.
type Metadata map[string]any

// SearchResult is a stored document ranked against a query.
type SearchResult struct {
	Rank            int      `json:"rank"`
	Text            string   `json:"text"`
	SimilarityScore float64  `json:"similarity_score"`
	Metadata        Metadata `json:"metadata"`
}

// AddResult reports the outcome of adding one document.
type AddResult struct {
	DocumentID     int `json:"document_id"`
	TotalDocuments int `json:"total_documents"`
}

// IndexStats describes the current size of the document store.
type IndexStats struct {
	TotalDocuments int `json:"total_documents"`
	IndexSize      int `json:"index_size"`
	Dimension      int `json:"dimension"`
}

// Sentiment is the classification of a text plus its top keywords.
type Sentiment struct {
	Sentiment  string   `json:"sentiment"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
}

// Summary is a generated summary with the character counts of input and output.
type Summary struct {
	Summary        string `json:"summary"`
	OriginalLength int    `json:"original_length"`
	SummaryLength  int    `json:"summary_length"`
}

// Chunk is a piece of a source file added to the store as its own document.
type Chunk struct {
	Source string
	Index  int
	Text   string
}

// Embedder converts free text into a fixed-length vector.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChatMessage is one turn of a chat-completion conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a single chat-completion call.
type ChatRequest struct {
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}

// ChatCompleter sends a conversation to a hosted model and returns the reply text.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Summarizer produces a summary of text bounded by maxLength words.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, text string, maxLength int) (string, error)
}

// Chunker splits the content of a source file into chunks.
type Chunker interface {
	Chunk(source, content string) ([]Chunk, error)
}
