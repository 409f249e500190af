package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"textintel/internal/domain"
)

const (
	// DefaultMaxLength is the word limit used when a caller gives none.
	DefaultMaxLength = 150

	temperature  = 0.5
	systemPrompt = "You are an expert at creating clear, concise summaries that capture key information."
)

// Style maps a word limit to the tone requested from the model.
func Style(maxLength int) string {
	switch {
	case maxLength < 100:
		return "very concise"
	case maxLength < 200:
		return "concise"
	default:
		return "detailed"
	}
}

// LLMSummarizer asks a chat model for an abstractive summary.
type LLMSummarizer struct {
	chat domain.ChatCompleter
}

// NewLLMSummarizer returns a summarizer backed by chat.
func NewLLMSummarizer(chat domain.ChatCompleter) *LLMSummarizer {
	return &LLMSummarizer{chat: chat}
}

// Name returns the engine identifier.
func (s *LLMSummarizer) Name() string { return "llm" }

// Summarize returns the model's trimmed reply. The token allowance is twice
// the word limit.
func (s *LLMSummarizer) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	reply, err := s.chat.Complete(ctx, domain.ChatRequest{
		Messages: []domain.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt(text, maxLength)},
		},
		Temperature: temperature,
		MaxTokens:   maxLength * 2,
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	summary := strings.TrimSpace(reply)
	if summary == "" {
		return "", errors.New("summarize: model returned an empty summary")
	}
	return summary, nil
}

func prompt(text string, maxLength int) string {
	return fmt.Sprintf(`Summarize the following text in a %s manner.
Keep the summary under %d words while capturing the main points.

Text: %s

Summary:`, Style(maxLength), maxLength, text)
}
