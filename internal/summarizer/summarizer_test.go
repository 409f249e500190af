package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"textintel/internal/domain"
)

type stubChat struct {
	reply string
	err   error
	got   domain.ChatRequest
}

func (s *stubChat) Complete(_ context.Context, req domain.ChatRequest) (string, error) {
	s.got = req
	return s.reply, s.err
}

func TestStyleBands(t *testing.T) {
	tests := []struct {
		maxLength int
		want      string
	}{
		{50, "very concise"},
		{60, "very concise"},
		{99, "very concise"},
		{100, "concise"},
		{150, "concise"},
		{199, "concise"},
		{200, "detailed"},
		{300, "detailed"},
		{500, "detailed"},
	}
	for _, tt := range tests {
		if got := Style(tt.maxLength); got != tt.want {
			t.Errorf("Style(%d) = %q, want %q", tt.maxLength, got, tt.want)
		}
	}
}

func TestLLMSummarizerRequest(t *testing.T) {
	chat := &stubChat{reply: "  A short summary.  \n"}
	s := NewLLMSummarizer(chat)

	got, err := s.Summarize(context.Background(), "Some long text about many things.", 60)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got != "A short summary." {
		t.Errorf("summary = %q", got)
	}
	if chat.got.Temperature != 0.5 || chat.got.MaxTokens != 120 {
		t.Errorf("request = %+v, want temperature 0.5 max_tokens 120", chat.got)
	}
	user := chat.got.Messages[len(chat.got.Messages)-1].Content
	if !strings.Contains(user, "very concise") || !strings.Contains(user, "under 60 words") {
		t.Errorf("prompt = %q", user)
	}
}

func TestLLMSummarizerPropagatesError(t *testing.T) {
	s := NewLLMSummarizer(&stubChat{err: errors.New("rate limited")})
	if _, err := s.Summarize(context.Background(), "Text that cannot be summarized.", 150); err == nil {
		t.Fatal("expected error")
	}
}

func TestLLMSummarizerRejectsEmptyReply(t *testing.T) {
	s := NewLLMSummarizer(&stubChat{reply: "   "})
	if _, err := s.Summarize(context.Background(), "Text that cannot be summarized.", 150); err == nil {
		t.Fatal("expected error for empty reply")
	}
}

func TestFrequencySummarizerRespectsBudget(t *testing.T) {
	text := "Go is a language for building servers. " +
		"Servers written in Go handle many connections. " +
		"The weather was nice yesterday. " +
		"Go servers are simple to deploy and Go is fast."
	s := NewFrequencySummarizer()

	got, err := s.Summarize(context.Background(), text, 12)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if n := len(strings.Fields(got)); n == 0 || n > 12 {
		t.Fatalf("summary has %d words, want 1..12: %q", n, got)
	}
	if strings.Contains(got, "weather") {
		t.Errorf("summary kept the off-topic sentence: %q", got)
	}
}

func TestFrequencySummarizerTruncatesLongSentence(t *testing.T) {
	text := "one two three four five six seven eight nine ten"
	got, err := NewFrequencySummarizer().Summarize(context.Background(), text, 4)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got != "one two three four" {
		t.Errorf("summary = %q", got)
	}
}

func TestFrequencySummarizerEmpty(t *testing.T) {
	got, err := NewFrequencySummarizer().Summarize(context.Background(), "   ", 50)
	if err != nil || got != "" {
		t.Fatalf("Summarize = %q, %v", got, err)
	}
}
