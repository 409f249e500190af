package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"textintel/internal/domain"
)

const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"

	// FallbackConfidence is reported when the model could not be used.
	FallbackConfidence = 0.5

	temperature = 0.75
	maxTokens   = 1024
)

const systemPrompt = "You are a sentiment analysis expert. Respond only with valid JSON."

// Service classifies text through a chat model and extracts keywords locally.
type Service struct {
	chat domain.ChatCompleter
	log  logr.Logger
}

// NewService returns a Service using chat for classification.
func NewService(chat domain.ChatCompleter, log logr.Logger) *Service {
	return &Service{chat: chat, log: log}
}

// Analyze never fails on model errors: an unreachable model or an
// unparseable reply yields neutral sentiment at FallbackConfidence. Keywords
// are always computed locally.
func (s *Service) Analyze(ctx context.Context, text string) domain.Sentiment {
	result := domain.Sentiment{
		Sentiment:  Neutral,
		Confidence: FallbackConfidence,
		Keywords:   Keywords(text, DefaultKeywordCount),
	}
	if s.chat == nil {
		return result
	}
	reply, err := s.chat.Complete(ctx, domain.ChatRequest{
		Messages: []domain.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt(text)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		s.log.Error(err, "sentiment model call failed, using fallback")
		return result
	}
	label, confidence, err := parseReply(reply)
	if err != nil {
		s.log.Error(err, "sentiment reply unusable, using fallback", "reply", reply)
		return result
	}
	result.Sentiment = label
	result.Confidence = confidence
	return result
}

func prompt(text string) string {
	return `Analyze the sentiment of the following text and respond with ONLY a JSON object in this exact format:
{"sentiment": "positive" or "negative" or "neutral", "confidence": 0.0-1.0}

Text: ` + text + `

Respond with ONLY the JSON object, no other text.`
}

// parseReply extracts {sentiment, confidence} from a model reply. Markdown
// fences and surrounding prose are tolerated. Missing fields default to
// neutral and 0.5, unknown labels become neutral and confidence is clamped
// to [0, 1].
func parseReply(reply string) (string, float64, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return "", 0, errors.New("no JSON object in reply")
	}
	var raw struct {
		Sentiment  *string          `json:"sentiment"`
		Confidence *json.RawMessage `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return "", 0, fmt.Errorf("decode reply: %w", err)
	}

	label := Neutral
	if raw.Sentiment != nil {
		switch l := strings.ToLower(strings.TrimSpace(*raw.Sentiment)); l {
		case Positive, Negative, Neutral:
			label = l
		}
	}
	confidence := FallbackConfidence
	if raw.Confidence != nil {
		c, err := parseConfidence(*raw.Confidence)
		if err != nil {
			return "", 0, err
		}
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return "", 0, fmt.Errorf("confidence is not a finite number: %s", *raw.Confidence)
		}
		confidence = min(max(c, 0), 1)
	}
	return label, confidence, nil
}

func parseConfidence(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("confidence is neither number nor string: %s", raw)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse confidence: %w", err)
	}
	return f, nil
}
