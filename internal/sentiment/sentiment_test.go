package sentiment

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/go-logr/logr"

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

func TestAnalyzeParsesModelReply(t *testing.T) {
	chat := &stubChat{reply: `{"sentiment": "positive", "confidence": 0.92}`}
	svc := NewService(chat, logr.Discard())

	got := svc.Analyze(context.Background(), "The food was great and the service was great")
	if got.Sentiment != Positive || got.Confidence != 0.92 {
		t.Fatalf("Analyze = %+v", got)
	}
	want := []string{"great", "food", "service"}
	if !reflect.DeepEqual(got.Keywords, want) {
		t.Errorf("keywords = %v, want %v", got.Keywords, want)
	}
	if chat.got.Temperature != 0.75 || chat.got.MaxTokens != 1024 || len(chat.got.Messages) != 2 {
		t.Errorf("request = %+v", chat.got)
	}
}

func TestAnalyzeFallsBackOnModelError(t *testing.T) {
	svc := NewService(&stubChat{err: errors.New("timeout")}, logr.Discard())
	got := svc.Analyze(context.Background(), "Terrible terrible experience overall")
	if got.Sentiment != Neutral || got.Confidence != FallbackConfidence {
		t.Fatalf("Analyze = %+v, want neutral fallback", got)
	}
	if len(got.Keywords) == 0 || got.Keywords[0] != "terrible" {
		t.Errorf("keywords = %v", got.Keywords)
	}
}

func TestAnalyzeFallsBackOnGarbage(t *testing.T) {
	svc := NewService(&stubChat{reply: "I think it is positive"}, logr.Discard())
	got := svc.Analyze(context.Background(), "ok")
	if got.Sentiment != Neutral || got.Confidence != FallbackConfidence {
		t.Fatalf("Analyze = %+v, want neutral fallback", got)
	}
	if got.Keywords == nil {
		t.Error("keywords must not be nil")
	}
}

func TestAnalyzeWithoutModel(t *testing.T) {
	got := NewService(nil, logr.Discard()).Analyze(context.Background(), "lovely weather")
	if got.Sentiment != Neutral || got.Confidence != FallbackConfidence {
		t.Fatalf("Analyze = %+v", got)
	}
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		label      string
		confidence float64
		wantErr    bool
	}{
		{"plain", `{"sentiment":"negative","confidence":0.8}`, Negative, 0.8, false},
		{"fenced", "```json\n{\"sentiment\": \"Positive\", \"confidence\": 1}\n```", Positive, 1, false},
		{"missing fields", `{}`, Neutral, 0.5, false},
		{"unknown label", `{"sentiment":"ecstatic","confidence":0.4}`, Neutral, 0.4, false},
		{"clamped high", `{"sentiment":"positive","confidence":7}`, Positive, 1, false},
		{"clamped low", `{"sentiment":"negative","confidence":-2}`, Negative, 0, false},
		{"string confidence", `{"sentiment":"neutral","confidence":"0.3"}`, Neutral, 0.3, false},
		{"no json", `positive`, "", 0, true},
		{"bad confidence", `{"confidence":"high"}`, "", 0, true},
		{"nan confidence", `{"sentiment":"positive","confidence":"NaN"}`, "", 0, true},
		{"infinite confidence", `{"sentiment":"positive","confidence":"-Inf"}`, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, confidence, err := parseReply(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s %v", label, confidence)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseReply failed: %v", err)
			}
			if label != tt.label || confidence != tt.confidence {
				t.Errorf("got %s %v, want %s %v", label, confidence, tt.label, tt.confidence)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want []string
	}{
		{"frequency then first occurrence", "Rust and Go. Go is fast, Rust is safe, Go is simple.", 5, []string{"rust", "fast", "safe", "simple"}},
		{"limit", "alpha beta gamma delta epsilon zeta", 3, []string{"alpha", "beta", "gamma"}},
		{"stopwords only", "the and of it is", 5, []string{}},
		{"zero", "anything", 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Keywords(tt.text, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keywords = %v, want %v", got, tt.want)
			}
		})
	}
}
