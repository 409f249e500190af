package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"textintel/internal/config"
	"textintel/internal/docstore"
	"textintel/internal/domain"
	"textintel/internal/embedding/hashing"
	"textintel/internal/service"
)

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(context.Context, string) domain.Sentiment {
	return domain.Sentiment{Sentiment: "negative", Confidence: 0.7, Keywords: []string{}}
}

type stubSummarizer struct{}

func (stubSummarizer) Name() string { return "stub" }
func (stubSummarizer) Summarize(_ context.Context, _ string, maxLength int) (string, error) {
	return strings.Repeat("w ", 3), nil
}

func makeServer(t *testing.T) *Server {
	t.Helper()
	emb, err := hashing.NewEmbedder(16)
	if err != nil {
		t.Fatal(err)
	}
	store, err := docstore.New(emb, 16)
	if err != nil {
		t.Fatal(err)
	}
	svc := service.NewTextService(config.AppInfoConfig{Name: "test", Version: "0.1.0"}, stubAnalyzer{}, stubSummarizer{}, store, nil, logr.Discard())
	s, err := NewServer(svc)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	return s
}

func callTool(t *testing.T, s *Server, name string, args any) *gomcp.CallToolResult {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}
	req := &gomcp.CallToolRequest{
		Params: &gomcp.CallToolParamsRaw{Name: name, Arguments: argsJSON},
	}
	handlers := map[string]gomcp.ToolHandler{
		"analyze_text":    s.handleAnalyze,
		"summarize_text":  s.handleSummarize,
		"semantic_search": s.handleSearch,
		"add_document":    s.handleAddDocument,
		"index_stats":     s.handleStats,
	}
	h, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return result
}

func getTextContent(result *gomcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(*gomcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

func TestNewServerRequiresService(t *testing.T) {
	if _, err := NewServer(nil); err == nil {
		t.Fatal("expected error for nil service")
	}
}

func TestAddThenSearch(t *testing.T) {
	s := makeServer(t)

	result := callTool(t, s, "add_document", map[string]any{
		"text":     "The quick brown fox",
		"metadata": map[string]string{"source": "test"},
	})
	if result.IsError {
		t.Fatalf("add_document failed: %s", getTextContent(result))
	}
	var added domain.AddResult
	if err := json.Unmarshal([]byte(getTextContent(result)), &added); err != nil {
		t.Fatalf("decode add result: %v", err)
	}
	if added.DocumentID != 0 || added.TotalDocuments != 1 {
		t.Errorf("add result = %+v", added)
	}

	result = callTool(t, s, "semantic_search", map[string]any{"query": "fox"})
	if result.IsError {
		t.Fatalf("semantic_search failed: %s", getTextContent(result))
	}
	text := getTextContent(result)
	if !strings.Contains(text, "The quick brown fox") || !strings.Contains(text, `"rank": 1`) {
		t.Errorf("unexpected search output: %s", text)
	}

	result = callTool(t, s, "index_stats", map[string]any{})
	if !strings.Contains(getTextContent(result), `"total_documents": 1`) {
		t.Errorf("unexpected stats: %s", getTextContent(result))
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	result := callTool(t, makeServer(t), "semantic_search", map[string]any{"query": "anything"})
	if result.IsError || getTextContent(result) != "No documents found." {
		t.Fatalf("result = %+v", result)
	}
}

func TestValidationErrorsAreToolErrors(t *testing.T) {
	s := makeServer(t)
	tests := []struct {
		tool string
		args map[string]any
	}{
		{"analyze_text", map[string]any{"text": ""}},
		{"summarize_text", map[string]any{"text": "short"}},
		{"summarize_text", map[string]any{"text": "long enough text", "max_length": 9999}},
		{"semantic_search", map[string]any{"query": "q", "top_k": 50}},
		{"add_document", map[string]any{"text": ""}},
		{"add_document", map[string]any{"text": 12}},
	}
	for _, tt := range tests {
		result := callTool(t, s, tt.tool, tt.args)
		if !result.IsError {
			t.Errorf("%s(%v) succeeded, want tool error", tt.tool, tt.args)
		}
	}
}

func TestAnalyzeAndSummarize(t *testing.T) {
	s := makeServer(t)
	result := callTool(t, s, "analyze_text", map[string]any{"text": "awful"})
	if result.IsError || !strings.Contains(getTextContent(result), `"sentiment": "negative"`) {
		t.Fatalf("analyze_text = %s", getTextContent(result))
	}
	result = callTool(t, s, "summarize_text", map[string]any{"text": "a long enough piece of text"})
	if result.IsError || !strings.Contains(getTextContent(result), `"original_length": 27`) {
		t.Fatalf("summarize_text = %s", getTextContent(result))
	}
}
