package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"textintel/internal/domain"
	"textintel/internal/service"
	"textintel/internal/summarizer"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "analyze_text",
		Description: "Classify the sentiment of a text (positive, negative or neutral) with a confidence score and its top 5 keywords.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"text": {"type": "string", "description": "Text to analyze"}
			},
			"required": ["text"]
		}`),
	}, s.handleAnalyze)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "summarize_text",
		Description: "Summarize a text of at least 10 characters. max_length is the word limit (50-500, default 150).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"text": {"type": "string", "description": "Text to summarize"},
				"max_length": {"type": "number", "description": "Maximum summary length in words (default 150)"}
			},
			"required": ["text"]
		}`),
	}, s.handleSummarize)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "semantic_search",
		Description: "Find the stored documents most similar to a query. Returns rank, text, similarity score and metadata.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Search query text"},
				"top_k": {"type": "number", "description": "Number of results, 1-10 (default 5)"}
			},
			"required": ["query"]
		}`),
	}, s.handleSearch)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "add_document",
		Description: "Add a document to the semantic search index with optional key-value metadata.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"text": {"type": "string", "description": "Document text"},
				"metadata": {"type": "object", "description": "Optional metadata"}
			},
			"required": ["text"]
		}`),
	}, s.handleAddDocument)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "index_stats",
		Description: "Report the number of indexed documents and the vector dimension.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleStats)
}

func (s *Server) handleAnalyze(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Text string `json:"text"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	res, err := s.svc.Analyze(ctx, args.Text)
	if err != nil {
		return toolError("analysis failed: %v", err), nil
	}
	return jsonResult(res)
}

func (s *Server) handleSummarize(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Text      string `json:"text"`
		MaxLength int    `json:"max_length"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.MaxLength == 0 {
		args.MaxLength = summarizer.DefaultMaxLength
	}
	res, err := s.svc.Summarize(ctx, args.Text, args.MaxLength)
	if err != nil {
		return toolError("summarization failed: %v", err), nil
	}
	return jsonResult(res)
}

func (s *Server) handleSearch(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Query string `json:"query"`
		TopK  int    `json:"top_k"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.TopK == 0 {
		args.TopK = service.DefaultTopK
	}
	results, err := s.svc.SemanticSearch(ctx, args.Query, args.TopK)
	if err != nil {
		return toolError("search failed: %v", err), nil
	}
	if len(results) == 0 {
		return &gomcp.CallToolResult{
			Content: []gomcp.Content{&gomcp.TextContent{Text: "No documents found."}},
		}, nil
	}
	return jsonResult(map[string]any{"query": args.Query, "results": results})
}

func (s *Server) handleAddDocument(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Text     string          `json:"text"`
		Metadata domain.Metadata `json:"metadata"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	res, err := s.svc.AddDocument(ctx, args.Text, args.Metadata)
	if err != nil {
		return toolError("failed to add document: %v", err), nil
	}
	return jsonResult(res)
}

func (s *Server) handleStats(_ context.Context, _ *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	st, err := s.svc.IndexStats()
	if err != nil {
		return toolError("failed to get stats: %v", err), nil
	}
	return jsonResult(st)
}

func unmarshalArgs(req *gomcp.CallToolRequest, dst any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, dst)
}

func jsonResult(v any) (*gomcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: string(data)}},
	}, nil
}

func toolError(format string, args ...any) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
