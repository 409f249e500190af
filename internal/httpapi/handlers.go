package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-logr/logr"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message: "Welcome to AI Text Intelligence API",
		Version: s.svc.Info().Version,
		Health:  s.prefix + "/health",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Health())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var in textInput
	if err := decode(w, r, &in); err != nil {
		s.fail(w, r, "Analysis failed", err)
		return
	}
	text, err := in.validate()
	if err != nil {
		s.fail(w, r, "Analysis failed", err)
		return
	}
	res, err := s.svc.Analyze(r.Context(), text)
	if err != nil {
		s.fail(w, r, "Analysis failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var in summarizeInput
	if err := decode(w, r, &in); err != nil {
		s.fail(w, r, "Summarization failed", err)
		return
	}
	text, maxLength, err := in.validate()
	if err != nil {
		s.fail(w, r, "Summarization failed", err)
		return
	}
	res, err := s.svc.Summarize(r.Context(), text, maxLength)
	if err != nil {
		s.fail(w, r, "Summarization failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var in searchInput
	if err := decode(w, r, &in); err != nil {
		s.fail(w, r, "Search failed", err)
		return
	}
	query, topK, err := in.validate()
	if err != nil {
		s.fail(w, r, "Search failed", err)
		return
	}
	results, err := s.svc.SemanticSearch(r.Context(), query, topK)
	if err != nil {
		s.fail(w, r, "Search failed", err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: results})
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var in addDocumentInput
	if err := decode(w, r, &in); err != nil {
		s.fail(w, r, "Failed to add document", err)
		return
	}
	text, meta, err := in.validate()
	if err != nil {
		s.fail(w, r, "Failed to add document", err)
		return
	}
	res, err := s.svc.AddDocument(r.Context(), text, meta)
	if err != nil {
		s.fail(w, r, "Failed to add document", err)
		return
	}
	writeJSON(w, http.StatusOK, addDocumentResponse{
		Status:         "success",
		DocumentID:     res.DocumentID,
		TotalDocuments: res.TotalDocuments,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.IndexStats()
	if err != nil {
		s.fail(w, r, "Failed to get stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ClearIndex(); err != nil {
		s.fail(w, r, "Failed to clear index", err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Index cleared"})
}

// fail writes 422 for validation errors. Anything else is a 500 whose
// detail is "<prefix>: <cause>".
func (s *Server) fail(w http.ResponseWriter, r *http.Request, prefix string, err error) {
	if isValidation(err) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
		return
	}
	logr.FromContextOrDiscard(r.Context()).Error(err, "request failed", "op", prefix)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("%s: %v", prefix, err)})
}

// writeJSON encodes v before writing the header so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"detail":"Internal server error: cannot encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
