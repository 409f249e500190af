package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"textintel/internal/domain"
)

type fakePort struct {
	results []domain.SearchResult
	err     error
	queries []string
}

func (f *fakePort) SemanticSearch(_ context.Context, q string, _ int) ([]domain.SearchResult, error) {
	f.queries = append(f.queries, q)
	return f.results, f.err
}

func (f *fakePort) IndexStats() (domain.IndexStats, error) {
	return domain.IndexStats{TotalDocuments: len(f.results), IndexSize: len(f.results), Dimension: 384}, nil
}

func typeQuery(t *testing.T, m Model, q string) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(q)})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestSearchShowsResults(t *testing.T) {
	port := &fakePort{results: []domain.SearchResult{
		{Rank: 1, Text: "Foxes are quick. Dogs are lazy.", SimilarityScore: 0.8, Metadata: domain.Metadata{"source": "a.txt"}},
		{Rank: 2, Text: "Cats sleep.", SimilarityScore: 0.4, Metadata: domain.Metadata{}},
	}}
	m := typeQuery(t, New(context.Background(), port, "Search", 5), "fox")

	if len(port.queries) != 1 || port.queries[0] != "fox" {
		t.Fatalf("queries = %v", port.queries)
	}
	if !strings.Contains(m.status, "2 results") {
		t.Errorf("status = %q", m.status)
	}
	view := m.renderCurrentResult()
	if !strings.Contains(view, "rank=1") || !strings.Contains(view, "source=a.txt") {
		t.Errorf("view = %q", view)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestSearchError(t *testing.T) {
	port := &fakePort{err: errors.New("boom")}
	m := typeQuery(t, New(context.Background(), port, "Search", 5), "fox")
	if !strings.HasPrefix(m.status, "Error:") {
		t.Errorf("status = %q", m.status)
	}
	if got := m.renderCurrentResult(); got != "No results yet." {
		t.Errorf("view = %q", got)
	}
}

func TestHighlightBestSentence(t *testing.T) {
	got := highlightBestSentence("Cats sleep. Foxes jump high.", "fox jump")
	if !strings.Contains(got, "Cats sleep.") || !strings.Contains(got, "Foxes jump high.") {
		t.Errorf("highlight dropped text: %q", got)
	}
}

func TestFormatMetadataSorted(t *testing.T) {
	got := formatMetadata(domain.Metadata{"source": "a.txt", "chunk": 2})
	if got != "chunk=2  source=a.txt" {
		t.Errorf("formatMetadata = %q", got)
	}
}
