package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"textintel/internal/domain"
	"textintel/internal/textutil"
)

// SearchPort is the TUI-facing subset of the text service.
type SearchPort interface {
	SemanticSearch(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
	IndexStats() (domain.IndexStats, error)
}

// Model is the Bubble Tea model for the search console.
type Model struct {
	ctx       context.Context
	service   SearchPort
	topK      int
	title     string
	input     textinput.Model
	viewport  viewport.Model
	results   []domain.SearchResult
	stats     string
	status    string
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance.
func New(ctx context.Context, service SearchPort, title string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type query and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{ctx: ctx, service: service, topK: topK, title: title, input: ti, viewport: vp, status: "Type to search."}
	m.refreshStats()
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + stats
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := max(msg.Height-reserved, 3)
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.search(q)
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) search(q string) {
	res, err := m.service.SemanticSearch(m.ctx, q, m.topK)
	switch {
	case err != nil:
		m.status = "Error: " + err.Error()
		m.results = nil
	case len(res) == 0:
		m.status = fmt.Sprintf("No documents match %q", q)
		m.results = nil
	default:
		m.status = fmt.Sprintf("%d results for %q", len(res), q)
		m.results = res
		m.cursor = 0
		m.lastQuery = q
	}
	m.refreshStats()
	m.viewport.SetContent(m.renderCurrentResult())
}

func (m *Model) refreshStats() {
	st, err := m.service.IndexStats()
	if err != nil {
		m.stats = "index unavailable: " + err.Error()
		return
	}
	m.stats = fmt.Sprintf("%d documents, dimension %d", st.TotalDocuments, st.Dimension)
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render(m.title)
	stats := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.stats)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + stats + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("Result %d/%d  rank=%d  score=%.3f", m.cursor+1, len(m.results), r.Rank, r.SimilarityScore)
	body := highlightBestSentence(r.Text, m.lastQuery)
	if md := formatMetadata(r.Metadata); md != "" {
		return title + "\n" + metadataStyle.Render(md) + "\n\n" + body
	}
	return title + "\n\n" + body
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	metadataStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func formatMetadata(md domain.Metadata) string {
	if len(md) == 0 {
		return ""
	}
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, md[k])
	}
	return strings.Join(parts, "  ")
}

func highlightBestSentence(text, query string) string {
	sentences := textutil.Sentences(text)
	if len(sentences) == 0 {
		return text
	}
	qTokens := textutil.TokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	sentences[bestIdx] = highlightStyle.Render(sentences[bestIdx])
	return strings.Join(sentences, " ")
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	for t := range textutil.TokenSet(sentence) {
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
