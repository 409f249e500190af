package summarizer

import (
	"context"
	"math"
	"sort"
	"strings"

	"textintel/internal/textutil"
)

// FrequencySummarizer is an offline extractive summarizer. It ranks sentences
// by the normalized frequency of their content words and keeps the best ones
// that fit the word budget, in their original order.
type FrequencySummarizer struct{}

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer() *FrequencySummarizer { return &FrequencySummarizer{} }

// Name returns the engine identifier.
func (s *FrequencySummarizer) Name() string { return "frequency" }

// Summarize returns at most maxWords words taken from the highest ranked
// sentences of text.
func (s *FrequencySummarizer) Summarize(ctx context.Context, text string, maxWords int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxLength
	}
	sentences := textutil.Sentences(text)
	if len(sentences) == 0 {
		return "", nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range textutil.ContentWords(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type scored struct {
		idx   int
		words int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, sent := range sentences {
		score := 0.0
		for _, tok := range textutil.ContentWords(sent) {
			score += freq[tok]
		}
		// Normalize by sentence length to avoid bias
		n := len(strings.Fields(sent))
		if n > 0 {
			score /= math.Sqrt(float64(n))
		}
		ranked[i] = scored{idx: i, words: n, score: score}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var selected []int
	budget := maxWords
	for _, r := range ranked {
		if r.words <= budget {
			selected = append(selected, r.idx)
			budget -= r.words
		}
	}
	if len(selected) == 0 {
		return truncateWords(sentences[ranked[0].idx], maxWords), nil
	}
	// Keep original order among selected
	sort.Ints(selected)
	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, sentences[idx])
	}
	return strings.Join(out, " "), nil
}

func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}
