package sentiment

import (
	"sort"
	"unicode/utf8"

	"textintel/internal/textutil"
)

// DefaultKeywordCount is how many keywords Analyze reports.
const DefaultKeywordCount = 5

// Keywords returns the n most frequent content words of text. Words shorter
// than three letters and stopwords are skipped; ties keep first-occurrence
// order. The result is never nil.
func Keywords(text string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	type candidate struct {
		word  string
		count int
		first int
	}
	seen := map[string]*candidate{}
	var order []*candidate
	for i, w := range textutil.Words(text) {
		if utf8.RuneCountInString(w) < 3 || textutil.IsStopword(w) {
			continue
		}
		c, ok := seen[w]
		if !ok {
			c = &candidate{word: w, first: i}
			seen[w] = c
			order = append(order, c)
		}
		c.count++
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})
	if len(order) > n {
		order = order[:n]
	}
	out := make([]string, 0, len(order))
	for _, c := range order {
		out = append(out, c.word)
	}
	return out
}
