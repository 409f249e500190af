package textutil

import (
	"regexp"
	"strings"
)

var (
	wordPattern     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// Words returns the lower-cased word tokens of text, stopwords included.
func Words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// ContentWords returns the lower-cased word tokens of text with stopwords removed.
func ContentWords(text string) []string {
	raw := Words(text)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if IsStopword(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sentences splits text on terminal punctuation. Text without any terminator
// yields a single trimmed sentence, empty text yields nil.
func Sentences(text string) []string {
	found := sentencePattern.FindAllString(text, -1)
	if len(found) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}
	out := make([]string, 0, len(found))
	for _, s := range found {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// TokenSet returns the distinct lower-cased words of text.
func TokenSet(text string) map[string]struct{} {
	tokens := Words(text)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// IsStopword reports whether the lower-cased word carries no content.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"i", "me", "my", "we", "our", "you", "your", "he", "him", "his", "she", "her", "its", "they", "them", "their", "what", "which", "who", "whom", "am", "have", "has", "had", "do", "does", "did", "not", "no", "nor", "only", "all", "any", "both", "each", "few", "more", "most", "other", "some", "here", "there", "when", "where", "why", "how", "once", "while", "because", "until", "would", "could", "also",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
