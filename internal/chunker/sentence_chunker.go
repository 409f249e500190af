package chunker

import (
	"strings"

	"textintel/internal/domain"
	"textintel/internal/textutil"
)

// SentenceChunker splits text into sentence-based chunks with overlap.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	// overlap must leave at least one new sentence per chunk
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
	}
}

// Chunk splits content taken from source. Blank content yields no chunks.
func (c *SentenceChunker) Chunk(source, content string) ([]domain.Chunk, error) {
	sentences := textutil.Sentences(content)
	if len(sentences) == 0 {
		return nil, nil
	}
	var chunks []domain.Chunk
	i := 0
	idx := 0
	for i < len(sentences) {
		end := min(i+c.sentencesPerChunk, len(sentences))
		chunks = append(chunks, domain.Chunk{
			Source: source,
			Index:  idx,
			Text:   strings.Join(sentences[i:end], " "),
		})
		if end == len(sentences) {
			break
		}
		i = max(end-c.overlapSentences, 0)
		idx++
	}
	return chunks, nil
}
