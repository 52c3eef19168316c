// Package pipeline implements the chorus orchestration pipeline:
// split text into word-balanced chunks, hand them to the compute
// network as one task, wait for remote synthesis, and stitch the
// resulting segments into a single WAV file.
package pipeline

import (
	"math"
	"strings"

	"github.com/chorus-network/chorus/internal/domain"
)

// Split partitions text into n word-balanced chunks. The target chunk
// size is round(W/n) words for word count W; words left over after the
// last full chunk form a trailing chunk, so the result may hold n+1
// entries. Every word in a chunk carries a trailing space; consumers
// must not rely on absence of trailing whitespace.
//
// When n exceeds the word count the target size clamps to one word per
// chunk, yielding W chunks.
func Split(text string, n int) ([]domain.Chunk, error) {
	if n < 1 {
		return nil, domain.ErrBadChunkCount
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, domain.ErrEmptyInput
	}

	size := int(math.Round(float64(len(words)) / float64(n)))
	if size < 1 {
		size = 1
	}

	var chunks []domain.Chunk
	var acc strings.Builder
	inChunk := 0

	for _, w := range words {
		acc.WriteString(w)
		acc.WriteByte(' ')
		inChunk++

		if inChunk == size {
			chunks = append(chunks, domain.Chunk{Index: len(chunks), Text: acc.String()})
			acc.Reset()
			inChunk = 0
		}
	}

	if acc.Len() > 0 {
		chunks = append(chunks, domain.Chunk{Index: len(chunks), Text: acc.String()})
	}

	return chunks, nil
}
