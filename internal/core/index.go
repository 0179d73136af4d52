package core

import (
	"context"
	"fmt"
	"sort"

	"corpuschat/internal/utils"
)

// VectorIndex holds (chunk, embedding) pairs and answers exact
// nearest-neighbor queries by linear scan. It is immutable after BuildIndex;
// reprocessing publishes a whole new index instead of mutating this one.
type VectorIndex struct {
	chunks  []Chunk
	vectors [][]float32 // L2-normalized, one per chunk
	dim     int
}

// ScoredChunk is a search hit with its cosine similarity to the query.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// BuildIndex embeds all chunk texts in one batch and stores the normalized
// vectors. A dimension mismatch across chunks is a build-time error; nothing
// partial is ever returned.
func BuildIndex(ctx context.Context, chunks []Chunk, embedder Embedder) (*VectorIndex, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", ErrEmbeddingService, len(vectors), len(chunks))
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: embedder returned empty vectors", ErrEmbeddingService)
	}
	normalized := make([][]float32, len(vectors))
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: chunk %d has dimension %d, expected %d", ErrEmbeddingService, i, len(vec), dim)
		}
		normalized[i] = utils.Normalize(vec)
	}

	return &VectorIndex{chunks: chunks, vectors: normalized, dim: dim}, nil
}

// Len returns the number of indexed chunks.
func (ix *VectorIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.chunks)
}

// Dimension returns the embedding dimension of the index.
func (ix *VectorIndex) Dimension() int {
	if ix == nil {
		return 0
	}
	return ix.dim
}

// Search returns up to k chunks ordered by descending cosine similarity to
// the query vector. Exactly equal scores tie-break by ascending chunk index,
// so results are deterministic for a static index. k larger than the index
// is clamped; k <= 0 is a caller error.
func (ix *VectorIndex) Search(query []float32, k int) ([]ScoredChunk, error) {
	if ix == nil || len(ix.chunks) == 0 {
		return nil, ErrIndexNotInitialized
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidArgument, k)
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query dimension %d does not match index dimension %d", ErrInvalidArgument, len(query), ix.dim)
	}

	normalizedQuery := utils.Normalize(query)
	scored := make([]ScoredChunk, len(ix.chunks))
	for i := range ix.chunks {
		scored[i] = ScoredChunk{
			Chunk: ix.chunks[i],
			Score: utils.Dot(ix.vectors[i], normalizedQuery),
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.Index < scored[j].Chunk.Index
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}
