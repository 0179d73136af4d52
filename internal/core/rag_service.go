package core

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// DefaultTopK is the number of chunks concatenated into the retrieval
// context.
const DefaultTopK = 3

// RAGService owns the process-wide vector index and answers retrieval
// queries against it. The index is published with an atomic pointer swap, so
// queries racing a rebuild see either the old index or the new one, never a
// partial build.
type RAGService struct {
	embedder Embedder
	splitter *Splitter
	topK     int
	index    atomic.Pointer[VectorIndex]
}

func NewRAGService(embedder Embedder, splitter *Splitter, topK int) *RAGService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RAGService{
		embedder: embedder,
		splitter: splitter,
		topK:     topK,
	}
}

// ProcessDocuments chunks and embeds the document set, then replaces the
// live index wholesale. On failure the previously published index keeps
// serving. Returns the number of chunks indexed.
func (s *RAGService) ProcessDocuments(ctx context.Context, docs []Document) (int, error) {
	chunks, err := s.splitter.SplitDocuments(docs)
	if err != nil {
		return 0, err
	}

	index, err := BuildIndex(ctx, chunks, s.embedder)
	if err != nil {
		return 0, err
	}

	s.index.Store(index)
	return index.Len(), nil
}

// Initialized reports whether at least one index build has been published.
func (s *RAGService) Initialized() bool {
	return s.index.Load() != nil
}

// GetRelevantContext embeds the query and returns the text of the top-k most
// similar chunks joined by blank lines, in descending similarity order.
func (s *RAGService) GetRelevantContext(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}
	index := s.index.Load()
	if index == nil {
		return "", ErrIndexNotInitialized
	}

	var vectors [][]float32
	err := withRetry(ctx, defaultRetryAttempts, func() error {
		var embedErr error
		vectors, embedErr = s.embedder.EmbedTexts(ctx, []string{query})
		return embedErr
	})
	if err != nil {
		return "", fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return "", fmt.Errorf("%w: expected one query vector, got %d", ErrEmbeddingService, len(vectors))
	}

	results, err := index.Search(vectors[0], s.topK)
	if err != nil {
		return "", err
	}

	var contextBuilder strings.Builder
	for i, result := range results {
		if i > 0 {
			contextBuilder.WriteString("\n\n")
		}
		contextBuilder.WriteString(result.Chunk.Text)
	}
	return contextBuilder.String(), nil
}
