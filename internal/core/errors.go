package core

import "errors"

// Sentinel errors for the retrieval pipeline. Callers classify failures with
// errors.Is; external service errors are wrapped so transport detail is
// preserved underneath.
var (
	// ErrEmptyInput indicates the caller provided no usable input
	// (no documents, or an empty chat message).
	ErrEmptyInput = errors.New("no input provided")

	// ErrNoChunks indicates splitting non-empty documents produced zero
	// chunks. This points at a configuration bug, not a transient failure.
	ErrNoChunks = errors.New("no chunks produced from documents")

	// ErrInvalidArgument indicates a caller mistake such as a non-positive k.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyQuery indicates an empty or all-whitespace retrieval query.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrIndexNotInitialized indicates no vector index has been built yet.
	// Retryable once a build completes.
	ErrIndexNotInitialized = errors.New("vector index not initialized")

	// ErrEmbeddingService indicates the embedding backend failed or returned
	// malformed output.
	ErrEmbeddingService = errors.New("embedding service failure")

	// ErrGeneration indicates the generative model call failed.
	ErrGeneration = errors.New("generation failure")
)
