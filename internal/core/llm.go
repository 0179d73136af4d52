package core

import "context"

// Message roles used across the pipeline. Providers translate these into
// whatever role vocabulary their backend expects.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in the sequence sent to the generative
// model.
type Message struct {
	Role    string
	Content string
}

// Embedder maps texts to fixed-dimension vectors, one per input, in input
// order. Implementations wrap transport failures in ErrEmbeddingService.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatModel produces a completion for a bounded message sequence. The first
// message may be a system instruction; the last must be from the user.
type ChatModel interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// SamplingParams are the product-tuned generation settings. Providers apply
// whichever knobs their backend supports.
type SamplingParams struct {
	Temperature      float32
	TopP             float32
	MaxOutputTokens  int32
	FrequencyPenalty float32
	PresencePenalty  float32
}

// DefaultSamplingParams returns the tuned defaults for corpus-grounded
// support answers: warm but bounded, with short outputs.
func DefaultSamplingParams() SamplingParams {
	return SamplingParams{
		Temperature:      0.7,
		TopP:             0.9,
		MaxOutputTokens:  200,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.3,
	}
}
