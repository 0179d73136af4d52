package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultChatModelName      = "gemini-1.5-flash-latest"
	defaultEmbeddingModelName = "text-embedding-004"
)

// LLMService is the Gemini-backed provider. It implements both Embedder and
// ChatModel on one shared client.
type LLMService struct {
	client         *genai.Client
	chatModel      string
	embeddingModel string
	sampling       SamplingParams
}

func NewLLMService(ctx context.Context, apiKey string, sampling SamplingParams) (*LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key cannot be empty", ErrInvalidArgument)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &LLMService{
		client:         client,
		chatModel:      defaultChatModelName,
		embeddingModel: defaultEmbeddingModelName,
		sampling:       sampling,
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

// EmbedTexts embeds all texts in a single batch request.
func (s *LLMService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts to embed", ErrInvalidArgument)
	}

	em := s.client.EmbeddingModel(s.embeddingModel)
	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini embedding request failed: %v", ErrEmbeddingService, err)
	}
	if res == nil || len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: gemini returned wrong number of embeddings", ErrEmbeddingService)
	}

	vectors := make([][]float32, len(res.Embeddings))
	for i, emb := range res.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("%w: empty embedding for text %d", ErrEmbeddingService, i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// Complete sends the assembled message sequence as a chat session. The
// leading system message becomes the model's system instruction. Gemini does
// not expose frequency/presence penalty knobs; those apply to the
// OpenAI-compatible provider only.
func (s *LLMService) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: message sequence is empty", ErrInvalidArgument)
	}

	model := s.client.GenerativeModel(s.chatModel)
	model.SetTemperature(s.sampling.Temperature)
	model.SetTopP(s.sampling.TopP)
	model.SetMaxOutputTokens(s.sampling.MaxOutputTokens)

	var history []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(msg.Content)},
			}
		case RoleUser:
			history = append(history, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		default:
			history = append(history, &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		}
	}

	if len(history) == 0 || history[len(history)-1].Role != "user" {
		return "", fmt.Errorf("%w: last message must be from the user", ErrInvalidArgument)
	}

	lastUserMessage := history[len(history)-1]
	session := model.StartChat()
	session.History = history[:len(history)-1]

	resp, err := session.SendMessage(ctx, lastUserMessage.Parts...)
	if err != nil {
		return "", fmt.Errorf("%w: gemini chat SendMessage failed: %v", ErrGeneration, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Gemini response was empty or had no valid candidates.")
		return "I'm sorry, I couldn't generate a response at this time. Please try again.", nil
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		log.Println("Gemini response was empty after processing parts.")
		return "I received an empty response, please try rephrasing your question.", nil
	}

	return responseText.String(), nil
}
