package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

const (
	defaultOpenAIBaseURL        = "https://api.openai.com/v1"
	defaultOpenAIChatModel      = "gpt-4"
	defaultOpenAIEmbeddingModel = "text-embedding-3-small"
	defaultOpenAITimeout        = 60 * time.Second
)

// OpenAIConfig configures the OpenAI-compatible provider. BaseURL may point
// at any compatible backend (OpenAI, Azure, a local server).
type OpenAIConfig struct {
	BaseURL        string
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	Sampling       SamplingParams
}

// OpenAIService talks to an OpenAI-compatible HTTP API. It implements
// Embedder and ChatModel, and honors the full sampling parameter set
// including frequency and presence penalties.
type OpenAIService struct {
	cfg    OpenAIConfig
	client *http.Client
}

func NewOpenAIService(cfg OpenAIConfig) (*OpenAIService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api key cannot be empty", ErrInvalidArgument)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBaseURL
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaultOpenAIChatModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = defaultOpenAIEmbeddingModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultOpenAITimeout
	}
	return &OpenAIService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (s *OpenAIService) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %s: %.200s", path, resp.Status, string(data))
	}
	return json.Unmarshal(data, out)
}

// EmbedTexts embeds all texts in one request, restoring input order from the
// index field of the response.
func (s *OpenAIService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts to embed", ErrInvalidArgument)
	}

	reqBody := struct {
		Input []string `json:"input"`
		Model string   `json:"model"`
	}{Input: texts, Model: s.cfg.EmbeddingModel}

	var out struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := s.postJSON(ctx, "/embeddings", reqBody, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
	}
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrEmbeddingService, len(out.Data), len(texts))
	}

	sort.Slice(out.Data, func(i, j int) bool { return out.Data[i].Index < out.Data[j].Index })
	vectors := make([][]float32, len(out.Data))
	for i, d := range out.Data {
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", ErrEmbeddingService, i)
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Complete calls the chat completions endpoint with the configured sampling
// parameters.
func (s *OpenAIService) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: message sequence is empty", ErrInvalidArgument)
	}

	chatMessages := make([]openAIChatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = openAIChatMessage{Role: msg.Role, Content: msg.Content}
	}

	reqBody := struct {
		Model            string              `json:"model"`
		Messages         []openAIChatMessage `json:"messages"`
		Temperature      float32             `json:"temperature"`
		TopP             float32             `json:"top_p"`
		MaxTokens        int32               `json:"max_tokens"`
		FrequencyPenalty float32             `json:"frequency_penalty"`
		PresencePenalty  float32             `json:"presence_penalty"`
	}{
		Model:            s.cfg.ChatModel,
		Messages:         chatMessages,
		Temperature:      s.cfg.Sampling.Temperature,
		TopP:             s.cfg.Sampling.TopP,
		MaxTokens:        s.cfg.Sampling.MaxOutputTokens,
		FrequencyPenalty: s.cfg.Sampling.FrequencyPenalty,
		PresencePenalty:  s.cfg.Sampling.PresencePenalty,
	}

	var out struct {
		Choices []struct {
			Message openAIChatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := s.postJSON(ctx, "/chat/completions", reqBody, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no completion choices returned", ErrGeneration)
	}
	return out.Choices[0].Message.Content, nil
}
