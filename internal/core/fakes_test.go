package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"corpuschat/internal/store"
)

// wordEmbedder maps text to term counts over a tiny fixed vocabulary. It is
// deterministic, so similarity ordering in tests is predictable.
type wordEmbedder struct {
	failNext bool
}

var testVocab = []string{"return", "policy", "refund", "days", "shipping", "pizza", "cheese", "weather"}

func (e *wordEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if e.failNext {
		return nil, fmt.Errorf("%w: embedder unavailable", ErrEmbeddingService)
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, len(testVocab))
		lower := strings.ToLower(text)
		for j, word := range testVocab {
			vec[j] = float32(strings.Count(lower, word))
		}
		out[i] = vec
	}
	return out, nil
}

// fixedEmbedder returns preset vectors regardless of input, in order.
type fixedEmbedder struct {
	vectors [][]float32
	err     error
}

func (e *fixedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(texts) > len(e.vectors) {
		return nil, errors.New("fixedEmbedder: not enough preset vectors")
	}
	return e.vectors[:len(texts)], nil
}

// scriptedChatModel records every Complete call and replies with canned
// text.
type scriptedChatModel struct {
	replies []string
	err     error
	calls   [][]Message
}

func (m *scriptedChatModel) Complete(ctx context.Context, messages []Message) (string, error) {
	m.calls = append(m.calls, messages)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) >= len(m.calls) {
		return m.replies[len(m.calls)-1], nil
	}
	return fmt.Sprintf("reply %d", len(m.calls)), nil
}

// memStore is an in-memory ConversationStore.
type memStore struct {
	conversations map[string]*store.Conversation
	saveErr       error
	getErr        error
}

func newMemStore() *memStore {
	return &memStore{conversations: make(map[string]*store.Conversation)}
}

func (s *memStore) GetConversation(conversationID string) (*store.Conversation, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	conv, ok := s.conversations[conversationID]
	if !ok {
		return nil, nil
	}
	copied := *conv
	copied.Turns = append([]store.Turn(nil), conv.Turns...)
	return &copied, nil
}

func (s *memStore) SaveExchange(conversationID string, userTurn, assistantTurn store.Turn, context string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	now := time.Now().UTC()
	conv, ok := s.conversations[conversationID]
	if !ok {
		conv = &store.Conversation{ID: conversationID, CreatedAt: now}
		s.conversations[conversationID] = conv
	}
	conv.Turns = append(conv.Turns, userTurn, assistantTurn)
	conv.Context = context
	conv.UpdatedAt = now
	return nil
}

func (s *memStore) ListConversations() ([]store.ConversationSummary, error) {
	var summaries []store.ConversationSummary
	for _, conv := range s.conversations {
		preview := ""
		if len(conv.Turns) > 0 {
			preview = conv.Turns[0].Content
		}
		summaries = append(summaries, store.ConversationSummary{
			ID:        conv.ID,
			Preview:   preview,
			CreatedAt: conv.CreatedAt,
			UpdatedAt: conv.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}
