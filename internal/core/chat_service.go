package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"corpuschat/internal/store"
)

// ConversationStore is the durable conversation record, keyed by
// conversation identifier. The chat service is its sole writer.
type ConversationStore interface {
	GetConversation(conversationID string) (*store.Conversation, error)
	SaveExchange(conversationID string, userTurn, assistantTurn store.Turn, context string) error
	ListConversations() ([]store.ConversationSummary, error)
}

// ChatService drives one conversational turn end to end: history load,
// context retrieval, assembly, generation, persistence.
type ChatService struct {
	store      ConversationStore
	ragService *RAGService
	llm        ChatModel
	assembler  *Assembler
}

func NewChatService(st ConversationStore, rag *RAGService, llm ChatModel, assembler *Assembler) *ChatService {
	return &ChatService{
		store:      st,
		ragService: rag,
		llm:        llm,
		assembler:  assembler,
	}
}

// TurnResult is what the caller gets back from a handled turn.
type TurnResult struct {
	Content        string
	ConversationID string
	Timestamp      time.Time
}

// HandleTurn answers one user message. A missing conversation identifier
// gets a freshly generated one. Retrieval failures degrade to a context-free
// answer; persistence failures are logged but never fail a response that was
// already generated.
func (s *ChatService) HandleTurn(ctx context.Context, message, conversationID string) (*TurnResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrEmptyInput)
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	var history []store.Turn
	conv, err := s.store.GetConversation(conversationID)
	if err != nil {
		log.Printf("Failed to load history for conversation %s: %v. Proceeding without history.", conversationID, err)
	} else if conv != nil {
		history = conv.Turns
	}

	retrievedContext, err := s.ragService.GetRelevantContext(ctx, message)
	if err != nil {
		log.Printf("Failed to retrieve context for conversation %s, proceeding without it: %v", conversationID, err)
		retrievedContext = ""
	}

	messages := s.assembler.Assemble(retrievedContext, history, message)

	var content string
	err = withRetry(ctx, defaultRetryAttempts, func() error {
		var completeErr error
		content, completeErr = s.llm.Complete(ctx, messages)
		return completeErr
	})
	if err != nil {
		return nil, fmt.Errorf("generating response: %w", err)
	}

	now := time.Now().UTC()
	userTurn := store.Turn{Role: store.RoleUser, Content: message, Timestamp: now}
	assistantTurn := store.Turn{Role: store.RoleAssistant, Content: content, Timestamp: now}
	if err := s.store.SaveExchange(conversationID, userTurn, assistantTurn, retrievedContext); err != nil {
		// The answer is already generated; history may silently fail to save.
		log.Printf("Failed to persist exchange for conversation %s: %v", conversationID, err)
	}

	return &TurnResult{
		Content:        content,
		ConversationID: conversationID,
		Timestamp:      now,
	}, nil
}

func (s *ChatService) GetConversation(conversationID string) (*store.Conversation, error) {
	return s.store.GetConversation(conversationID)
}

func (s *ChatService) ListConversations() ([]store.ConversationSummary, error) {
	return s.store.ListConversations()
}
