package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"corpuschat/internal/core"
	"corpuschat/internal/corpus"
)

type APIHandler struct {
	chatService *core.ChatService
	ragService  *core.RAGService
	docsDir     string
}

func NewAPIHandler(cs *core.ChatService, rs *core.RAGService, docsDir string) *APIHandler {
	return &APIHandler{
		chatService: cs,
		ragService:  rs,
		docsDir:     docsDir,
	}
}

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type ChatResponse struct {
	Status         string    `json:"status"`
	Response       string    `json:"response"`
	ConversationID string    `json:"conversation_id"`
	Timestamp      time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "No message provided in request")
		return
	}

	result, err := h.chatService.HandleTurn(r.Context(), req.Message, req.ConversationID)
	if err != nil {
		log.Printf("Error processing chat request for conversation %q: %v", req.ConversationID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Status:         "success",
		Response:       result.Content,
		ConversationID: result.ConversationID,
		Timestamp:      result.Timestamp,
	})
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"initialized": h.ragService.Initialized(),
	})
}

func (h *APIHandler) GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	conv, err := h.chatService.GetConversation(conversationID)
	if err != nil {
		log.Printf("Error retrieving conversation %s: %v", conversationID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if conv == nil {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"chat":   conv,
	})
}

func (h *APIHandler) ListConversationsHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.chatService.ListConversations()
	if err != nil {
		log.Printf("Error listing conversations: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"chats":  summaries,
	})
}

// ReindexHandler reloads the document directory and rebuilds the vector
// index wholesale. Queries keep hitting the previous index until the new one
// is published.
func (h *APIHandler) ReindexHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := corpus.LoadDirectory(h.docsDir)
	if err != nil {
		log.Printf("Error loading documents for reindex: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	numChunks, err := h.ragService.ProcessDocuments(r.Context(), docs)
	if err != nil {
		if errors.Is(err, core.ErrEmptyInput) || errors.Is(err, core.ErrNoChunks) {
			writeError(w, http.StatusBadRequest, "No usable documents found to index")
			return
		}
		log.Printf("Error rebuilding index: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"documents": len(docs),
		"chunks":    numChunks,
	})
}
