package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes live under /api
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", apiHandler.ChatHandler)
		r.Get("/chat/{conversationID}", apiHandler.GetConversationHandler)
		r.Get("/chats", apiHandler.ListConversationsHandler)
		r.Get("/health", apiHandler.HealthHandler)
		r.Post("/reindex", apiHandler.ReindexHandler)
	})

	return r
}
