package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"corpuschat/internal/api"
	"corpuschat/internal/config"
	"corpuschat/internal/core"
	"corpuschat/internal/corpus"
	"corpuschat/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	ctx := context.Background()

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Initialize the model provider
	sampling := core.SamplingParams{
		Temperature:      config.AppConfig.Tuning.Temperature,
		TopP:             config.AppConfig.Tuning.TopP,
		MaxOutputTokens:  config.AppConfig.Tuning.MaxOutputTokens,
		FrequencyPenalty: config.AppConfig.Tuning.FrequencyPenalty,
		PresencePenalty:  config.AppConfig.Tuning.PresencePenalty,
	}

	var embedder core.Embedder
	var chatModel core.ChatModel
	switch config.AppConfig.LLMProvider {
	case "gemini":
		llmService, err := core.NewLLMService(ctx, config.AppConfig.GeminiAPIKey, sampling)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini service: %v", err)
		}
		defer llmService.Close()
		embedder, chatModel = llmService, llmService
	case "openai":
		openAIService, err := core.NewOpenAIService(core.OpenAIConfig{
			BaseURL:  config.AppConfig.OpenAIBaseURL,
			APIKey:   config.AppConfig.OpenAIAPIKey,
			Sampling: sampling,
		})
		if err != nil {
			log.Fatalf("Failed to initialize OpenAI service: %v", err)
		}
		embedder, chatModel = openAIService, openAIService
	default:
		log.Fatalf("Unknown LLM provider: %s", config.AppConfig.LLMProvider)
	}

	// Initialize RAG service and build the index from the document directory
	splitter, err := core.NewSplitter(config.AppConfig.Tuning.ChunkSize, config.AppConfig.Tuning.ChunkOverlap)
	if err != nil {
		log.Fatalf("Invalid chunking configuration: %v", err)
	}
	ragService := core.NewRAGService(embedder, splitter, config.AppConfig.Tuning.TopK)

	docs, err := corpus.LoadDirectory(config.AppConfig.DocsDir)
	if err != nil {
		log.Fatalf("Failed to load documents: %v", err)
	}
	if len(docs) == 0 {
		log.Printf("Warning: no documents found in %s; retrieval will degrade to context-free chat", config.AppConfig.DocsDir)
	} else {
		numChunks, err := ragService.ProcessDocuments(ctx, docs)
		if err != nil {
			log.Fatalf("Failed to build vector index: %v", err)
		}
		log.Printf("Processed %d documents into %d chunks", len(docs), numChunks)
	}

	// Initialize Chat service
	assembler := core.NewAssembler(config.AppConfig.Tuning.MaxHistoryTurns)
	chatService := core.NewChatService(dbStore, ragService, chatModel, assembler)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(chatService, ragService, config.AppConfig.DocsDir)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
