// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/lexisg/go-lexi/internal/config"
	"github.com/lexisg/go-lexi/internal/domain"
	"github.com/lexisg/go-lexi/internal/handlers"
	"github.com/lexisg/go-lexi/internal/middleware"
	"github.com/lexisg/go-lexi/internal/ratelimit"
	conversationrepo "github.com/lexisg/go-lexi/internal/repository/conversation"
	messagerepo "github.com/lexisg/go-lexi/internal/repository/message"
	"github.com/lexisg/go-lexi/internal/services"
	"github.com/lexisg/go-lexi/internal/services/citation"
	"github.com/lexisg/go-lexi/internal/services/directory"
	"github.com/lexisg/go-lexi/internal/services/engine"
	"github.com/lexisg/go-lexi/internal/services/retrieval"
	"github.com/lexisg/go-lexi/internal/services/session"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// buildEngine wires the answer engine. Without an LLM key the server runs
// on the stub so the conversation API stays usable in development.
func buildEngine(cfg *config.Config, logger services.Logger) engine.Provider {
	if cfg.LLMAPIKey == "" {
		log.Println("LLM_API_KEY not set; running with the stub answer engine")
		return engine.NewStubProvider()
	}

	retrievalCfg := retrieval.DefaultConfig()
	retrievalCfg.APIKey = cfg.PineconeAPIKey
	retrievalCfg.IndexHost = cfg.PineconeIndexHost
	retrievalCfg.Namespace = cfg.PineconeNamespace
	if err := retrievalCfg.Validate(); err != nil {
		log.Fatalf("FATAL: invalid retrieval config: %v", err)
	}

	retriever, err := retrieval.NewClientService(retrievalCfg, logger)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize case-law retrieval: %v", err)
	}

	engineCfg := engine.DefaultConfig()
	engineCfg.EmbeddingKey = cfg.EmbeddingAPIKey
	engineCfg.EmbeddingBaseURL = cfg.EmbeddingBaseURL
	engineCfg.EmbeddingModel = cfg.EmbeddingModelName
	engineCfg.LLMKey = cfg.LLMAPIKey
	engineCfg.LLMBaseURL = cfg.LLMBaseURL
	engineCfg.ChatModel = cfg.ChatModelName
	engineCfg.RetrievalTopK = cfg.RetrievalTopK
	engineCfg.DocumentBaseURL = cfg.DocumentBaseURL
	engineCfg.Timeout = cfg.EngineTimeout

	provider, err := engine.NewOpenAIProvider(engineCfg, retriever, logger)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize answer engine: %v", err)
	}
	return provider
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("lexi")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.Conversation{}, &domain.Message{}, &domain.Citation{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	convRepo := conversationrepo.NewConversationRepository(db)
	msgRepo := messagerepo.NewMessageRepository(db)

	// --- Services ---
	conversationService, err := services.NewConversationService(convRepo, msgRepo, logger)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize conversation service: %v", err)
	}
	directories := directory.NewRegistry(conversationService, logger)
	answerEngine := buildEngine(cfg, logger)
	controller := session.NewController(conversationService, answerEngine, logger)
	resolver := citation.NewResolver(logger)

	// --- Handlers ---
	conversationHandler := handlers.NewConversationHandler(conversationService, directories, controller, resolver)
	healthHandler := handlers.NewHealthHandler(db, answerEngine)

	// --- Rate Limiters ---
	askLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultQuestionConfig())
	defer askLimiter.Close()
	writeLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.StrictWriteConfig())
	defer writeLimiter.Close()

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware([]byte(cfg.JWTSecretKey))

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("/conversations", conversationHandler.ListConversations).Methods("GET")
	api.HandleFunc("/conversations", conversationHandler.CreateConversation).Methods("POST")
	api.HandleFunc("/conversations/{id:[0-9]+}/messages", conversationHandler.GetMessages).Methods("GET")
	api.HandleFunc("/citations/resolve", conversationHandler.ResolveCitation).Methods("POST")

	ask := api.PathPrefix("/conversations/{id:[0-9]+}/messages").Subrouter()
	ask.Use(middleware.RateLimitMiddleware(askLimiter, "ask"))
	ask.HandleFunc("", conversationHandler.Ask).Methods("POST")

	writes := api.PathPrefix("/conversations/{id:[0-9]+}").Subrouter()
	writes.Use(middleware.RateLimitMiddleware(writeLimiter, "conversation-write"))
	writes.HandleFunc("", conversationHandler.RenameConversation).Methods("PATCH")
	writes.HandleFunc("", conversationHandler.DeleteConversation).Methods("DELETE")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Lexi legal research assistant starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
