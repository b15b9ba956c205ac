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

	"github.com/gorilla/mux"

	"github.com/krishisevak/go-agronomist/internal/config"
	"github.com/krishisevak/go-agronomist/internal/handlers"
	"github.com/krishisevak/go-agronomist/internal/knowledge"
	"github.com/krishisevak/go-agronomist/internal/middleware"
	"github.com/krishisevak/go-agronomist/internal/ratelimit"
	"github.com/krishisevak/go-agronomist/internal/repository/conversation"
	"github.com/krishisevak/go-agronomist/internal/services"
	"github.com/krishisevak/go-agronomist/internal/services/chat"
	"github.com/krishisevak/go-agronomist/internal/services/classifier"
	"github.com/krishisevak/go-agronomist/internal/services/session"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("go_agronomist")

	// All conversation state is process-memory only: it starts empty and is
	// discarded on exit.
	store := conversation.NewMemoryStore()
	kb := knowledge.Default()

	chatService, err := chat.NewService(store, kb, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	sessionService, err := session.NewService(cfg.DemoUsername, cfg.DemoPassword, cfg.JWTSecretKey, store, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Session Service: %v", err)
	}

	// The classifier is optional; without configuration the predict endpoint
	// answers 503 instead of the server refusing to start.
	var leafClassifier classifier.Classifier
	if cfg.ClassifierAPIURL != "" {
		classifierCfg := classifier.DefaultConfig()
		classifierCfg.APIURL = cfg.ClassifierAPIURL
		classifierCfg.APIKey = cfg.ClassifierAPIKey
		classifierCfg.Timeout = cfg.ClassifierTimeout
		leafClassifier, err = classifier.NewHFProvider(classifierCfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize Classifier: %v", err)
		}
	} else {
		logger.Warn("classifier not configured; predict endpoint disabled")
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(sessionService)
	chatHandler, err := handlers.NewChatHandler(chatService)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Handler: %v", err)
	}
	predictHandler := handlers.NewPredictHandler(leafClassifier)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewAuthMiddleware(sessionService)
	loginLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultLoginConfig())
	defer loginLimiter.Close()

	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware(logger))

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	login := middleware.RateLimitMiddleware(loginLimiter, "login")(
		middleware.AuthSuccessMiddleware(loginLimiter)(http.HandlerFunc(authHandler.Login)))
	r.Handle("/login", login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET", "POST")

	// --- Protected Routes ---
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/conversations", chatHandler.ListConversations).Methods("GET")
	protected.HandleFunc("/conversations", chatHandler.CreateConversation).Methods("POST")
	protected.HandleFunc("/conversations/{id:[0-9]+}", chatHandler.GetConversation).Methods("GET")
	protected.HandleFunc("/conversations/{id:[0-9]+}", chatHandler.DeleteConversation).Methods("DELETE")
	protected.HandleFunc("/conversations/{id:[0-9]+}/message", chatHandler.PostMessage).Methods("POST")
	protected.HandleFunc("/history", chatHandler.History).Methods("GET")
	protected.HandleFunc("/predict", predictHandler.Predict).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	logger.Info("server starting", "port", cfg.ServerPort, "environment", cfg.Environment)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}
