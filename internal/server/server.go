// Package server provides the HTTP API for KrishiSaathi.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/krishisaathi/krishisaathi/internal/chatbot"
	"github.com/krishisaathi/krishisaathi/internal/config"
	"github.com/krishisaathi/krishisaathi/internal/predict"
	"github.com/krishisaathi/krishisaathi/internal/storage"
	"github.com/krishisaathi/krishisaathi/internal/translate"
)

// maxUploadBytes caps disease photo uploads.
const maxUploadBytes = 10 << 20

// Server is the HTTP server for the KrishiSaathi API.
type Server struct {
	engine     *chatbot.Engine
	predictor  *predict.Predictor
	translator *translate.Translator
	storage    storage.Storage
	config     *config.Config
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a server with the given dependencies. The predictor and
// translator may be nil; their endpoints then report service unavailable or
// degrade to English respectively.
func NewServer(
	engine *chatbot.Engine,
	predictor *predict.Predictor,
	translator *translate.Translator,
	db storage.Storage,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:     engine,
		predictor:  predictor,
		translator: translator,
		storage:    db,
		config:     cfg,
		logger:     logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)

	r.Post("/api/v1/chat", s.handleChat)
	r.Get("/api/v1/status", s.handleStatus)

	r.Post("/predict/crop", s.handlePredictCrop)
	r.Post("/predict/fertilizer", s.handlePredictFertilizer)
	r.Post("/predict/disease", s.handlePredictDisease)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Put("/auth/language", s.handleUpdateLanguage)

	r.Get("/languages", s.handleLanguages)
	r.Get("/translations/{language}", s.handleTranslations)

	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// corsMiddleware allows the browser frontend to call the API cross-origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
