package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/samkim-crypto/bsaggots/internal/store"
)

// Server exposes the one-time signature scheme over HTTP: keygen, sign,
// verify, aggregate, aggregate-verify.
type Server struct {
	keyStore store.KeyStore
	validate *validator.Validate
	router   *mux.Router
}

// NewServer creates a new HTTP server instance backed by keyStore.
func NewServer(keyStore store.KeyStore) *Server {
	s := &Server{
		keyStore: keyStore,
		validate: validator.New(),
		router:   mux.NewRouter(),
	}

	s.setupRoutes()

	return s
}

// Router returns the configured HTTP handler, including CORS and logging
// middleware.
func (s *Server) Router() http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	return corsHandler.Handler(handlers.LoggingHandler(os.Stdout, s.router))
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/v1").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	api.HandleFunc("/keys", s.handleGenerateKey).Methods("POST")

	api.HandleFunc("/sign", s.handleSign).Methods("POST")
	api.HandleFunc("/verify", s.handleVerify).Methods("POST")
	api.HandleFunc("/aggregate", s.handleAggregate).Methods("POST")
	api.HandleFunc("/aggregate-verify", s.handleAggregateVerify).Methods("POST")

	api.Use(s.errorHandlingMiddleware)
	api.Use(s.contentTypeMiddleware)
}

func (s *Server) errorHandlingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) contentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Response is the standard API envelope.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func (s *Server) writeResponse(w http.ResponseWriter, statusCode int, data interface{}, err error) {
	resp := Response{
		Success:   err == nil,
		Data:      data,
		Timestamp: time.Now(),
	}

	if err != nil {
		resp.Error = err.Error()
	}

	w.WriteHeader(statusCode)
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, err error) {
	s.writeResponse(w, statusCode, nil, err)
}

func (s *Server) parseJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}
