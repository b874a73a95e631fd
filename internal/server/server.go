package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/roach88/boardflow/internal/auth"
	"github.com/roach88/boardflow/internal/backend"
)

// Server wires the backend store, session auth, and the snapshot hub
// behind an HTTP router.
type Server struct {
	store    *backend.Store
	sessions *auth.Service
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a Server and starts its snapshot hub.
func New(store *backend.Store, sessions *auth.Service, opts ...Option) *Server {
	s := &Server{
		store:    store,
		sessions: sessions,
		logger:   slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The reference server serves first-party clients only.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = NewHub(s.logger)
	go s.hub.Run()
	return s
}

// Close stops the snapshot hub, disconnecting every subscriber and
// letting the hub goroutine exit. The HTTP routes are stopped by the
// owning http.Server.
func (s *Server) Close() {
	s.hub.Close()
}

// Handler builds the full route table with CORS applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/auth/signup", s.handleSignup).Methods("POST")
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.requireSession)

	api.HandleFunc("/boards", s.handleListBoards).Methods("GET")
	api.HandleFunc("/boards", s.handleCreateBoard).Methods("POST")
	api.HandleFunc("/boards/{id}", s.handleRenameBoard).Methods("PATCH")
	api.HandleFunc("/boards/{id}", s.handleDeleteBoard).Methods("DELETE")

	api.HandleFunc("/boards/{id}/columns", s.handleCreateColumn).Methods("POST")
	api.HandleFunc("/columns/{id}", s.handleUpdateColumn).Methods("PATCH")
	api.HandleFunc("/columns/{id}", s.handleDeleteColumn).Methods("DELETE")

	api.HandleFunc("/columns/{id}/cards", s.handleCreateCard).Methods("POST")
	api.HandleFunc("/cards/{id}", s.handleUpdateCard).Methods("PATCH")
	api.HandleFunc("/cards/{id}", s.handleDeleteCard).Methods("DELETE")

	api.HandleFunc("/boards/{id}/labels", s.handleCreateLabel).Methods("POST")
	api.HandleFunc("/labels/{id}", s.handleDeleteLabel).Methods("DELETE")
	api.HandleFunc("/cards/{id}/labels", s.handleAssignLabel).Methods("POST")
	api.HandleFunc("/cards/{id}/labels/{labelID}", s.handleUnassignLabel).Methods("DELETE")

	// The websocket endpoint authenticates via query parameter because
	// browser websocket clients cannot set an Authorization header.
	r.HandleFunc("/api/ws", s.handleSubscribe)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

type contextKey string

const userIDKey contextKey = "user_id"

// requireSession authenticates the bearer token and stores the user id
// in the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.sessionUser(r)
		if err != nil {
			httpError(w, http.StatusUnauthorized, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionUser extracts and verifies the bearer token.
func (s *Server) sessionUser(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errMissingAuth
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errBadAuthFormat
	}
	return s.sessions.VerifyToken(parts[1])
}

// requestUser returns the user id the middleware stored.
func requestUser(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
