package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	messageapi "github.com/quillhq/quill-backend/internal/api/message"
	"github.com/quillhq/quill-backend/internal/api/middleware"
	"github.com/quillhq/quill-backend/internal/auth"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(messageHandler *messageapi.Handler, authn auth.Authenticator, corsOrigin string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(middleware.CORS(corsOrigin))             // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(authn))
		messageapi.RegisterRoutes(r, messageHandler)
	})

	return r
}
