package message

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers message routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/message", func(r chi.Router) {
		r.Post("/", h.SendMessage)
		r.Get("/", h.ListMessages)
	})
}
