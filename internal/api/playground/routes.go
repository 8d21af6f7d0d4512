package playground

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers playground routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/playground", func(r chi.Router) {
		r.Get("/assistants", h.ListAssistants)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Get("/{id}", h.GetSession)
			r.Put("/{id}/assistant", h.SelectAssistant)
			r.Post("/{id}/attachment", h.StageAttachment)
			r.Delete("/{id}/attachment", h.ClearAttachment)
			r.Post("/{id}/start", h.StartConversation)
			r.Post("/{id}/messages", h.SendMessage)
			r.Post("/{id}/reset", h.ResetConversation)
		})
	})
}
