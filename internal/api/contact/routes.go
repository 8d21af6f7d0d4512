package contact

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers contact routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/contact", func(r chi.Router) {
		r.Get("/questions", h.ListQuestions)

		r.Route("/flows", func(r chi.Router) {
			r.Post("/", h.CreateFlow)
			r.Get("/{id}", h.GetFlow)
			r.Post("/{id}/idea", h.SubmitIdea)
			r.Post("/{id}/quiz/answer", h.AnswerQuiz)
			r.Post("/{id}/quiz/back", h.GoBack)
			r.Post("/{id}/quiz/reset", h.ResetQuiz)
			r.Post("/{id}/scope/approve", h.ApproveScope)
			r.Post("/{id}/scope/reject", h.RejectScope)
			r.Get("/{id}/scope/export", h.ExportScope)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", h.ListLeads)
			r.Get("/{id}", h.GetLead)
		})
	})
}
