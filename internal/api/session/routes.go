package session

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.EndSession)
			r.Get("/documents", h.ListDocuments)
			r.Post("/documents", h.UploadDocument)
			r.Delete("/documents", h.DeleteDocuments)
			r.Get("/messages", h.ListMessages)
			r.Post("/messages", h.SendMessage)
			r.Delete("/messages", h.ClearChat)
			r.Delete("/history", h.ClearHistory)
			r.Get("/export", h.ExportChat)
		})
	})
}
