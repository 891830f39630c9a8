package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"opostudy/internal/handler"
	"opostudy/internal/server/middleware"
)

func NewMux(h *handler.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/topics", h.HandleTopics)
		r.Get("/progress", h.HandleAllProgress)

		r.Route("/topics/{id}", func(r chi.Router) {
			r.Get("/", h.HandleTopic)
			r.Post("/material", h.HandleGenerateMaterial)
			r.Get("/material", h.HandleMaterial)
			r.Get("/material/graph", h.HandleMaterialGraph)
			r.Get("/material/related", h.HandleMaterialRelated)
			r.Post("/quiz", h.HandleGenerateQuiz)
			r.Post("/quiz/grade", h.HandleGradeQuiz)
			r.Get("/progress", h.HandleTopicProgress)
			r.Delete("/progress", h.HandleResetProgress)
			r.Get("/missed", h.HandleMissed)
			r.Post("/export", h.HandleExport)
			r.Get("/export", h.HandleExportList)
			r.Get("/export/{name}", h.HandleExportGet)
		})

		// Debug
		r.Post("/diagram/repair", h.HandleRepairDiagram)
	})

	r.Get("/ws/chat", h.HandleChatWS)

	return middleware.CORS(r)
}
