package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) HandleTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"topics": h.catalog.Topics(),
	})
}

func (h *Handler) HandleTopic(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topicFromRequest(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, topic)
}
