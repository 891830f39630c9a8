// Package handler exposes the study service over plain JSON HTTP plus a
// websocket chat endpoint.
package handler

import (
	"encoding/json"
	"net/http"

	"opostudy/internal/artifact"
	"opostudy/internal/chat"
	"opostudy/internal/study"
	"opostudy/internal/syllabus"
)

type Handler struct {
	catalog   *syllabus.Catalog
	study     *study.Service
	chat      *chat.Service
	artifacts artifact.Store
}

// New builds the HTTP handler set. artifacts may be nil when no artifact
// store is configured; the export endpoint then reports 503.
func New(catalog *syllabus.Catalog, studySvc *study.Service, chatSvc *chat.Service, artifacts artifact.Store) *Handler {
	return &Handler{
		catalog:   catalog,
		study:     studySvc,
		chat:      chatSvc,
		artifacts: artifacts,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) topicFromRequest(w http.ResponseWriter, id string) (syllabus.Topic, bool) {
	topic, ok := h.catalog.Get(id)
	if !ok {
		http.Error(w, "unknown topic", http.StatusNotFound)
		return syllabus.Topic{}, false
	}
	return topic, true
}
