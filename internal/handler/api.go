package handler

import (
	"encoding/json"
	"net/http"

	"rendezvous/internal/apperr"
	"rendezvous/internal/middleware"
)

func (h *Handler) apiEvent(w http.ResponseWriter, r *http.Request) {
	view, err := h.events.EventView(r.Context(), r.PathValue("slug"), middleware.OrganizerID(r.Context()))
	if err != nil {
		writeJSON(w, apperr.CodeOf(err).HTTPStatus(), map[string]string{"error": apperr.Message(err)})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
