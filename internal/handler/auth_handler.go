package handler

import (
	"net/http"

	"rendezvous/internal/apperr"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, apperr.Wrap(apperr.ValidationFailed, "could not read form", err))
		return
	}

	o, err := h.accounts.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.startSession(w, r, o.ID)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, apperr.Wrap(apperr.ValidationFailed, "could not read form", err))
		return
	}

	o, err := h.accounts.Register(r.Context(),
		r.PostFormValue("name"), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.startSession(w, r, o.ID)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, organizerID string) {
	if err := h.sessions.Start(w, r, organizerID); err != nil {
		h.log.ErrorContext(r.Context(), "start session", "error", err)
		h.fail(w, r, apperr.Wrap(apperr.StorageFailure, "start session", err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
