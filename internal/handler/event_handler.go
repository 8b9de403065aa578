package handler

import (
	"bytes"
	"net/http"

	"github.com/emersion/go-ical"

	"rendezvous/internal/apperr"
	"rendezvous/internal/middleware"
	"rendezvous/internal/schedule"
)

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index.html", h.page(r, "Rendezvous"))
}

func (h *Handler) newEvent(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "create.html", h.page(r, "New event"))
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, apperr.Wrap(apperr.ValidationFailed, "could not read form", err))
		return
	}

	inputs, err := schedule.ParseDateOptions(r.PostForm["days"], r.PostForm["start"], r.PostForm["end"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ev, err := h.events.CreateEvent(r.Context(), middleware.OrganizerID(r.Context()),
		r.PostFormValue("title"), r.PostFormValue("description"), inputs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/events/"+ev.Slug, http.StatusSeeOther)
}

func (h *Handler) showEvent(w http.ResponseWriter, r *http.Request) {
	view, err := h.events.EventView(r.Context(), r.PathValue("slug"), middleware.OrganizerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	p := h.page(r, view.Name)
	p.Event = view
	p.ShareURL = shareURL(r, view.Slug)
	h.render(w, r, http.StatusOK, "event.html", p)
}

func (h *Handler) submitAvailability(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, apperr.Wrap(apperr.ValidationFailed, "could not read form", err))
		return
	}

	ev, err := h.events.ResolveEvent(r.Context(), slug)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if id := r.PostFormValue("eventId"); id != "" && id != ev.ID {
		h.fail(w, r, apperr.New(apperr.ValidationFailed, "form does not belong to this event"))
		return
	}

	_, err = h.events.SubmitAvailability(r.Context(), ev.ID,
		r.PostFormValue("name"), r.PostFormValue("email"), r.PostForm["dateOptionsId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/events/"+slug, http.StatusSeeOther)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, apperr.Wrap(apperr.ValidationFailed, "could not read form", err))
		return
	}

	ev, err := h.events.ResolveEvent(r.Context(), slug)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.events.Withdraw(r.Context(), ev.ID, r.PostFormValue("name"), r.PostFormValue("email")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/events/"+slug, http.StatusSeeOther)
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	cal, err := h.events.Calendar(r.Context(), slug)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		h.log.ErrorContext(r.Context(), "encode calendar", "slug", slug, "error", err)
		h.fail(w, r, apperr.Wrap(apperr.StorageFailure, "encode calendar", err))
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+slug+`.ics"`)
	w.Write(buf.Bytes())
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, apperr.New(apperr.NotFound, "page not found"))
}

func shareURL(r *http.Request, slug string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/events/" + slug
}
