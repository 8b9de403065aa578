package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"rendezvous/internal/apperr"
	"rendezvous/internal/middleware"
	"rendezvous/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// pages maps a page file name to its template, parsed together with the layout.
type pages map[string]*template.Template

func loadPages() (pages, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	p := make(pages)
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		name := path.Base(f)
		tmpl, err := template.New(name).ParseFS(templateFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		p[name] = tmpl
	}
	return p, nil
}

// page is the data every template receives.
type page struct {
	Title         string
	LoggedIn      bool
	OrganizerName string
	Year          int

	Status  int
	Message string

	Event    *model.EventView
	ShareURL string
}

func (h *Handler) page(r *http.Request, title string) *page {
	p := &page{Title: title, Year: time.Now().Year()}
	oid := middleware.OrganizerID(r.Context())
	if oid == "" {
		return p
	}
	o, err := h.accounts.Organizer(r.Context(), oid)
	if err != nil {
		// a session for a deleted organizer reads as logged out
		if apperr.CodeOf(err) != apperr.NotFound {
			h.log.WarnContext(r.Context(), "load session organizer", "error", err)
		}
		return p
	}
	p.LoggedIn = true
	p.OrganizerName = o.Name
	return p
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data *page) {
	tmpl, ok := h.pages[name]
	if !ok {
		h.log.ErrorContext(r.Context(), "template not found", "template", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log.ErrorContext(r.Context(), "execute template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// fail renders the error page with the status of err's code.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	if code != apperr.StorageFailure {
		h.log.InfoContext(r.Context(), "request rejected", "path", r.URL.Path, "code", code, "error", err)
	}

	status := code.HTTPStatus()
	p := h.page(r, http.StatusText(status))
	p.Status = status
	p.Message = apperr.Message(err)
	h.render(w, r, status, "error.html", p)
}
