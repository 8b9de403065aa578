package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/emersion/go-ical"

	"rendezvous/internal/middleware"
	"rendezvous/internal/model"
	"rendezvous/internal/schedule"
)

// Events is the slice of *schedule.Service the routes use.
type Events interface {
	EventView(ctx context.Context, slug, viewerID string) (*model.EventView, error)
	ResolveEvent(ctx context.Context, slug string) (*model.Event, error)
	CreateEvent(ctx context.Context, organizerID, title, description string, inputs []schedule.DateOptionInput) (*model.Event, error)
	SubmitAvailability(ctx context.Context, eventID, name, email string, optionIDs []string) (string, error)
	Withdraw(ctx context.Context, eventID, name, email string) error
	Calendar(ctx context.Context, slug string) (*ical.Calendar, error)
}

// Accounts is the slice of *account.Service the routes use.
type Accounts interface {
	Register(ctx context.Context, name, email, password string) (*model.Organizer, error)
	Login(ctx context.Context, email, password string) (*model.Organizer, error)
	Organizer(ctx context.Context, id string) (*model.Organizer, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	events   Events
	accounts Accounts
	sessions *middleware.Sessions
	limiter  *middleware.RateLimiter
	db       Pinger
	pages    pages
	log      *slog.Logger
}

func New(events Events, accounts Accounts, sessions *middleware.Sessions, limiter *middleware.RateLimiter, db Pinger, logger *slog.Logger) (*Handler, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	return &Handler{
		events:   events,
		accounts: accounts,
		sessions: sessions,
		limiter:  limiter,
		db:       db,
		pages:    p,
		log:      logger,
	}, nil
}

// Routes wires every endpoint behind session loading and request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /events/new", middleware.RequireOrganizer(h.newEvent))
	mux.HandleFunc("GET /events", h.newEvent)
	mux.HandleFunc("POST /events", middleware.RequireOrganizer(h.createEvent))
	mux.HandleFunc("GET /events/{slug}", h.showEvent)
	mux.HandleFunc("POST /events/{slug}", h.submitAvailability)
	mux.HandleFunc("POST /events/{slug}/edit", h.withdraw)
	mux.HandleFunc("GET /events/{slug}/calendar.ics", h.calendar)
	mux.HandleFunc("GET /api/events/{slug}", h.apiEvent)

	mux.HandleFunc("POST /login", h.limiter.Limit(h.login))
	mux.HandleFunc("POST /register", h.limiter.Limit(h.register))
	mux.HandleFunc("POST /logout", h.logout)

	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("/", h.notFound)

	return middleware.Logging(h.log, h.sessions.Load(mux))
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.log.ErrorContext(r.Context(), "health check failed", "error", err)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("ok"))
}
