package middleware

import (
	"context"
	"net/http"
	"time"

	"rendezvous/internal/auth"
)

type ctxKey string

const OrganizerIDKey ctxKey = "oid"

const SessionCookie = "session"

// Sessions issues and reads the signed session cookie.
type Sessions struct {
	secret string
	ttl    time.Duration
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{secret: secret, ttl: ttl}
}

// Load puts the organizer id from a valid cookie into the request context.
// A missing or invalid cookie just means logged out.
func (s *Sessions) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err == nil && c.Value != "" {
			if claims, err := auth.ParseToken(c.Value, s.secret); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), OrganizerIDKey, claims.OrganizerID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Start sets the cookie for organizerID.
func (s *Sessions) Start(w http.ResponseWriter, r *http.Request, organizerID string) error {
	tok, err := auth.MakeToken(organizerID, s.secret, s.ttl)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// End expires the cookie.
func (s *Sessions) End(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireOrganizer redirects to the landing page when nobody is logged in.
func RequireOrganizer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if OrganizerID(r.Context()) == "" {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// OrganizerID returns the logged in organizer, or "".
func OrganizerID(ctx context.Context) string {
	id, _ := ctx.Value(OrganizerIDKey).(string)
	return id
}
