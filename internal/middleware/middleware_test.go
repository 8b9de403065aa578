package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rendezvous/internal/auth"
)

func echoOrganizer() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, OrganizerID(r.Context()))
	})
}

func TestSessionLoad(t *testing.T) {
	s := NewSessions("secret", time.Hour)
	good, _ := auth.MakeToken("org-1", "secret", time.Hour)
	forged, _ := auth.MakeToken("org-1", "other", time.Hour)

	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"no cookie", "", ""},
		{"valid", good, "org-1"},
		{"forged", forged, ""},
		{"garbage", "abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			s.Load(echoOrganizer()).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("organizer: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionStartAndEnd(t *testing.T) {
	s := NewSessions("secret", time.Hour)

	rec := httptest.NewRecorder()
	if err := s.Start(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "org-9"); err != nil {
		t.Fatalf("start: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].HttpOnly {
		t.Fatalf("expected one httponly cookie, got %v", cookies)
	}
	claims, err := auth.ParseToken(cookies[0].Value, "secret")
	if err != nil || claims.OrganizerID != "org-9" {
		t.Fatalf("cookie does not carry organizer: %v", err)
	}

	rec = httptest.NewRecorder()
	s.End(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))
	cookies = rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %v", cookies)
	}
}

func TestRequireOrganizer(t *testing.T) {
	h := RequireOrganizer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/events/new", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("expected redirect home, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	s := NewSessions("secret", time.Hour)
	tok, _ := auth.MakeToken("org-1", "secret", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/events/new", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	rec = httptest.NewRecorder()
	s.Load(h).ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot {
		t.Errorf("expected handler to run, got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Limit(func(w http.ResponseWriter, r *http.Request) {})

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected codes %v", codes)
	}

	// other clients keep their own budget
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("second client limited: %d", rec.Code)
	}
}

func TestRateLimiterPrune(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)

	rl.prune(time.Minute)
	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Error("expected idle visitor pruned")
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Error("active visitor should be kept")
	}
}

func TestLoggingKeepsStatus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Logging(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d", rec.Code)
	}
}
