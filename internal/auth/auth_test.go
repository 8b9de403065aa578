package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("password stored in clear")
	}
	if !PasswordMatches(hash, "hunter22") {
		t.Error("expected password to match")
	}
	if PasswordMatches(hash, "hunter23") {
		t.Error("expected mismatch")
	}
}

func TestTokenExpiry(t *testing.T) {
	tok, err := MakeToken("org-1", "secret", 24*time.Hour)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	claims, err := ParseToken(tok, "secret")
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.OrganizerID != "org-1" {
		t.Errorf("organizer mismatch: %s", claims.OrganizerID)
	}
	diff := time.Until(claims.ExpiresAt.Time)
	if diff < 23*time.Hour || diff > 25*time.Hour {
		t.Errorf("expected ~24h expiry, got %v", diff)
	}
}

func TestTokenRejected(t *testing.T) {
	tok, _ := MakeToken("org-1", "secret", time.Hour)
	expired, _ := MakeToken("org-1", "secret", -time.Minute)
	empty, _ := MakeToken("", "secret", time.Hour)
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		OrganizerID: "org-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{OrganizerID: "org-1"}).SignedString([]byte("secret"))

	tests := []struct {
		name   string
		raw    string
		secret string
	}{
		{"wrong secret", tok, "other"},
		{"garbage", "not.a.token", "secret"},
		{"expired", expired, "secret"},
		{"no organizer", empty, "secret"},
		{"other algorithm", hs512, "secret"},
		{"no expiry", noExpiry, "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.raw, tt.secret)
			if !errors.Is(err, ErrBadSession) {
				t.Fatalf("expected ErrBadSession, got %v", err)
			}
		})
	}
}

func TestPasswordTooLong(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("x", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}
