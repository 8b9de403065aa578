// Package auth holds organizer credentials: bcrypt password hashes and the
// signed session token carried in the session cookie.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadSession = errors.New("invalid session token")
	// bcrypt only looks at the first 72 bytes
	ErrPasswordTooLong = bcrypt.ErrPasswordTooLong
)

const passwordCost = bcrypt.DefaultCost

// HashPassword returns the stored form of an organizer password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// PasswordMatches reports whether password is the one behind hash.
func PasswordMatches(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Claims is the payload of the session cookie.
type Claims struct {
	OrganizerID string `json:"oid"`
	jwt.RegisteredClaims
}

// MakeToken signs a session for organizerID valid for ttl.
func MakeToken(organizerID, secret string, ttl time.Duration) (string, error) {
	issued := time.Now()
	claims := Claims{
		OrganizerID: organizerID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

var sessionParser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithExpirationRequired(),
)

// ParseToken verifies a session token and returns its claims. Tokens signed
// with anything but HS256, expired, or naming no organizer are rejected.
func ParseToken(raw, secret string) (*Claims, error) {
	claims := &Claims{}
	_, err := sessionParser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.Join(ErrBadSession, err)
	}
	if claims.OrganizerID == "" {
		return nil, ErrBadSession
	}
	return claims, nil
}
