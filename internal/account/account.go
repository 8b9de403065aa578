// Package account registers organizers and checks their credentials.
package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"rendezvous/internal/apperr"
	"rendezvous/internal/auth"
	"rendezvous/internal/model"
	"rendezvous/internal/store"
)

type Store interface {
	CreateOrganizer(ctx context.Context, o *model.Organizer) error
	OrganizerByEmail(ctx context.Context, email string) (*model.Organizer, error)
	OrganizerByID(ctx context.Context, id string) (*model.Organizer, error)
}

type Service struct {
	store Store
	log   *slog.Logger
}

func New(st Store, logger *slog.Logger) *Service {
	return &Service{store: st, log: logger}
}

// Register creates an organizer. Empty fields and an email that is already
// registered are both ValidationFailed.
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.Organizer, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, apperr.New(apperr.ValidationFailed, "name, email and password are required")
	}

	_, err := s.store.OrganizerByEmail(ctx, email)
	if err == nil {
		return nil, apperr.New(apperr.ValidationFailed, "email already registered")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, s.storageErr(ctx, "lookup organizer", err)
	}

	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apperr.New(apperr.ValidationFailed, "password must be at most 72 bytes")
	}
	if err != nil {
		return nil, s.storageErr(ctx, "hash password", err)
	}

	o := &model.Organizer{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	// a concurrent registration can still win the race to the unique index
	if err := s.store.CreateOrganizer(ctx, o); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperr.New(apperr.ValidationFailed, "email already registered")
		}
		return nil, s.storageErr(ctx, "create organizer", err)
	}

	s.log.InfoContext(ctx, "organizer registered", "organizer", o.ID)
	return o, nil
}

// Login returns the organizer owning email when password matches.
func (s *Service) Login(ctx context.Context, email, password string) (*model.Organizer, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.New(apperr.ValidationFailed, "email and password required")
	}

	o, err := s.store.OrganizerByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "invalid email or password")
	}
	if err != nil {
		return nil, s.storageErr(ctx, "lookup organizer", err)
	}

	if !auth.PasswordMatches(o.PasswordHash, password) {
		return nil, apperr.New(apperr.AuthFailed, "invalid email or password")
	}
	return o, nil
}

// Organizer looks up a session's organizer. Unknown ids are NotFound.
func (s *Service) Organizer(ctx context.Context, id string) (*model.Organizer, error) {
	o, err := s.store.OrganizerByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "organizer not found")
	}
	if err != nil {
		return nil, s.storageErr(ctx, "lookup organizer", err)
	}
	return o, nil
}

func (s *Service) storageErr(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, "storage failure", "op", op, "error", err)
	return apperr.Wrap(apperr.StorageFailure, op, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
