// Package schedule holds the event read model and the writes that feed it.
package schedule

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"rendezvous/internal/apperr"
	"rendezvous/internal/model"
)

// Store is the persistence gateway the service runs on. *store.Store
// satisfies it.
type Store interface {
	EventBySlug(ctx context.Context, slug string) (*model.Event, error)
	OrganizerByID(ctx context.Context, id string) (*model.Organizer, error)
	CountDateOptions(ctx context.Context, eventID string) (int, error)
	DateOptionsByEvent(ctx context.Context, eventID string) ([]model.DateOption, error)
	RespondentsByEvent(ctx context.Context, eventID string) ([]model.Respondent, error)
	SelectionsByRespondent(ctx context.Context, eventID, respondentID string) ([]string, error)

	CreateEvent(ctx context.Context, e *model.Event, opts []model.DateOption) error
	AddDateOptions(ctx context.Context, eventID string, opts []model.DateOption) error
	CreateRespondent(ctx context.Context, r *model.Respondent, optionIDs []string) error
	DeleteRespondent(ctx context.Context, eventID, name, email string) (int, error)
}

type Service struct {
	store   Store
	log     *slog.Logger
	newSlug func() (string, error)
	newID   func() string
}

func New(st Store, logger *slog.Logger) *Service {
	return &Service{
		store:   st,
		log:     logger,
		newSlug: NewSlug,
		newID:   func() string { return uuid.New().String() },
	}
}

// storageErr logs the cause and hides it behind a StorageFailure.
func (s *Service) storageErr(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, "storage failure", "op", op, "error", err)
	return apperr.Wrap(apperr.StorageFailure, op, err)
}
