package schedule

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"rendezvous/internal/apperr"
	"rendezvous/internal/model"
	"rendezvous/internal/store"
)

// CreateEvent stores an event and its date options together and returns the
// event with its id and slug set. A slug collision is retried with a fresh slug.
func (s *Service) CreateEvent(ctx context.Context, organizerID, title, description string, inputs []DateOptionInput) (*model.Event, error) {
	if organizerID == "" {
		return nil, apperr.New(apperr.AuthFailed, "log in to create events")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.New(apperr.ValidationFailed, "title required")
	}
	if len(inputs) == 0 {
		return nil, apperr.New(apperr.ValidationFailed, "at least one date option is required")
	}

	// a session can outlive its organizer
	if _, err := s.store.OrganizerByID(ctx, organizerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.AuthFailed, "log in to create events")
		}
		return nil, s.storageErr(ctx, "load organizer", err)
	}

	e := &model.Event{
		ID:          s.newID(),
		Name:        title,
		Description: strings.TrimSpace(description),
		OrganizerID: organizerID,
	}
	opts := s.dateOptions(e.ID, inputs)

	var err error
	for range slugAttempts {
		if e.Slug, err = s.newSlug(); err != nil {
			return nil, s.storageErr(ctx, "generate slug", err)
		}
		err = s.store.CreateEvent(ctx, e, opts)
		if !errors.Is(err, store.ErrConflict) {
			break
		}
		s.log.WarnContext(ctx, "slug collision, retrying", "slug", e.Slug)
	}
	if err != nil {
		return nil, s.storageErr(ctx, "create event", err)
	}

	s.log.InfoContext(ctx, "event created", "event", e.ID, "slug", e.Slug, "options", len(opts))
	return e, nil
}

// AddDateOptions attaches one or more options to an existing event.
func (s *Service) AddDateOptions(ctx context.Context, eventID string, inputs []DateOptionInput) error {
	if len(inputs) == 0 {
		return apperr.New(apperr.ValidationFailed, "at least one date option is required")
	}
	if err := s.store.AddDateOptions(ctx, eventID, s.dateOptions(eventID, inputs)); err != nil {
		return s.storageErr(ctx, "add date options", err)
	}
	return nil
}

func (s *Service) dateOptions(eventID string, inputs []DateOptionInput) []model.DateOption {
	opts := make([]model.DateOption, len(inputs))
	for i, in := range inputs {
		opts[i] = model.DateOption{
			ID:       s.newID(),
			EventID:  eventID,
			Day:      in.Day,
			StartsAt: in.StartsAt,
			EndsAt:   in.EndsAt,
		}
	}
	return opts
}

// SubmitAvailability records a respondent and the options they picked. An
// empty pick list is valid.
func (s *Service) SubmitAvailability(ctx context.Context, eventID, name, email string, optionIDs []string) (string, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return "", apperr.New(apperr.ValidationFailed, "name and email required")
	}

	ids, err := uniqueOptionIDs(optionIDs)
	if err != nil {
		return "", err
	}

	r := &model.Respondent{ID: s.newID(), Name: name, Email: email, EventID: eventID}
	err = s.store.CreateRespondent(ctx, r, ids)
	if errors.Is(err, store.ErrForeignOption) {
		return "", apperr.New(apperr.ValidationFailed, "selected date is not part of this event")
	}
	if err != nil {
		return "", s.storageErr(ctx, "submit availability", err)
	}

	s.log.InfoContext(ctx, "availability submitted", "event", eventID, "respondent", r.ID, "selections", len(ids))
	return r.ID, nil
}

func uniqueOptionIDs(in []string) ([]string, error) {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if _, err := uuid.Parse(raw); err != nil {
			return nil, apperr.New(apperr.ValidationFailed, "malformed date option id")
		}
		if seen[raw] {
			continue
		}
		seen[raw] = true
		out = append(out, raw)
	}
	return out, nil
}

// Withdraw removes the respondent matching name and email, along with their
// selections. It reports NotFound when there is nobody to remove.
func (s *Service) Withdraw(ctx context.Context, eventID, name, email string) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return apperr.New(apperr.ValidationFailed, "name and email required")
	}

	n, err := s.store.DeleteRespondent(ctx, eventID, name, email)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.NotFound, "no response found for that name and email")
	}
	if err != nil {
		return s.storageErr(ctx, "withdraw", err)
	}

	s.log.InfoContext(ctx, "respondent withdrawn", "event", eventID, "removed", n)
	return nil
}
