package store

import (
	"context"

	"rendezvous/internal/model"
)

// CreateOrganizer returns ErrConflict when the email is already registered.
func (s *Store) CreateOrganizer(ctx context.Context, o *model.Organizer) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO organizers (id, name, email, password_hash) VALUES ($1,$2,$3,$4)`,
		o.ID, o.Name, o.Email, o.PasswordHash,
	)
	return translate(err)
}

func (s *Store) OrganizerByEmail(ctx context.Context, email string) (*model.Organizer, error) {
	return s.organizer(ctx, `WHERE email = $1`, email)
}

func (s *Store) OrganizerByID(ctx context.Context, id string) (*model.Organizer, error) {
	return s.organizer(ctx, `WHERE id = $1`, id)
}

func (s *Store) organizer(ctx context.Context, where string, arg any) (*model.Organizer, error) {
	o := &model.Organizer{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at FROM organizers `+where, arg,
	).Scan(&o.ID, &o.Name, &o.Email, &o.PasswordHash, &o.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return o, nil
}
