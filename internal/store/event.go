package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"rendezvous/internal/model"
)

// CreateEvent inserts the event and its date options in one transaction.
func (s *Store) CreateEvent(ctx context.Context, e *model.Event, opts []model.DateOption) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO events (id, name, description, organizer_id, slug)
			 VALUES ($1,$2,$3,$4,$5)`,
			e.ID, e.Name, e.Description, e.OrganizerID, e.Slug,
		)
		if err != nil {
			return translate(err)
		}
		return insertDateOptions(ctx, tx, e.ID, opts)
	})
}

// AddDateOptions attaches more options to an existing event, all or nothing.
func (s *Store) AddDateOptions(ctx context.Context, eventID string, opts []model.DateOption) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		return insertDateOptions(ctx, tx, eventID, opts)
	})
}

func insertDateOptions(ctx context.Context, tx pgx.Tx, eventID string, opts []model.DateOption) error {
	for _, o := range opts {
		_, err := tx.Exec(ctx,
			`INSERT INTO date_options (id, event_id, day, starts_at, ends_at)
			 VALUES ($1,$2,$3,$4,$5)`,
			o.ID, eventID, o.Day, o.StartsAt, o.EndsAt,
		)
		if err != nil {
			return translate(err)
		}
	}
	return nil
}

func (s *Store) EventBySlug(ctx context.Context, slug string) (*model.Event, error) {
	e := &model.Event{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, description, organizer_id, slug, created_at
		 FROM events WHERE slug = $1`, slug,
	).Scan(&e.ID, &e.Name, &e.Description, &e.OrganizerID, &e.Slug, &e.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

func (s *Store) CountDateOptions(ctx context.Context, eventID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM date_options WHERE event_id = $1`, eventID,
	).Scan(&n)
	return n, err
}

func (s *Store) DateOptionsByEvent(ctx context.Context, eventID string) ([]model.DateOption, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, event_id, day, starts_at, ends_at
		 FROM date_options
		 WHERE event_id = $1
		 ORDER BY starts_at, id`, eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DateOption
	for rows.Next() {
		var o model.DateOption
		if err := rows.Scan(&o.ID, &o.EventID, &o.Day, &o.StartsAt, &o.EndsAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
