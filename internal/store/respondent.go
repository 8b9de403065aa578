package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"rendezvous/internal/model"
)

// CreateRespondent inserts the respondent and then one selection per option id,
// in one transaction. Option ids outside the respondent's event fail with
// ErrForeignOption and nothing is kept.
func (s *Store) CreateRespondent(ctx context.Context, r *model.Respondent, optionIDs []string) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO respondents (id, name, email, event_id) VALUES ($1,$2,$3,$4)`,
			r.ID, r.Name, r.Email, r.EventID,
		)
		if err != nil {
			return translate(err)
		}

		for _, oid := range optionIDs {
			tag, err := tx.Exec(ctx,
				`INSERT INTO selections (respondent_id, date_option_id)
				 SELECT $1, id FROM date_options WHERE id = $2 AND event_id = $3`,
				r.ID, oid, r.EventID,
			)
			if err != nil {
				return translate(err)
			}
			if tag.RowsAffected() != 1 {
				return ErrForeignOption
			}
		}
		return nil
	})
}

func (s *Store) RespondentsByEvent(ctx context.Context, eventID string) ([]model.Respondent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, event_id, created_at
		 FROM respondents
		 WHERE event_id = $1
		 ORDER BY created_at, id`, eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Respondent
	for rows.Next() {
		var r model.Respondent
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.EventID, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SelectionsByRespondent returns the option ids one respondent picked,
// restricted to options of the given event.
func (s *Store) SelectionsByRespondent(ctx context.Context, eventID, respondentID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT s.date_option_id
		 FROM selections s
		 JOIN date_options d ON d.id = s.date_option_id
		 WHERE s.respondent_id = $1 AND d.event_id = $2
		 ORDER BY d.starts_at, d.id`, respondentID, eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteRespondent removes every respondent of the event matching name and
// email, selections first. Returns ErrNotFound when nobody matched.
func (s *Store) DeleteRespondent(ctx context.Context, eventID, name, email string) (int, error) {
	var removed int
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT id FROM respondents
			 WHERE event_id = $1 AND name = $2 AND email = $3
			 FOR UPDATE`, eventID, name, email,
		)
		if err != nil {
			return err
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrNotFound
		}

		var selected int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM selections WHERE respondent_id = ANY($1)`, ids,
		).Scan(&selected); err != nil {
			return err
		}
		if selected > 0 {
			if _, err := tx.Exec(ctx,
				`DELETE FROM selections WHERE respondent_id = ANY($1)`, ids,
			); err != nil {
				return err
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM respondents WHERE id = ANY($1)`, ids)
		if err != nil {
			return err
		}
		removed = int(tag.RowsAffected())
		return nil
	})
	return removed, err
}

// CountSelections counts selection rows still referencing a respondent id.
func (s *Store) CountSelections(ctx context.Context, respondentID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM selections WHERE respondent_id = $1`, respondentID,
	).Scan(&n)
	return n, err
}
