package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"rendezvous/internal/model"
	"rendezvous/internal/store"
)

func setup(t *testing.T) *store.Store {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := store.Connect(ctx, dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)
	st := store.New(pool)
	if _, err := st.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

func newOrganizer(t *testing.T, st *store.Store) *model.Organizer {
	t.Helper()
	o := &model.Organizer{
		ID:           uuid.New().String(),
		Name:         "Olive",
		Email:        fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8]),
		PasswordHash: "x",
	}
	if err := st.CreateOrganizer(context.Background(), o); err != nil {
		t.Fatalf("create organizer: %v", err)
	}
	return o
}

func option(day string, startHour, endHour int) model.DateOption {
	d, _ := time.Parse("2006-01-02", day)
	return model.DateOption{
		ID:       uuid.New().String(),
		Day:      d,
		StartsAt: d.Add(time.Duration(startHour) * time.Hour),
		EndsAt:   d.Add(time.Duration(endHour) * time.Hour),
	}
}

func newEvent(t *testing.T, st *store.Store, orgID string, opts ...model.DateOption) *model.Event {
	t.Helper()
	e := &model.Event{
		ID:          uuid.New().String(),
		Name:        "Team Sync",
		OrganizerID: orgID,
		Slug:        uuid.New().String()[:12],
	}
	if err := st.CreateEvent(context.Background(), e, opts); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

func TestMigrateIsIdempotent(t *testing.T) {
	st := setup(t)
	applied, err := st.Migrate(context.Background())
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("second run applied %v", applied)
	}
}

func TestOrganizerConflict(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	o := newOrganizer(t, st)

	dup := *o
	dup.ID = uuid.New().String()
	if err := st.CreateOrganizer(ctx, &dup); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	got, err := st.OrganizerByEmail(ctx, o.Email)
	if err != nil {
		t.Fatalf("by email: %v", err)
	}
	if got.ID != o.ID {
		t.Errorf("got organizer %s, want %s", got.ID, o.ID)
	}
	if _, err := st.OrganizerByID(ctx, uuid.New().String()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEventQueries(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	o := newOrganizer(t, st)

	late := option("2024-06-02", 14, 15)
	early := option("2024-06-01", 9, 10)
	e := newEvent(t, st, o.ID, late, early)

	got, err := st.EventBySlug(ctx, e.Slug)
	if err != nil {
		t.Fatalf("by slug: %v", err)
	}
	if got.ID != e.ID || got.OrganizerID != o.ID {
		t.Errorf("unexpected event %+v", got)
	}

	opts, err := st.DateOptionsByEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(opts) != 2 || opts[0].ID != early.ID || opts[1].ID != late.ID {
		t.Fatalf("options not ordered by start: %+v", opts)
	}
	if !opts[0].StartsAt.Equal(early.StartsAt) {
		t.Errorf("start round trip: got %v, want %v", opts[0].StartsAt, early.StartsAt)
	}

	if err := st.AddDateOptions(ctx, e.ID, []model.DateOption{option("2024-06-03", 9, 10)}); err != nil {
		t.Fatalf("add options: %v", err)
	}
	n, err := st.CountDateOptions(ctx, e.ID)
	if err != nil || n != 3 {
		t.Errorf("count: got %d, %v", n, err)
	}

	if _, err := st.EventBySlug(ctx, "missing-slug"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	dup := &model.Event{ID: uuid.New().String(), Name: "x", OrganizerID: o.ID, Slug: e.Slug}
	if err := st.CreateEvent(ctx, dup, nil); !errors.Is(err, store.ErrConflict) {
		t.Errorf("duplicate slug: expected ErrConflict, got %v", err)
	}
}

func TestRespondentSelections(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	o := newOrganizer(t, st)
	a, b := option("2024-06-01", 9, 10), option("2024-06-02", 14, 15)
	e := newEvent(t, st, o.ID, a, b)

	alice := &model.Respondent{ID: uuid.New().String(), Name: "Alice", Email: "alice@example.com", EventID: e.ID}
	if err := st.CreateRespondent(ctx, alice, []string{b.ID}); err != nil {
		t.Fatalf("create respondent: %v", err)
	}
	bob := &model.Respondent{ID: uuid.New().String(), Name: "Bob", Email: "bob@example.com", EventID: e.ID}
	if err := st.CreateRespondent(ctx, bob, nil); err != nil {
		t.Fatalf("create respondent: %v", err)
	}

	rs, err := st.RespondentsByEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("respondents: %v", err)
	}
	if len(rs) != 2 || rs[0].ID != alice.ID || rs[1].ID != bob.ID {
		t.Fatalf("respondents not in insertion order: %+v", rs)
	}

	sel, err := st.SelectionsByRespondent(ctx, e.ID, alice.ID)
	if err != nil {
		t.Fatalf("selections: %v", err)
	}
	if len(sel) != 1 || sel[0] != b.ID {
		t.Errorf("alice selections: got %v, want [%s]", sel, b.ID)
	}
	sel, err = st.SelectionsByRespondent(ctx, e.ID, bob.ID)
	if err != nil || sel == nil || len(sel) != 0 {
		t.Errorf("bob selections: got %#v, %v", sel, err)
	}
}

func TestForeignOptionRollsBack(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	o := newOrganizer(t, st)
	mine := option("2024-06-01", 9, 10)
	theirs := option("2024-06-01", 9, 10)
	e := newEvent(t, st, o.ID, mine)
	newEvent(t, st, o.ID, theirs)

	r := &model.Respondent{ID: uuid.New().String(), Name: "Eve", Email: "eve@example.com", EventID: e.ID}
	err := st.CreateRespondent(ctx, r, []string{mine.ID, theirs.ID})
	if !errors.Is(err, store.ErrForeignOption) {
		t.Fatalf("expected ErrForeignOption, got %v", err)
	}

	rs, err := st.RespondentsByEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("respondents: %v", err)
	}
	if len(rs) != 0 {
		t.Errorf("respondent should have been rolled back, found %d", len(rs))
	}
	if n, _ := st.CountSelections(ctx, r.ID); n != 0 {
		t.Errorf("selections should have been rolled back, found %d", n)
	}
}

func TestDeleteRespondent(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	o := newOrganizer(t, st)
	a, b := option("2024-06-01", 9, 10), option("2024-06-02", 14, 15)
	e := newEvent(t, st, o.ID, a, b)

	var ids []string
	for range 2 {
		r := &model.Respondent{ID: uuid.New().String(), Name: "Alice", Email: "alice@example.com", EventID: e.ID}
		if err := st.CreateRespondent(ctx, r, []string{a.ID, b.ID}); err != nil {
			t.Fatalf("create respondent: %v", err)
		}
		ids = append(ids, r.ID)
	}
	keep := &model.Respondent{ID: uuid.New().String(), Name: "Bob", Email: "bob@example.com", EventID: e.ID}
	if err := st.CreateRespondent(ctx, keep, []string{a.ID}); err != nil {
		t.Fatalf("create respondent: %v", err)
	}

	removed, err := st.DeleteRespondent(ctx, e.ID, "Alice", "alice@example.com")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed %d respondents, want 2", removed)
	}
	for _, id := range ids {
		if n, _ := st.CountSelections(ctx, id); n != 0 {
			t.Errorf("orphan selections for %s: %d", id, n)
		}
	}
	if n, _ := st.CountSelections(ctx, keep.ID); n != 1 {
		t.Errorf("bob's selection should survive, got %d", n)
	}

	if _, err := st.DeleteRespondent(ctx, e.ID, "Alice", "alice@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}
