package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"rendezvous/internal/apperr"
	"rendezvous/internal/model"
	"rendezvous/internal/store"
)

// at most this many selection queries in flight per view
const selectionLoaders = 8

// EventView loads everything the event page shows. The event is resolved
// first; organizer, options and respondents are then loaded concurrently, with
// one selection query per respondent. Any failed branch fails the whole view.
// viewerID is the organizer id from the session, empty when logged out.
func (s *Service) EventView(ctx context.Context, slug, viewerID string) (*model.EventView, error) {
	ev, err := s.ResolveEvent(ctx, slug)
	if err != nil {
		return nil, err
	}

	var (
		org    *model.Organizer
		count  int
		opts   []model.DateOption
		people []model.Respondent

		mu    sync.Mutex
		picks = make(map[string][]string)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o, err := s.store.OrganizerByID(gctx, ev.OrganizerID)
		if err != nil {
			return fmt.Errorf("load organizer: %w", err)
		}
		org = o
		return nil
	})
	g.Go(func() error {
		n, err := s.store.CountDateOptions(gctx, ev.ID)
		if err != nil {
			return fmt.Errorf("count date options: %w", err)
		}
		count = n
		return nil
	})
	g.Go(func() error {
		o, err := s.store.DateOptionsByEvent(gctx, ev.ID)
		if err != nil {
			return fmt.Errorf("load date options: %w", err)
		}
		opts = o
		return nil
	})
	g.Go(func() error {
		rs, err := s.store.RespondentsByEvent(gctx, ev.ID)
		if err != nil {
			return fmt.Errorf("load respondents: %w", err)
		}
		people = rs

		sg, sctx := errgroup.WithContext(gctx)
		sg.SetLimit(selectionLoaders)
		for _, r := range rs {
			sg.Go(func() error {
				ids, err := s.store.SelectionsByRespondent(sctx, ev.ID, r.ID)
				if err != nil {
					return fmt.Errorf("load selections of %s: %w", r.ID, err)
				}
				mu.Lock()
				picks[r.ID] = ids
				mu.Unlock()
				return nil
			})
		}
		return sg.Wait()
	})
	if err := g.Wait(); err != nil {
		return nil, s.storageErr(ctx, "event view", err)
	}

	view, err := assemble(ev, org, opts, people, picks)
	if err != nil {
		return nil, s.storageErr(ctx, "render event view", err)
	}
	view.OptionCount = count
	view.LoggedIn = viewerID != ""
	view.IsOwner = viewerID != "" && viewerID == ev.OrganizerID
	return view, nil
}

// ResolveEvent finds the event behind a slug.
func (s *Service) ResolveEvent(ctx context.Context, slug string) (*model.Event, error) {
	ev, err := s.store.EventBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "event not found")
	}
	if err != nil {
		return nil, s.storageErr(ctx, "load event", err)
	}
	return ev, nil
}

// assemble pivots respondents' selections into per-option lists. Selections
// are matched by respondent id, and ids outside the event's options are dropped.
func assemble(ev *model.Event, org *model.Organizer, opts []model.DateOption,
	people []model.Respondent, picks map[string][]string) (*model.EventView, error) {

	view := &model.EventView{
		ID:             ev.ID,
		Slug:           ev.Slug,
		Name:           ev.Name,
		Description:    ev.Description,
		OrganizerName:  org.Name,
		OrganizerEmail: org.Email,
		Options:        make([]model.OptionView, 0, len(opts)),
		Respondents:    make([]model.RespondentView, 0, len(people)),
	}

	index := make(map[string]int, len(opts))
	for i, o := range opts {
		start, err := FormatClock(o.StartsAt.Format("15:04"))
		if err != nil {
			return nil, fmt.Errorf("option %s start: %w", o.ID, err)
		}
		end, err := FormatClock(o.EndsAt.Format("15:04"))
		if err != nil {
			return nil, fmt.Errorf("option %s end: %w", o.ID, err)
		}
		view.Options = append(view.Options, model.OptionView{
			ID:            o.ID,
			DayName:       o.Day.Format("Mon"),
			DayNum:        o.Day.Format("02"),
			Month:         o.Day.Format("Jan"),
			Year:          o.Day.Format("2006"),
			Start:         start,
			End:           end,
			RespondentIDs: []string{},
		})
		index[o.ID] = i
	}

	for _, r := range people {
		rv := model.RespondentView{ID: r.ID, Name: r.Name, Email: r.Email, OptionIDs: []string{}}
		for _, oid := range picks[r.ID] {
			i, ok := index[oid]
			if !ok {
				continue
			}
			rv.OptionIDs = append(rv.OptionIDs, oid)
			view.Options[i].Count++
			view.Options[i].RespondentIDs = append(view.Options[i].RespondentIDs, r.ID)
		}
		view.Respondents = append(view.Respondents, rv)
	}
	return view, nil
}
