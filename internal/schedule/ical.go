package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"golang.org/x/sync/errgroup"

	"rendezvous/internal/model"
)

const productID = "-//rendezvous//EN"

// date options are wall-clock times with no zone, so they are written as
// floating DATE-TIME values
const floatingLayout = "20060102T150405"

// Calendar exports every date option of an event as a VEVENT so invitees can
// pencil the candidates into their own calendar.
func (s *Service) Calendar(ctx context.Context, slug string) (*ical.Calendar, error) {
	ev, err := s.ResolveEvent(ctx, slug)
	if err != nil {
		return nil, err
	}

	var (
		org  *model.Organizer
		opts []model.DateOption
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
		o, err := s.store.DateOptionsByEvent(gctx, ev.ID)
		if err != nil {
			return fmt.Errorf("load date options: %w", err)
		}
		opts = o
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, s.storageErr(ctx, "calendar export", err)
	}

	stamp := ev.CreatedAt.UTC()
	if stamp.IsZero() {
		stamp = time.Now().UTC()
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	for _, o := range opts {
		cal.Children = append(cal.Children, optionEvent(ev, org, o, stamp))
	}
	return cal, nil
}

func optionEvent(ev *model.Event, org *model.Organizer, o model.DateOption, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, o.ID+"@rendezvous")
	ve.Props.SetText(ical.PropSummary, ev.Name)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ve.Props.Set(floating(ical.PropDateTimeStart, o.StartsAt))
	ve.Props.Set(floating(ical.PropDateTimeEnd, o.EndsAt))
	ve.Props.SetText(ical.PropStatus, "TENTATIVE")

	if ev.Description != "" {
		ve.Props.SetText(ical.PropDescription, ev.Description)
	}
	if org.Email != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.SetValueType(ical.ValueCalendarAddress)
		p.Value = "mailto:" + org.Email
		if org.Name != "" {
			p.Params.Set(ical.ParamCommonName, org.Name)
		}
		ve.Props.Add(p)
	}
	return ve
}

func floating(name string, t time.Time) *ical.Prop {
	p := ical.NewProp(name)
	p.SetValueType(ical.ValueDateTime)
	p.Value = t.Format(floatingLayout)
	return p
}
