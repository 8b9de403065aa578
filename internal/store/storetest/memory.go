// Package storetest provides an in-memory stand-in for the PostgreSQL store,
// for tests of the packages built on top of it.
package storetest

import (
	"context"
	"sync"
	"time"

	"rendezvous/internal/model"
	"rendezvous/internal/store"
)

// Memory mirrors the semantics of *store.Store, including its sentinel errors
// and all-or-nothing writes.
type Memory struct {
	mu          sync.Mutex
	organizers  []model.Organizer
	events      []model.Event
	options     []model.DateOption
	respondents []model.Respondent
	selections  map[string][]string // respondent id -> option ids

	// Fail makes the named method return the given error.
	Fail map[string]error
	// Calls counts invocations per method name.
	Calls map[string]int
}

func NewMemory() *Memory {
	return &Memory{
		selections: make(map[string][]string),
		Fail:       make(map[string]error),
		Calls:      make(map[string]int),
	}
}

func (m *Memory) enter(method string) error {
	m.Calls[method]++
	return m.Fail[method]
}

func (m *Memory) CreateOrganizer(_ context.Context, o *model.Organizer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateOrganizer"); err != nil {
		return err
	}
	for _, x := range m.organizers {
		if x.Email == o.Email {
			return store.ErrConflict
		}
	}
	o.CreatedAt = time.Now()
	m.organizers = append(m.organizers, *o)
	return nil
}

func (m *Memory) OrganizerByEmail(_ context.Context, email string) (*model.Organizer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("OrganizerByEmail"); err != nil {
		return nil, err
	}
	for _, x := range m.organizers {
		if x.Email == email {
			return &x, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Memory) OrganizerByID(_ context.Context, id string) (*model.Organizer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("OrganizerByID"); err != nil {
		return nil, err
	}
	for _, x := range m.organizers {
		if x.ID == id {
			return &x, nil
		}
	}
	return nil, store.ErrNotFound
}

// Organizers returns how many organizers are stored.
func (m *Memory) Organizers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.organizers)
}

func (m *Memory) CreateEvent(_ context.Context, e *model.Event, opts []model.DateOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateEvent"); err != nil {
		return err
	}
	for _, x := range m.events {
		if x.Slug == e.Slug {
			return store.ErrConflict
		}
	}
	e.CreatedAt = time.Now()
	m.events = append(m.events, *e)
	m.options = append(m.options, opts...)
	return nil
}

func (m *Memory) AddDateOptions(_ context.Context, eventID string, opts []model.DateOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("AddDateOptions"); err != nil {
		return err
	}
	for _, o := range opts {
		o.EventID = eventID
		m.options = append(m.options, o)
	}
	return nil
}

func (m *Memory) EventBySlug(_ context.Context, slug string) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("EventBySlug"); err != nil {
		return nil, err
	}
	for _, x := range m.events {
		if x.Slug == slug {
			return &x, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Memory) CountDateOptions(_ context.Context, eventID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CountDateOptions"); err != nil {
		return 0, err
	}
	n := 0
	for _, o := range m.options {
		if o.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) DateOptionsByEvent(_ context.Context, eventID string) ([]model.DateOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DateOptionsByEvent"); err != nil {
		return nil, err
	}
	var out []model.DateOption
	for _, o := range m.options {
		if o.EventID == eventID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *Memory) CreateRespondent(_ context.Context, r *model.Respondent, optionIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateRespondent"); err != nil {
		return err
	}
	for _, oid := range optionIDs {
		if !m.optionInEvent(oid, r.EventID) {
			return store.ErrForeignOption
		}
	}
	r.CreatedAt = time.Now()
	m.respondents = append(m.respondents, *r)
	m.selections[r.ID] = append([]string{}, optionIDs...)
	return nil
}

func (m *Memory) optionInEvent(optionID, eventID string) bool {
	for _, o := range m.options {
		if o.ID == optionID && o.EventID == eventID {
			return true
		}
	}
	return false
}

func (m *Memory) RespondentsByEvent(_ context.Context, eventID string) ([]model.Respondent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("RespondentsByEvent"); err != nil {
		return nil, err
	}
	var out []model.Respondent
	for _, r := range m.respondents {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) SelectionsByRespondent(_ context.Context, eventID, respondentID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("SelectionsByRespondent"); err != nil {
		return nil, err
	}
	ids := []string{}
	for _, oid := range m.selections[respondentID] {
		if m.optionInEvent(oid, eventID) {
			ids = append(ids, oid)
		}
	}
	return ids, nil
}

func (m *Memory) DeleteRespondent(_ context.Context, eventID, name, email string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteRespondent"); err != nil {
		return 0, err
	}
	kept := m.respondents[:0:0]
	removed := 0
	for _, r := range m.respondents {
		if r.EventID == eventID && r.Name == name && r.Email == email {
			delete(m.selections, r.ID)
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return 0, store.ErrNotFound
	}
	m.respondents = kept
	return removed, nil
}

// SelectionRows counts selection rows referencing respondentID.
func (m *Memory) SelectionRows(respondentID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.selections[respondentID])
}
