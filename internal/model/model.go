package model

import "time"

type Organizer struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Event struct {
	ID          string
	Name        string
	Description string
	OrganizerID string
	Slug        string
	CreatedAt   time.Time
}

// DateOption is one candidate slot. Day carries the calendar date at midnight UTC.
type DateOption struct {
	ID       string
	EventID  string
	Day      time.Time
	StartsAt time.Time
	EndsAt   time.Time
}

type Respondent struct {
	ID        string
	Name      string
	Email     string
	EventID   string
	CreatedAt time.Time
}

// EventView is the assembled read model for one event page.
type EventView struct {
	ID             string           `json:"id"`
	Slug           string           `json:"slug"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	OrganizerName  string           `json:"organizerName"`
	OrganizerEmail string           `json:"organizerEmail"`
	OptionCount    int              `json:"optionCount"`
	Options        []OptionView     `json:"options"`
	Respondents    []RespondentView `json:"respondents"`
	IsOwner        bool             `json:"isOwner"`
	LoggedIn       bool             `json:"loggedIn"`
}

// Columns is the width of the availability grid: the name column plus one per option.
func (v EventView) Columns() int {
	return len(v.Options) + 1
}

type OptionView struct {
	ID            string   `json:"id"`
	DayName       string   `json:"dayName"`
	DayNum        string   `json:"dayNum"`
	Month         string   `json:"month"`
	Year          string   `json:"year"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	Count         int      `json:"count"`
	RespondentIDs []string `json:"respondentIds"`
}

type RespondentView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	OptionIDs []string `json:"optionIds"`
}

// Selected reports whether the respondent picked the given option.
func (r RespondentView) Selected(optionID string) bool {
	for _, id := range r.OptionIDs {
		if id == optionID {
			return true
		}
	}
	return false
}
