package schedule

import (
	"fmt"
	"strings"
	"time"

	"rendezvous/internal/apperr"
)

const dayLayout = "2006-01-02"

// DateOptionInput is one validated candidate slot before it gets an id.
type DateOptionInput struct {
	Day      time.Time
	StartsAt time.Time
	EndsAt   time.Time
}

// ParseDateOptions turns the parallel day/start/end form values into a list of
// one or more slots. A form with a single option and one with several arrive
// the same way, as slices of equal length.
func ParseDateOptions(days, starts, ends []string) ([]DateOptionInput, error) {
	if len(days) == 0 {
		return nil, apperr.New(apperr.ValidationFailed, "at least one date option is required")
	}
	if len(starts) != len(days) || len(ends) != len(days) {
		return nil, apperr.New(apperr.ValidationFailed, "every date needs a start and an end time")
	}

	out := make([]DateOptionInput, 0, len(days))
	for i := range days {
		in, err := parseDateOption(strings.TrimSpace(days[i]), strings.TrimSpace(starts[i]), strings.TrimSpace(ends[i]))
		if err != nil {
			return nil, apperr.Wrap(apperr.ValidationFailed, fmt.Sprintf("date option %d is invalid", i+1), err)
		}
		out = append(out, in)
	}
	return out, nil
}

func parseDateOption(day, start, end string) (DateOptionInput, error) {
	d, err := time.Parse(dayLayout, day)
	if err != nil {
		return DateOptionInput{}, fmt.Errorf("day %q: %w", day, err)
	}
	sh, sm, err := parseClock(start)
	if err != nil {
		return DateOptionInput{}, err
	}
	eh, em, err := parseClock(end)
	if err != nil {
		return DateOptionInput{}, err
	}
	in := DateOptionInput{Day: d, StartsAt: at(d, sh, sm), EndsAt: at(d, eh, em)}
	if !in.EndsAt.After(in.StartsAt) {
		return DateOptionInput{}, fmt.Errorf("end %s must be after start %s", end, start)
	}
	return in, nil
}
