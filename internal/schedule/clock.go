package schedule

import (
	"fmt"
	"time"
)

// FormatClock renders a 24-hour "HH:MM" value on a 12-hour clock with a
// two-digit hour: 00:00 is 12:00am, 12:00 is 12:00pm, 13:05 is 01:05pm.
func FormatClock(hhmm string) (string, error) {
	h, m, err := parseClock(hhmm)
	if err != nil {
		return "", err
	}
	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d%s", h, m, suffix), nil
}

func parseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("malformed time %q", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, fmt.Errorf("malformed time %q", s)
		}
	}
	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	minute = int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("time out of range %q", s)
	}
	return hour, minute, nil
}

// at returns day's date with the clock time applied, in UTC.
func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}
