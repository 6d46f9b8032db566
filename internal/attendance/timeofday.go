package attendance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// 6:45pm, 6:45:30pm
	timeColonAMPM = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(am|pm)$`)
	// 10am, 7pm
	timeAMPM = regexp.MustCompile(`^(\d{1,2})\s*(am|pm)$`)
	// 19:00, 10:15:00
	time24h = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	// 19.00
	timeDot24h = regexp.MustCompile(`^(\d{1,2})\.(\d{2})$`)
)

// TimeOfDay is a wall-clock reading with second precision, independent of any date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// NewTimeOfDay builds a TimeOfDay, panicking on out-of-range fields.
// Intended for constants; use ParseTimeOfDay for user input.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	t := TimeOfDay{Hour: hour, Minute: minute, Second: second}
	if err := t.validate(); err != nil {
		panic(err)
	}
	return t
}

// ClockOf returns the time-of-day of t in t's location, truncated to the second.
func ClockOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// Offset returns the duration since midnight.
func (t TimeOfDay) Offset() time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second
}

// On returns the instant of t on the given date in loc.
func (t TimeOfDay) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, t.Second, 0, loc)
}

// Before reports whether t is strictly earlier than u.
func (t TimeOfDay) Before(u TimeOfDay) bool { return t.Offset() < u.Offset() }

// String formats t as HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (t TimeOfDay) validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("hour %d out of range", t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("minute %d out of range", t.Minute)
	}
	if t.Second < 0 || t.Second > 59 {
		return fmt.Errorf("second %d out of range", t.Second)
	}
	return nil
}

// sinceMidnight returns the full-precision time-of-day of t in its location.
func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

// ParseTimeOfDay parses a time string into a TimeOfDay.
// Supported formats: "10:15", "10:15:00", "19.00", "7pm", "6:45pm", "6:45:30pm".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if m := timeColonAMPM.FindStringSubmatch(s); m != nil {
		return parseAMPM(m[1], m[2], m[3], m[4])
	}

	if m := timeAMPM.FindStringSubmatch(s); m != nil {
		return parseAMPM(m[1], "0", "", m[2])
	}

	if m := time24h.FindStringSubmatch(s); m != nil {
		return parse24(m[1], m[2], m[3])
	}

	if m := timeDot24h.FindStringSubmatch(s); m != nil {
		return parse24(m[1], m[2], "")
	}

	return TimeOfDay{}, fmt.Errorf("unrecognized time format %q", s)
}

func parseAMPM(hourStr, minStr, secStr, ampm string) (TimeOfDay, error) {
	t, err := atoiFields(hourStr, minStr, secStr)
	if err != nil {
		return TimeOfDay{}, err
	}
	if t.Hour < 1 || t.Hour > 12 {
		return TimeOfDay{}, fmt.Errorf("hour %d out of range for 12-hour format", t.Hour)
	}

	if ampm == "am" {
		if t.Hour == 12 {
			t.Hour = 0
		}
	} else if t.Hour != 12 {
		t.Hour += 12
	}

	return t, t.validate()
}

func parse24(hourStr, minStr, secStr string) (TimeOfDay, error) {
	t, err := atoiFields(hourStr, minStr, secStr)
	if err != nil {
		return TimeOfDay{}, err
	}
	if err := t.validate(); err != nil {
		return TimeOfDay{}, err
	}
	return t, nil
}

func atoiFields(hourStr, minStr, secStr string) (TimeOfDay, error) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return TimeOfDay{}, err
	}
	minute, err := strconv.Atoi(minStr)
	if err != nil {
		return TimeOfDay{}, err
	}
	second := 0
	if secStr != "" {
		second, err = strconv.Atoi(secStr)
		if err != nil {
			return TimeOfDay{}, err
		}
	}
	return TimeOfDay{Hour: hour, Minute: minute, Second: second}, nil
}
