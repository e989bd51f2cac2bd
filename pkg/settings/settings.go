package settings

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrInvalidSettings   = errors.New("invalid settings")
	ErrDuplicateHoliday  = errors.New("holiday date already listed")
	ErrEmptyHolidayDate  = errors.New("holiday date is empty")
	ErrInvalidHolidayDay = errors.New("invalid holiday date")
)

// UserMessage returns the text shown to the user for holiday input errors.
func UserMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrDuplicateHoliday):
		return "Этот день уже добавлен", true
	case errors.Is(err, ErrEmptyHolidayDate):
		return "Выберите дату", true
	}
	return "", false
}

type Schedule string

const (
	Schedule52 Schedule = "5/2"
	Schedule61 Schedule = "6/1"
	Schedule70 Schedule = "7/0"
)

func (s Schedule) Valid() bool {
	switch s {
	case Schedule52, Schedule61, Schedule70:
		return true
	}
	return false
}

type HolidayKind string

const (
	KindHoliday    HolidayKind = "holiday"
	KindPreHoliday HolidayKind = "pre-holiday"
)

func (k HolidayKind) Valid() bool {
	return k == KindHoliday || k == KindPreHoliday
}

// Label is the Russian name shown in the holiday list.
func (k HolidayKind) Label() string {
	if k == KindHoliday {
		return "Праздничный"
	}
	return "Предпраздничный"
}

const (
	DateLayout      = time.DateOnly
	TimeOfDayLayout = "15:04"
)

type WorkHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Bounds parses both times of day as offsets from midnight. Only the
// zero-padded HH:MM form is accepted, the calendar compares them as strings.
func (w WorkHours) Bounds() (start time.Duration, end time.Duration, err error) {
	start, ok := parseTimeOfDay(w.Start)
	if !ok {
		return 0, 0, fmt.Errorf("%w: malformed start time %q", ErrInvalidSettings, w.Start)
	}
	end, ok = parseTimeOfDay(w.End)
	if !ok {
		return 0, 0, fmt.Errorf("%w: malformed end time %q", ErrInvalidSettings, w.End)
	}
	return start, end, nil
}

func parseTimeOfDay(value string) (time.Duration, bool) {
	if len(value) != len(TimeOfDayLayout) {
		return 0, false
	}
	t, err := time.Parse(TimeOfDayLayout, value)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

type Holiday struct {
	Date string      `json:"date"`
	Kind HolidayKind `json:"type"`
}

// Day parses Date in loc.
func (h Holiday) Day(loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, h.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidHolidayDay, h.Date)
	}
	return d, nil
}

type Settings struct {
	WorkSchedule Schedule  `json:"workSchedule"`
	WorkHours    WorkHours `json:"workHours"`
	Holidays     []Holiday `json:"holidays"`
}

func Defaults() Settings {
	return Settings{
		WorkSchedule: Schedule52,
		WorkHours:    WorkHours{Start: "09:00", End: "18:00"},
		Holidays:     []Holiday{},
	}
}

// Validate checks the schedule, the work-hours window and the holiday set.
func (s Settings) Validate() error {
	if !s.WorkSchedule.Valid() {
		return fmt.Errorf("%w: unknown work schedule %q", ErrInvalidSettings, s.WorkSchedule)
	}
	start, end, err := s.WorkHours.Bounds()
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("%w: work hours start %s must be before end %s", ErrInvalidSettings, s.WorkHours.Start, s.WorkHours.End)
	}
	seen := make(map[string]bool, len(s.Holidays))
	for _, h := range s.Holidays {
		if h.Date == "" {
			return ErrEmptyHolidayDate
		}
		if _, err := h.Day(time.UTC); err != nil {
			return err
		}
		if !h.Kind.Valid() {
			return fmt.Errorf("%w: unknown holiday type %q", ErrInvalidSettings, h.Kind)
		}
		if seen[h.Date] {
			return fmt.Errorf("%w: %s", ErrDuplicateHoliday, h.Date)
		}
		seen[h.Date] = true
	}
	return nil
}

// Clone returns a copy that shares no slices with s.
func (s Settings) Clone() Settings {
	c := s
	c.Holidays = make([]Holiday, len(s.Holidays))
	copy(c.Holidays, s.Holidays)
	return c
}

// HasHoliday reports whether date is already in the holiday set.
func (s Settings) HasHoliday(date string) bool {
	for _, h := range s.Holidays {
		if h.Date == date {
			return true
		}
	}
	return false
}

// YYYY-MM-DD sorts lexically in date order.
func sortHolidays(holidays []Holiday) {
	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date < holidays[j].Date
	})
}

// withDefaults fills what an older or partial blob left out.
func (s Settings) withDefaults() Settings {
	d := Defaults()
	if s.WorkSchedule == "" {
		s.WorkSchedule = d.WorkSchedule
	}
	if s.WorkHours.Start == "" {
		s.WorkHours.Start = d.WorkHours.Start
	}
	if s.WorkHours.End == "" {
		s.WorkHours.End = d.WorkHours.End
	}
	if s.Holidays == nil {
		s.Holidays = []Holiday{}
	}
	return s
}
