package business_calendar

import (
	"fmt"
	"time"

	"github.com/klokku/timesheet/pkg/settings"
)

const (
	HolidayBackground    = "#f8f9fa"
	PreHolidayBackground = "#fafafa"
)

type BusinessHours struct {
	DaysOfWeek []time.Weekday `json:"daysOfWeek"`
	StartTime  string         `json:"startTime"`
	EndTime    string         `json:"endTime"`
}

type DateStyle struct {
	Kind            settings.HolidayKind `json:"kind"`
	BackgroundColor string               `json:"backgroundColor"`
}

// View is everything the calendar needs to draw the personal business calendar.
type View struct {
	WeekendDays        []time.Weekday       `json:"weekendDays"`
	BusinessHours      BusinessHours        `json:"businessHours"`
	DateStyleOverrides map[string]DateStyle `json:"dateStyles"`
}

// Derive is a pure function of s; equal settings give equal views.
func Derive(s settings.Settings) View {
	return View{
		WeekendDays:        WeekendDays(s.WorkSchedule),
		BusinessHours:      BusinessHoursFor(s.WorkSchedule, s.WorkHours),
		DateStyleOverrides: DateStyleOverrides(s.Holidays),
	}
}

// WeekendDays: 5/2 rests on Saturday and Sunday, 6/1 on Sunday, anything else
// has no weekend.
func WeekendDays(schedule settings.Schedule) []time.Weekday {
	switch schedule {
	case settings.Schedule52:
		return []time.Weekday{time.Sunday, time.Saturday}
	case settings.Schedule61:
		return []time.Weekday{time.Sunday}
	default:
		return []time.Weekday{}
	}
}

// BusinessHoursFor copies the work-hours window verbatim. Unknown schedules
// fall back to Monday to Friday.
func BusinessHoursFor(schedule settings.Schedule, hours settings.WorkHours) BusinessHours {
	var days []time.Weekday
	switch schedule {
	case settings.Schedule70:
		days = []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
	case settings.Schedule61:
		days = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
	default:
		days = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	}
	return BusinessHours{DaysOfWeek: days, StartTime: hours.Start, EndTime: hours.End}
}

// DateStyleOverrides has one entry per holiday, keyed by YYYY-MM-DD.
func DateStyleOverrides(holidays []settings.Holiday) map[string]DateStyle {
	overrides := make(map[string]DateStyle, len(holidays))
	for _, h := range holidays {
		color := PreHolidayBackground
		if h.Kind == settings.KindHoliday {
			color = HolidayBackground
		}
		overrides[h.Date] = DateStyle{Kind: h.Kind, BackgroundColor: color}
	}
	return overrides
}

// Options is the payload handed to the calendar widget.
type Options struct {
	// Weekends keeps weekend columns visible; they are shaded by businessHours.
	Weekends      bool                 `json:"weekends"`
	WeekendDays   []int                `json:"weekendDays"`
	BusinessHours businessHoursOption  `json:"businessHours"`
	DateStyles    map[string]DateStyle `json:"dateStyles"`
	ScrollTime    string               `json:"scrollTime"`
}

type businessHoursOption struct {
	DaysOfWeek []int  `json:"daysOfWeek"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

func (v View) Options() Options {
	return Options{
		Weekends:    true,
		WeekendDays: weekdayIndices(v.WeekendDays),
		BusinessHours: businessHoursOption{
			DaysOfWeek: weekdayIndices(v.BusinessHours.DaysOfWeek),
			StartTime:  v.BusinessHours.StartTime,
			EndTime:    v.BusinessHours.EndTime,
		},
		DateStyles: v.DateStyleOverrides,
		ScrollTime: ScrollTime(v.BusinessHours.StartTime),
	}
}

// ScrollTime is two hours before the start of the working day, not earlier
// than midnight.
func ScrollTime(start string) string {
	t, err := time.Parse(settings.TimeOfDayLayout, start)
	if err != nil {
		return "00:00:00"
	}
	h := t.Hour() - 2
	if h < 0 {
		return fmt.Sprintf("00:%02d:00", t.Minute())
	}
	return fmt.Sprintf("%02d:%02d:00", h, t.Minute())
}

func weekdayIndices(days []time.Weekday) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		out = append(out, int(d))
	}
	return out
}
