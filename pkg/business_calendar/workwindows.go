package business_calendar

import (
	"fmt"
	"time"

	"github.com/klokku/timesheet/pkg/filter"
	"github.com/klokku/timesheet/pkg/settings"
	"github.com/teambition/rrule-go"
)

// PreHolidayShortening is how much earlier a pre-holiday working day ends.
const PreHolidayShortening = time.Hour

type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// WorkingWindows expands the weekly business hours over dateRange in loc.
// Holidays are skipped and pre-holidays end PreHolidayShortening early. Both
// bounds of dateRange are required.
func WorkingWindows(s settings.Settings, dateRange filter.DateRange, loc *time.Location) ([]Window, error) {
	if dateRange.Start.IsZero() || dateRange.End.IsZero() {
		return nil, fmt.Errorf("working windows need a bounded range, got %s", dateRange)
	}
	if dateRange.Empty() {
		return []Window{}, nil
	}
	startOffset, endOffset, err := s.WorkHours.Bounds()
	if err != nil {
		return nil, err
	}

	hours := BusinessHoursFor(s.WorkSchedule, s.WorkHours)
	byWeekday := make([]rrule.Weekday, 0, len(hours.DaysOfWeek))
	for _, d := range hours.DaysOfWeek {
		byWeekday = append(byWeekday, rruleWeekdays[d])
	}

	first := dateRange.Start.In(loc)
	last := dateRange.End.In(loc)
	dtStart := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc).Add(startOffset)
	until := time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 0, loc)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: byWeekday,
		Dtstart:   dtStart,
		Until:     until,
	})
	if err != nil {
		return nil, fmt.Errorf("creating business hours rule: %w", err)
	}

	kinds := make(map[string]settings.HolidayKind, len(s.Holidays))
	for _, h := range s.Holidays {
		kinds[h.Date] = h.Kind
	}

	length := endOffset - startOffset
	windows := make([]Window, 0)
	for _, start := range rule.Between(dtStart, until, true) {
		end := start.Add(length)
		switch kinds[start.Format(settings.DateLayout)] {
		case settings.KindHoliday:
			continue
		case settings.KindPreHoliday:
			if length > PreHolidayShortening {
				end = end.Add(-PreHolidayShortening)
			}
		}
		windows = append(windows, Window{Start: start, End: end})
	}
	return windows, nil
}

// PlannedHours sums the durations of windows.
func PlannedHours(windows []Window) float64 {
	var total time.Duration
	for _, w := range windows {
		total += w.Duration()
	}
	return total.Hours()
}
