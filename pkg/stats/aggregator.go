package stats

import (
	"context"
	"sort"
	"time"

	"github.com/klokku/timesheet/pkg/event"
	"github.com/klokku/timesheet/pkg/filter"
	log "github.com/sirupsen/logrus"
)

type EventFetcher interface {
	GetEvents(ctx context.Context, dateRange filter.DateRange) ([]event.Event, error)
}

type EventFetcherFunc func(ctx context.Context, dateRange filter.DateRange) ([]event.Event, error)

func (f EventFetcherFunc) GetEvents(ctx context.Context, dateRange filter.DateRange) ([]event.Event, error) {
	return f(ctx, dateRange)
}

// ServiceFetcher reads events straight from the event service.
type ServiceFetcher struct {
	Service event.EventService
}

func (f ServiceFetcher) GetEvents(ctx context.Context, dateRange filter.DateRange) ([]event.Event, error) {
	from, to := dateRange.Bounds()
	return f.Service.GetEvents(ctx, from, to)
}

// Aggregate fetches the events of dateRange and buckets their duration by
// category. It never fails: when the fetch does, every category is reported
// at zero hours.
func Aggregate(ctx context.Context, dateRange filter.DateRange, fetcher EventFetcher) []CategoryStat {
	events, err := fetcher.GetEvents(ctx, dateRange)
	if err != nil {
		log.Warnf("Failed to fetch events for %s, showing empty statistics: %v", dateRange, err)
		return ZeroStats()
	}
	return Summarize(events)
}

// Summarize buckets events by category in display order. Unknown or missing
// categories count as task. Durations are summed exactly and rounded once.
func Summarize(events []event.Event) []CategoryStat {
	durations := make(map[event.Category]time.Duration, len(event.Categories))
	for _, e := range events {
		durations[e.Category.OrDefault()] += e.Duration()
	}

	stats := make([]CategoryStat, 0, len(event.Categories))
	for _, c := range event.Categories {
		stats = append(stats, CategoryStat{
			Category: c,
			Hours:    RoundHours(durations[c].Hours()),
			Label:    c.Label(),
		})
	}
	return stats
}

// SummarizeByDay adds a per-day breakdown. Events are attributed to the day
// they start on in loc.
func SummarizeByDay(dateRange filter.DateRange, events []event.Event, loc *time.Location) StatsSummary {
	byDay := make(map[time.Time][]event.Event)
	for _, e := range events {
		start := e.StartTime.In(loc)
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		byDay[day] = append(byDay[day], e)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	summary := StatsSummary{
		StartDate:  dateRange.Start,
		EndDate:    dateRange.End,
		Categories: Summarize(events),
		Days:       make([]DailyStats, 0, len(days)),
	}
	summary.TotalHours = TotalHours(summary.Categories)
	for _, day := range days {
		categories := Summarize(byDay[day])
		summary.Days = append(summary.Days, DailyStats{
			Date:       day,
			Categories: categories,
			TotalHours: TotalHours(categories),
		})
	}
	return summary
}
