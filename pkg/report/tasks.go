package report

import (
	"context"
	"time"

	"github.com/klokku/timesheet/pkg/event"
	"github.com/klokku/timesheet/pkg/filter"
	log "github.com/sirupsen/logrus"
)

const (
	SentinelTitle       = "Реальная задача не загрузилась"
	SentinelDescription = "Проверьте подключение к API"
)

type TaskFetcher interface {
	GetEvents(ctx context.Context, dateRange filter.DateRange) ([]event.Event, error)
}

// Task is a row of the report detail table. Sentinel marks the placeholder
// used when the real tasks could not be loaded.
type Task struct {
	event.Event
	Sentinel bool
}

func SentinelTask(now time.Time) Task {
	return Task{
		Event: event.Event{
			Title:       SentinelTitle,
			Description: SentinelDescription,
			StartTime:   now,
			EndTime:     now.Add(time.Hour),
			Category:    event.CategoryTask,
		},
		Sentinel: true,
	}
}

// FetchTasks loads the tasks of dateRange. A failed fetch yields a single
// sentinel task instead of an error so that the report is still produced.
func FetchTasks(ctx context.Context, fetcher TaskFetcher, dateRange filter.DateRange, now time.Time) []Task {
	events, err := fetcher.GetEvents(ctx, dateRange)
	if err != nil {
		log.Warnf("Failed to load tasks for %s, report will contain a placeholder: %v", dateRange, err)
		return []Task{SentinelTask(now)}
	}

	tasks := make([]Task, 0, len(events))
	for _, e := range events {
		tasks = append(tasks, Task{Event: e})
	}
	return tasks
}
