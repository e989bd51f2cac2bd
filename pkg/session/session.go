package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/klokku/timesheet/internal/event_bus"
	"github.com/klokku/timesheet/internal/utils"
	"github.com/klokku/timesheet/pkg/business_calendar"
	"github.com/klokku/timesheet/pkg/event"
	"github.com/klokku/timesheet/pkg/event_store"
	"github.com/klokku/timesheet/pkg/filter"
	"github.com/klokku/timesheet/pkg/report"
	"github.com/klokku/timesheet/pkg/settings"
	"github.com/klokku/timesheet/pkg/stats"
	"github.com/klokku/timesheet/pkg/stats_panel"
	log "github.com/sirupsen/logrus"
)

// CalendarView is the calendar widget fed by the session.
type CalendarView interface {
	ApplyOptions(options business_calendar.Options)
	RefetchEvents()
}

type Options struct {
	Store      settings.Store
	Events     event_store.Client
	View       CalendarView
	Renderer   report.Renderer
	Downloader report.Downloader
	Notifier   report.Notifier
	Loading    report.LoadingIndicator
	Report     report.Config
	Clock      utils.Clock
	Location   *time.Location
	Bus        *event_bus.EventBus
	// PanelDelay is how long the statistics panel takes to show a refresh.
	PanelDelay time.Duration
}

// Session owns the state of one user session: settings, active filters, the
// statistics panel and the report generator.
type Session struct {
	settings    *settings.Controller
	filters     *filter.Controller
	panel       *stats_panel.Panel
	generator   *report.Generator
	events      event_store.Client
	view        CalendarView
	bus         *event_bus.EventBus
	clock       utils.Clock
	location    *time.Location
	unsubscribe func()
	closeOnce   sync.Once
}

func New(ctx context.Context, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = utils.SystemClock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Bus == nil {
		opts.Bus = event_bus.NewEventBus()
	}

	s := &Session{
		settings: settings.NewController(ctx, opts.Store, opts.Bus),
		filters:  filter.NewController(opts.Location),
		panel:    stats_panel.NewPanel(opts.PanelDelay),
		events:   opts.Events,
		view:     opts.View,
		bus:      opts.Bus,
		clock:    opts.Clock,
		location: opts.Location,
	}
	s.filters.Reset(opts.Clock.Now())

	s.generator = report.NewGenerator(report.Dependencies{
		Stats:        s,
		Panel:        s.panel,
		Ranges:       s.filters,
		Tasks:        opts.Events,
		Renderer:     opts.Renderer,
		Downloader:   opts.Downloader,
		Notifier:     opts.Notifier,
		Loading:      opts.Loading,
		Clock:        opts.Clock,
		Location:     opts.Location,
		Bus:          opts.Bus,
		PlannedHours: s.plannedHours,
	}, opts.Report)

	s.unsubscribe = event_bus.SubscribeTyped(opts.Bus, event_bus.SettingsCommitted, s.onSettingsCommitted)
	if s.view != nil {
		s.view.ApplyOptions(s.CalendarView().Options())
	}
	return s
}

func (s *Session) Settings() *settings.Controller { return s.settings }
func (s *Session) Filters() *filter.Controller    { return s.filters }
func (s *Session) Panel() *stats_panel.Panel      { return s.panel }
func (s *Session) Generator() *report.Generator   { return s.generator }
func (s *Session) Events() event_store.Client     { return s.events }

// Close detaches the session from the bus and waits for pending panel renders.
// Close detaches the session from the bus and waits for pending panel
// renders. Later calls are no-ops.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		s.panel.Wait()
	})
}

// RefreshStats aggregates the active range and renders it into the panel.
// Aggregation failures show up as zero hours, never as an error.
func (s *Session) RefreshStats(ctx context.Context) error {
	dateRange := s.filters.Current()
	categoryStats := stats.Aggregate(ctx, dateRange, s.events)
	s.panel.Render(categoryStats)

	data := event_bus.StatsRefreshedData{Start: dateRange.Start, End: dateRange.End, TotalHours: stats.TotalHours(categoryStats)}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.StatsRefreshed, data)); err != nil {
		log.Warnf("Stats refreshed handlers failed: %v", err)
	}
	return nil
}

func (s *Session) ApplyFilters(ctx context.Context, startInput, endInput string) (filter.DateRange, error) {
	dateRange, err := s.filters.Apply(startInput, endInput)
	if err != nil {
		return filter.DateRange{}, err
	}
	return dateRange, s.RefreshStats(ctx)
}

// ResetFilters restores the current calendar month.
func (s *Session) ResetFilters(ctx context.Context) (filter.DateRange, error) {
	dateRange := s.filters.Reset(s.clock.Now())
	return dateRange, s.RefreshStats(ctx)
}

func (s *Session) DownloadReport(ctx context.Context) (report.Result, error) {
	return s.generator.Generate(ctx)
}

func (s *Session) CalendarView() business_calendar.View {
	return business_calendar.Derive(s.settings.Current())
}

// OpenEvent prepares a draft handed over by a date or event click for editing.
func (s *Session) OpenEvent(draft event.Event) event.Event {
	if draft.EndTime.IsZero() || draft.EndTime.Before(draft.StartTime) {
		draft.EndTime = draft.StartTime.Add(time.Hour)
	}
	if !draft.Category.Valid() {
		draft.Category = event.CategoryTask
	}
	return draft
}

// SaveEvent creates drafts without id and updates the rest, then refreshes
// the calendar and the statistics.
func (s *Session) SaveEvent(ctx context.Context, e event.Event) (event.Event, error) {
	e = s.OpenEvent(e)
	var (
		saved event.Event
		err   error
	)
	if e.Id == "" {
		saved, err = s.events.CreateEvent(ctx, e)
	} else {
		saved, err = s.events.UpdateEvent(ctx, e)
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("saving event: %w", err)
	}
	s.afterEventChange(ctx)
	return saved, nil
}

func (s *Session) DeleteEvent(ctx context.Context, id string) error {
	if err := s.events.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	s.afterEventChange(ctx)
	return nil
}

func (s *Session) afterEventChange(ctx context.Context) {
	if s.view != nil {
		s.view.RefetchEvents()
	}
	if err := s.RefreshStats(ctx); err != nil {
		log.Warnf("Failed to refresh statistics: %v", err)
	}
}

func (s *Session) onSettingsCommitted(e event_bus.EventT[settings.Settings]) error {
	if s.view == nil {
		return nil
	}
	s.view.ApplyOptions(business_calendar.Derive(e.Data).Options())
	s.view.RefetchEvents()
	return nil
}

func (s *Session) plannedHours(dateRange filter.DateRange) (float64, error) {
	windows, err := business_calendar.WorkingWindows(s.settings.Current(), dateRange, s.location)
	if err != nil {
		return 0, err
	}
	return business_calendar.PlannedHours(windows), nil
}
