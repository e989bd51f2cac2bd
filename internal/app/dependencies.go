package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/timesheet/internal/config"
	"github.com/klokku/timesheet/internal/event_bus"
	"github.com/klokku/timesheet/internal/utils"
	"github.com/klokku/timesheet/pkg/business_calendar"
	"github.com/klokku/timesheet/pkg/event"
	"github.com/klokku/timesheet/pkg/settings"
	"github.com/klokku/timesheet/pkg/stats"
	log "github.com/sirupsen/logrus"
	"github.com/xlab/closer"
)

// Dependencies holds all services and handlers of the event store server.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock
	Location *time.Location

	EventRepo    event.EventRepository
	EventService event.EventService
	EventHandler *event.EventHandler

	SettingsStore      settings.Store
	SettingsController *settings.Controller
	SettingsHandler    *settings.Handler

	CalendarHandler *business_calendar.Handler

	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler
}

// BuildDependencies initializes and wires all server services and handlers.
func BuildDependencies(ctx context.Context, db *pgxpool.Pool, store settings.Store, cfg config.Application) *Dependencies {
	return buildDependencies(ctx, event.NewEventRepo(db), store, cfg)
}

func buildDependencies(ctx context.Context, repo event.EventRepository, store settings.Store, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = utils.SystemClock{}
	deps.Location = cfg.Location()

	deps.EventRepo = repo
	deps.EventService = event.NewEventService(deps.EventRepo)
	deps.EventHandler = event.NewEventHandler(deps.EventService, deps.Location)

	deps.SettingsStore = store
	deps.SettingsController = settings.NewController(ctx, store, deps.EventBus)
	deps.SettingsHandler = settings.NewHandler(deps.SettingsController)

	deps.CalendarHandler = business_calendar.NewHandler(deps.SettingsController, deps.Clock, deps.Location)

	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(stats.ServiceFetcher{Service: deps.EventService}, deps.CsvStatsRenderer, deps.Location)

	event_bus.SubscribeTyped(deps.EventBus, event_bus.SettingsCommitted, func(e event_bus.EventT[settings.Settings]) error {
		log.Infof("Settings committed: schedule %s, hours %s-%s, %d holidays",
			e.Data.WorkSchedule, e.Data.WorkHours.Start, e.Data.WorkHours.End, len(e.Data.Holidays))
		return nil
	})

	return deps
}

// NewSettingsStore opens the configured settings store. A redis pool is
// closed on shutdown.
func NewSettingsStore(cfg config.Application) (settings.Store, error) {
	switch cfg.Settings.Store {
	case "", "file":
		return settings.NewFileStore(cfg.Settings.Path, cfg.Settings.Key), nil
	case "redis":
		pool := settings.NewRedisPool(cfg.Redis.Address)
		closer.Bind(func() {
			if err := pool.Close(); err != nil {
				log.Errorf("Failed closing redis pool: %v", err)
			}
		})
		return settings.NewRedisStore(pool, cfg.Settings.Key), nil
	default:
		return nil, fmt.Errorf("unknown settings store %q, expected file or redis", cfg.Settings.Store)
	}
}
