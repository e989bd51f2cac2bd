package app

import (
	"context"
	"fmt"
	"time"

	"github.com/klokku/timesheet/internal/config"
	"github.com/klokku/timesheet/internal/utils"
	"github.com/klokku/timesheet/pkg/business_calendar"
	"github.com/klokku/timesheet/pkg/event_store"
	"github.com/klokku/timesheet/pkg/report"
	"github.com/klokku/timesheet/pkg/session"
	log "github.com/sirupsen/logrus"
)

const (
	appName          = "Timesheet"
	pdfRenderTimeout = 30 * time.Second
)

// terminalView stands in for the calendar widget in command line runs.
type terminalView struct{}

func (terminalView) ApplyOptions(options business_calendar.Options) {
	log.Debugf("Calendar options: business days %v, %s-%s, %d styled dates",
		options.BusinessHours.DaysOfWeek, options.BusinessHours.StartTime, options.BusinessHours.EndTime, len(options.DateStyles))
}

func (terminalView) RefetchEvents() {
	log.Debug("Calendar events refetch requested")
}

// NewSession builds a client session talking to the configured event store.
func NewSession(ctx context.Context, cfg config.Application) (*session.Session, error) {
	store, err := NewSettingsStore(cfg)
	if err != nil {
		return nil, err
	}
	renderer, err := NewRenderer(cfg.Report.Format)
	if err != nil {
		return nil, err
	}

	clock := utils.SystemClock{}
	location := cfg.Location()
	notifier := report.MultiNotifier{report.LogNotifier{}}
	if cfg.Report.Notify {
		notifier = append(notifier, report.NewDesktopNotifier(appName))
	}

	return session.New(ctx, session.Options{
		Store:      store,
		Events:     event_store.NewClient(cfg.EventStore.URL, cfg.EventStore.Timeout, location),
		View:       terminalView{},
		Renderer:   renderer,
		Downloader: report.NewFileDownloader(cfg.Report.OutputDir, cfg.Report.ReleaseDelay, clock),
		Notifier:   notifier,
		Loading:    report.LogIndicator{},
		Report: report.Config{
			RenderRetries: cfg.Report.RenderAttempts,
			RenderDelay:   cfg.Report.RenderDelay,
		},
		Clock:    clock,
		Location: location,
	}), nil
}

func NewRenderer(format string) (report.Renderer, error) {
	switch format {
	case "", "html":
		return report.NewHTMLRenderer(), nil
	case "pdf":
		return report.NewPDFRenderer(pdfRenderTimeout), nil
	default:
		return nil, fmt.Errorf("unknown report format %q, expected html or pdf", format)
	}
}
