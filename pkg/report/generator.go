package report

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/klokku/timesheet/internal/event_bus"
	"github.com/klokku/timesheet/internal/utils"
	"github.com/klokku/timesheet/pkg/filter"
	log "github.com/sirupsen/logrus"
)

var (
	ErrAlreadyGenerating = errors.New("report generation already in progress")
	ErrUnexpected        = errors.New("unexpected failure during report generation")
)

type StatsRefresher interface {
	RefreshStats(ctx context.Context) error
}

type RangeProvider interface {
	Current() filter.DateRange
}

type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
	// Extension is appended to the report filename, e.g. ".html".
	Extension() string
}

type Downloader interface {
	// Download hands content to the user under filename and returns where it ended up.
	Download(ctx context.Context, filename string, content []byte) (string, error)
}

type Notifier interface {
	NotifyFailure(ctx context.Context, message string, cause error)
}

type LoadingIndicator interface {
	Show(message string)
	Hide()
}

// PlannedHoursFunc returns the scheduled working hours of a range. It is optional.
type PlannedHoursFunc func(dateRange filter.DateRange) (float64, error)

type Dependencies struct {
	Stats        StatsRefresher
	Panel        PanelReader
	Ranges       RangeProvider
	Tasks        TaskFetcher
	Renderer     Renderer
	Downloader   Downloader
	Notifier     Notifier
	Loading      LoadingIndicator
	Clock        utils.Clock
	Location     *time.Location
	Bus          *event_bus.EventBus
	PlannedHours PlannedHoursFunc
	// OnState is called on every state transition.
	OnState func(State)
}

type Config struct {
	RenderRetries int
	RenderDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{RenderRetries: 3, RenderDelay: 500 * time.Millisecond}
}

type Result struct {
	Filename string
	Location string
	Document Document
}

// Generator produces one report at a time. A trigger arriving while a
// generation runs is ignored.
type Generator struct {
	deps    Dependencies
	config  Config
	running atomic.Bool
	state   atomic.Int32
}

func NewGenerator(deps Dependencies, config Config) *Generator {
	if deps.Clock == nil {
		deps.Clock = utils.SystemClock{}
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Loading == nil {
		deps.Loading = NopIndicator{}
	}
	if deps.Notifier == nil {
		deps.Notifier = LogNotifier{}
	}
	return &Generator{deps: deps, config: config}
}

func (g *Generator) State() State {
	return State(g.state.Load())
}

// Generating reports whether a generation currently holds the lock.
func (g *Generator) Generating() bool {
	return g.running.Load()
}

func (g *Generator) Generate(ctx context.Context) (result Result, err error) {
	if !g.running.CompareAndSwap(false, true) {
		log.Debug("Report generation already in progress, trigger ignored")
		return Result{}, ErrAlreadyGenerating
	}
	g.deps.Loading.Show(LoadingMessage)

	// registered first so it runs last, after the failure handling below
	defer func() {
		g.deps.Loading.Hide()
		g.setState(Idle)
		g.running.Store(false)
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
		if err != nil {
			g.setState(Failed)
			log.Errorf("Report generation failed: %v", err)
			g.deps.Notifier.NotifyFailure(ctx, FailureMessage, err)
		}
	}()

	return g.generate(ctx)
}

func (g *Generator) generate(ctx context.Context) (Result, error) {
	g.setState(Generating)

	g.setState(RefreshingStats)
	if err := g.deps.Stats.RefreshStats(ctx); err != nil {
		return Result{}, fmt.Errorf("refreshing statistics: %w", err)
	}

	g.setState(AwaitingRender)
	items, err := WaitForRender(ctx, g.deps.Clock, g.deps.Panel, g.config.RenderRetries, g.config.RenderDelay)
	if err != nil {
		return Result{}, err
	}

	g.setState(FetchingTasks)
	dateRange := g.deps.Ranges.Current()
	now := g.deps.Clock.Now().In(g.deps.Location)
	tasks := FetchTasks(ctx, g.deps.Tasks, dateRange, now)

	g.setState(Rendering)
	doc := BuildDocument(dateRange, items, tasks, now, g.deps.Location)
	if g.deps.PlannedHours != nil {
		planned, err := g.deps.PlannedHours(dateRange)
		if err != nil {
			log.Warnf("Planned hours unavailable for %s: %v", dateRange, err)
		} else {
			doc.PlannedHours = &planned
		}
	}
	content, err := g.deps.Renderer.Render(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("rendering report: %w", err)
	}

	g.setState(Downloading)
	filename := Filename(now, g.deps.Renderer.Extension())
	location, err := g.deps.Downloader.Download(ctx, filename, content)
	if err != nil {
		return Result{}, fmt.Errorf("downloading report: %w", err)
	}
	log.Infof("Report %s generated at %s", filename, location)

	if g.deps.Bus != nil {
		data := event_bus.ReportGeneratedData{Filename: filename, Location: location, GeneratedAt: now}
		if err := g.deps.Bus.Publish(event_bus.NewEvent(ctx, event_bus.ReportGenerated, data)); err != nil {
			log.Warnf("Report generated handlers failed: %v", err)
		}
	}

	return Result{Filename: filename, Location: location, Document: doc}, nil
}

func (g *Generator) setState(s State) {
	g.state.Store(int32(s))
	if g.deps.OnState != nil {
		g.deps.OnState(s)
	}
}
