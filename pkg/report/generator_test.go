package report

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klokku/timesheet/internal/event_bus"
	"github.com/klokku/timesheet/internal/utils"
	"github.com/klokku/timesheet/pkg/event"
	"github.com/klokku/timesheet/pkg/event_store"
	"github.com/klokku/timesheet/pkg/filter"
	"github.com/klokku/timesheet/pkg/stats_panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var location, _ = time.LoadLocation("Europe/Moscow")

type refresherStub struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
}

func (r *refresherStub) RefreshStats(ctx context.Context) error {
	r.calls.Add(1)
	if r.release != nil {
		<-r.release
	}
	return r.err
}

type panelStub struct {
	mu    sync.Mutex
	items []stats_panel.Item
}

func (p *panelStub) Displayed() ([]stats_panel.Item, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items, p.items != nil
}

func (p *panelStub) set(items []stats_panel.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = items
}

type rangeStub struct {
	dateRange filter.DateRange
}

func (r rangeStub) Current() filter.DateRange {
	return r.dateRange
}

type downloaderStub struct {
	mu        sync.Mutex
	filenames []string
	contents  [][]byte
}

func (d *downloaderStub) Download(_ context.Context, filename string, content []byte) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filenames = append(d.filenames, filename)
	d.contents = append(d.contents, content)
	return "/tmp/" + filename, nil
}

func (d *downloaderStub) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.filenames)
}

type notifierStub struct {
	mu       sync.Mutex
	messages []string
}

func (n *notifierStub) NotifyFailure(_ context.Context, message string, _ error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

type indicatorStub struct {
	shown  atomic.Int32
	hidden atomic.Int32
}

func (i *indicatorStub) Show(string) { i.shown.Add(1) }
func (i *indicatorStub) Hide()       { i.hidden.Add(1) }

type panickingRenderer struct{}

func (panickingRenderer) Render(context.Context, Document) ([]byte, error) {
	panic("template exploded")
}

func (panickingRenderer) Extension() string { return ".html" }

type fixture struct {
	refresher  *refresherStub
	panel      *panelStub
	tasks      *event_store.ClientStub
	downloader *downloaderStub
	notifier   *notifierStub
	indicator  *indicatorStub
	clock      *utils.MockClock
	deps       Dependencies
}

func newFixture() *fixture {
	march := filter.NewDateRange(
		time.Date(2024, 3, 4, 0, 0, 0, 0, location),
		time.Date(2024, 3, 31, 0, 0, 0, 0, location),
	)
	f := &fixture{
		refresher: &refresherStub{},
		panel: &panelStub{items: []stats_panel.Item{
			{Category: event.CategoryTask, Label: "Задачи", Value: "3.5 ч"},
		}},
		tasks: event_store.NewClientStub(
			event.Event{Title: "Review", StartTime: time.Date(2024, 3, 5, 10, 0, 0, 0, location), EndTime: time.Date(2024, 3, 5, 12, 0, 0, 0, location), Category: event.CategoryTask},
			event.Event{Title: "Sync", StartTime: time.Date(2024, 3, 6, 14, 0, 0, 0, location), EndTime: time.Date(2024, 3, 6, 15, 30, 0, 0, location), Category: event.CategoryMeeting},
		),
		downloader: &downloaderStub{},
		notifier:   &notifierStub{},
		indicator:  &indicatorStub{},
		clock:      &utils.MockClock{FixedNow: time.Date(2024, 3, 20, 9, 15, 0, 0, location)},
	}
	f.deps = Dependencies{
		Stats:      f.refresher,
		Panel:      f.panel,
		Ranges:     rangeStub{dateRange: march},
		Tasks:      f.tasks,
		Renderer:   NewHTMLRenderer(),
		Downloader: f.downloader,
		Notifier:   f.notifier,
		Loading:    f.indicator,
		Clock:      f.clock,
		Location:   location,
	}
	return f
}

func TestGenerator_Generate(t *testing.T) {
	f := newFixture()
	var states []State
	f.deps.OnState = func(s State) { states = append(states, s) }
	bus := event_bus.NewEventBus()
	var published []event_bus.ReportGeneratedData
	event_bus.SubscribeTyped(bus, event_bus.ReportGenerated, func(e event_bus.EventT[event_bus.ReportGeneratedData]) error {
		published = append(published, e.Data)
		return nil
	})
	f.deps.Bus = bus

	result, err := NewGenerator(f.deps, DefaultConfig()).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Отчет_20.03.2024.html", result.Filename)
	assert.Equal(t, 3.5, result.Document.TotalHours)
	assert.Equal(t, "4 марта 2024 г. - 31 марта 2024 г.", result.Document.Period)
	require.Len(t, result.Document.Tasks, 2)
	assert.Equal(t, 1, f.downloader.count())
	assert.Contains(t, string(f.downloader.contents[0]), "<td>3.5 ч</td>")
	assert.Empty(t, f.clock.Sleeps())
	assert.Empty(t, f.notifier.messages)
	assert.Equal(t, int32(1), f.indicator.shown.Load())
	assert.Equal(t, int32(1), f.indicator.hidden.Load())
	assert.Equal(t, []State{Generating, RefreshingStats, AwaitingRender, FetchingTasks, Rendering, Downloading, Idle}, states)
	require.Len(t, published, 1)
	assert.Equal(t, result.Filename, published[0].Filename)
}

func TestGenerator_ConcurrentTriggersProduceOneReport(t *testing.T) {
	f := newFixture()
	f.refresher.release = make(chan struct{})
	gen := NewGenerator(f.deps, DefaultConfig())

	done := make(chan error)
	go func() {
		_, err := gen.Generate(context.Background())
		done <- err
	}()
	require.Eventually(t, gen.Generating, time.Second, time.Millisecond)

	var wg sync.WaitGroup
	var rejected atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := gen.Generate(context.Background()); errors.Is(err, ErrAlreadyGenerating) {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()
	close(f.refresher.release)

	require.NoError(t, <-done)
	assert.Equal(t, int32(10), rejected.Load())
	assert.Equal(t, 1, f.downloader.count())
	assert.Equal(t, int32(1), f.refresher.calls.Load())
	assert.Equal(t, int32(1), f.indicator.shown.Load())
}

func TestGenerator_RenderTimeoutReleasesLock(t *testing.T) {
	f := newFixture()
	f.panel.set(nil)
	gen := NewGenerator(f.deps, DefaultConfig())

	_, err := gen.Generate(context.Background())

	assert.ErrorIs(t, err, ErrRenderNotReady)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond}, f.clock.Sleeps())
	assert.Equal(t, []string{FailureMessage}, f.notifier.messages)
	assert.Equal(t, 0, f.downloader.count())
	assert.Equal(t, Idle, gen.State())
	assert.False(t, gen.Generating())
	assert.Equal(t, int32(1), f.indicator.hidden.Load())

	f.panel.set([]stats_panel.Item{{Category: event.CategoryTask, Label: "Задачи", Value: "0.0 ч"}})
	_, err = gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.downloader.count())
}

func TestGenerator_RefreshFailure(t *testing.T) {
	f := newFixture()
	f.refresher.err = errors.New("boom")
	gen := NewGenerator(f.deps, DefaultConfig())

	_, err := gen.Generate(context.Background())

	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, []string{FailureMessage}, f.notifier.messages)
	assert.Equal(t, 0, f.tasks.GetEventsCalls())
	assert.False(t, gen.Generating())
}

func TestGenerator_TaskFetchFailureUsesSentinel(t *testing.T) {
	f := newFixture()
	f.tasks.GetEventsErr = errors.New("connection refused")

	result, err := NewGenerator(f.deps, DefaultConfig()).Generate(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Document.Tasks, 1)
	row := result.Document.Tasks[0]
	assert.True(t, row.Sentinel)
	assert.Equal(t, SentinelTitle, row.Title)
	assert.Equal(t, SentinelDescription, row.Description)
	assert.Equal(t, "09:15", row.Start)
	assert.Equal(t, "10:15", row.End)
	assert.Equal(t, 1.0, result.Document.TotalHours)
	assert.Equal(t, 1, f.downloader.count())
}

func TestGenerator_PanicIsRecovered(t *testing.T) {
	f := newFixture()
	f.deps.Renderer = panickingRenderer{}
	gen := NewGenerator(f.deps, DefaultConfig())

	_, err := gen.Generate(context.Background())

	assert.ErrorIs(t, err, ErrUnexpected)
	assert.ErrorContains(t, err, "template exploded")
	assert.Equal(t, []string{FailureMessage}, f.notifier.messages)
	assert.Equal(t, Idle, gen.State())
	assert.False(t, gen.Generating())
}

func TestGenerator_PlannedHours(t *testing.T) {
	f := newFixture()
	f.deps.PlannedHours = func(filter.DateRange) (float64, error) { return 160, nil }

	result, err := NewGenerator(f.deps, DefaultConfig()).Generate(context.Background())

	require.NoError(t, err)
	require.NotNil(t, result.Document.PlannedHours)
	assert.Equal(t, 160.0, *result.Document.PlannedHours)
	assert.Contains(t, string(f.downloader.contents[0]), "<td>160.0 ч</td>")
}
