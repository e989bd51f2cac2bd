package stats_panel

import (
	"fmt"
	"sync"
	"time"

	"github.com/klokku/timesheet/pkg/event"
	"github.com/klokku/timesheet/pkg/stats"
)

// Item is one rendered statistic as the user sees it.
type Item struct {
	Category event.Category
	Label    string
	Value    string
	Color    string
	// Percent is the bar width relative to the largest category, at least 1 hour.
	Percent float64
}

// Panel is the statistics display. Render clears it at once and fills it in
// the background, so a reader may observe it empty for a short while.
type Panel struct {
	mu         sync.RWMutex
	items      []Item
	rendered   bool
	generation uint64
	delay      time.Duration
	wg         sync.WaitGroup
}

// NewPanel returns an empty panel. delay is how long a render takes to appear.
func NewPanel(delay time.Duration) *Panel {
	return &Panel{delay: delay}
}

func (p *Panel) Render(categoryStats []stats.CategoryStat) {
	items := buildItems(categoryStats)

	p.mu.Lock()
	p.generation++
	generation := p.generation
	p.items = nil
	p.rendered = false
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if p.delay > 0 {
			time.Sleep(p.delay)
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		// a newer Render owns the panel now
		if generation != p.generation {
			return
		}
		p.items = items
		p.rendered = true
	}()
}

// Displayed returns a copy of the rendered items and whether the panel is
// currently rendered at all.
func (p *Panel) Displayed() ([]Item, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.rendered {
		return nil, false
	}
	out := make([]Item, len(p.items))
	copy(out, p.items)
	return out, true
}

// Clear removes the rendered content.
func (p *Panel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.items = nil
	p.rendered = false
}

// Wait blocks until every pending render finished.
func (p *Panel) Wait() {
	p.wg.Wait()
}

func FormatHours(hours float64) string {
	return fmt.Sprintf("%.1f ч", hours)
}

func buildItems(categoryStats []stats.CategoryStat) []Item {
	maxHours := 1.0
	for _, s := range categoryStats {
		if s.Hours > maxHours {
			maxHours = s.Hours
		}
	}

	items := make([]Item, 0, len(categoryStats))
	for _, s := range categoryStats {
		items = append(items, Item{
			Category: s.Category,
			Label:    s.Label,
			Value:    FormatHours(s.Hours),
			Color:    s.Category.Color(),
			Percent:  s.Hours / maxHours * 100,
		})
	}
	return items
}
