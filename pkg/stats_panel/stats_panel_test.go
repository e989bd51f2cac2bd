package stats_panel

import (
	"testing"
	"time"

	"github.com/klokku/timesheet/pkg/event"
	"github.com/klokku/timesheet/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStats() []stats.CategoryStat {
	s := stats.ZeroStats()
	s[0].Hours = 4
	s[2].Hours = 1
	return s
}

func TestPanel_RenderIsAsynchronous(t *testing.T) {
	p := NewPanel(20 * time.Millisecond)

	p.Render(sampleStats())
	_, ok := p.Displayed()
	assert.False(t, ok)

	p.Wait()
	items, ok := p.Displayed()
	require.True(t, ok)
	require.Len(t, items, 5)
	assert.Equal(t, Item{Category: event.CategoryTask, Label: "Задачи", Value: "4.0 ч", Color: "#00955E", Percent: 100}, items[0])
	assert.Equal(t, "1.0 ч", items[2].Value)
	assert.Equal(t, 25.0, items[2].Percent)
}

func TestPanel_LatestRenderWins(t *testing.T) {
	p := NewPanel(0)

	p.Render(sampleStats())
	p.Render(stats.ZeroStats())
	p.Wait()

	items, ok := p.Displayed()
	require.True(t, ok)
	assert.Equal(t, "0.0 ч", items[0].Value)
	assert.Equal(t, 0.0, items[0].Percent)
}

func TestPanel_Clear(t *testing.T) {
	p := NewPanel(0)
	p.Render(sampleStats())
	p.Wait()

	p.Clear()

	items, ok := p.Displayed()
	assert.False(t, ok)
	assert.Nil(t, items)
}

func TestPanel_DisplayedReturnsCopy(t *testing.T) {
	p := NewPanel(0)
	p.Render(sampleStats())
	p.Wait()

	items, _ := p.Displayed()
	items[0].Value = "changed"

	again, _ := p.Displayed()
	assert.Equal(t, "4.0 ч", again[0].Value)
}
