package stats

import (
	"testing"
	"time"

	"github.com/klokku/timesheet/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvStatsRendererImpl_RenderStats(t *testing.T) {
	tests := []struct {
		name  string
		stats StatsSummary
		want  string
	}{
		{
			name: "RenderStats with days",
			stats: func() StatsSummary {
				day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
				return SummarizeByDay(
					filterRange(day),
					[]event.Event{
						{StartTime: day, EndTime: day.Add(90 * time.Minute), Category: event.CategoryTask},
						{StartTime: day.AddDate(0, 0, 1), EndTime: day.AddDate(0, 0, 1).Add(time.Hour), Category: event.CategoryRest},
					},
					time.UTC,
				)
			}(),
			want: "Дата,Задачи,Встречи,Звонки,Учеба,Отдых,Итого\n" +
				"2024-01-01,1.5,0.0,0.0,0.0,0.0,1.5\n" +
				"2024-01-02,0.0,0.0,0.0,0.0,1.0,1.0\n" +
				"Итого,1.5,0.0,0.0,0.0,1.0,2.5\n",
		},
		{
			name:  "RenderStats without events",
			stats: StatsSummary{Categories: ZeroStats()},
			want: "Дата,Задачи,Встречи,Звонки,Учеба,Отдых,Итого\n" +
				"Итого,0.0,0.0,0.0,0.0,0.0,0.0\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCsvStatsRenderer().RenderStats(tt.stats)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
