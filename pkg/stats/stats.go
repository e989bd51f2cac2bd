package stats

import (
	"math"
	"time"

	"github.com/klokku/timesheet/pkg/event"
)

// CategoryStat is the time spent in one category, rounded to one decimal.
type CategoryStat struct {
	Category event.Category
	Hours    float64
	Label    string
}

type DailyStats struct {
	Date       time.Time
	Categories []CategoryStat
	TotalHours float64
}

// StatsSummary is the per-category and per-day breakdown used by the CSV
// export. Categories and Days always list every category in display order.
type StatsSummary struct {
	StartDate  time.Time
	EndDate    time.Time
	Categories []CategoryStat
	Days       []DailyStats
	TotalHours float64
}

// RoundHours rounds to one decimal, half away from zero.
func RoundHours(hours float64) float64 {
	return math.Round(hours*10) / 10
}

// ZeroStats lists every category with 0 hours.
func ZeroStats() []CategoryStat {
	stats := make([]CategoryStat, 0, len(event.Categories))
	for _, c := range event.Categories {
		stats = append(stats, CategoryStat{Category: c, Hours: 0, Label: c.Label()})
	}
	return stats
}

// TotalHours sums the already rounded hours of stats.
func TotalHours(stats []CategoryStat) float64 {
	var total float64
	for _, s := range stats {
		total += s.Hours
	}
	return RoundHours(total)
}
