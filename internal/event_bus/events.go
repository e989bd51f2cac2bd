package event_bus

import "time"

const (
	// SettingsCommitted carries the new settings value after it was persisted.
	SettingsCommitted EventType = "settings.committed"
	StatsRefreshed    EventType = "stats.refreshed"
	ReportGenerated   EventType = "report.generated"
)

type StatsRefreshedData struct {
	Start      time.Time
	End        time.Time
	TotalHours float64
}

type ReportGeneratedData struct {
	Filename    string
	Location    string
	GeneratedAt time.Time
}
