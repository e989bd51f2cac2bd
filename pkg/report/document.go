package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/klokku/timesheet/pkg/filter"
	"github.com/klokku/timesheet/pkg/stats"
	"github.com/klokku/timesheet/pkg/stats_panel"
)

const (
	DocumentTitle  = "Отчёт по использованию времени"
	FailureMessage = "Не удалось создать отчёт. Пожалуйста, попробуйте ещё раз."
	LoadingMessage = "Идёт генерация отчёта..."
	filenamePrefix = "Отчет_"
)

var genitiveMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

type SummaryRow struct {
	Label string
	Value string
}

type TaskRow struct {
	Date        string
	Start       string
	End         string
	Title       string
	Description string
	Hours       float64
	Sentinel    bool
}

// Document is the report content before serialization. Summary comes from the
// rendered panel and TotalHours from the task rows; the two are not reconciled.
type Document struct {
	Title        string
	Period       string
	Summary      []SummaryRow
	Tasks        []TaskRow
	TotalHours   float64
	PlannedHours *float64
	GeneratedAt  string
}

func BuildDocument(dateRange filter.DateRange, panel []stats_panel.Item, tasks []Task, now time.Time, loc *time.Location) Document {
	doc := Document{
		Title:       DocumentTitle,
		Period:      FormatPeriod(dateRange),
		Summary:     make([]SummaryRow, 0, len(panel)),
		Tasks:       make([]TaskRow, 0, len(tasks)),
		GeneratedAt: FormatTimestamp(now.In(loc)),
	}
	for _, item := range panel {
		doc.Summary = append(doc.Summary, SummaryRow{Label: item.Label, Value: item.Value})
	}
	for _, t := range tasks {
		start := t.StartTime.In(loc)
		doc.Tasks = append(doc.Tasks, TaskRow{
			Date:        start.Format("02.01.2006"),
			Start:       start.Format("15:04"),
			End:         t.EndTime.In(loc).Format("15:04"),
			Title:       t.Title,
			Description: t.Description,
			Hours:       TaskHours(t),
			Sentinel:    t.Sentinel,
		})
	}
	doc.TotalHours = TotalTaskHours(tasks)
	return doc
}

// TaskHours is end minus start in hours, rounded to one decimal.
func TaskHours(t Task) float64 {
	return stats.RoundHours(t.EndTime.Sub(t.StartTime).Hours())
}

// TotalTaskHours sums the rounded per-task hours.
func TotalTaskHours(tasks []Task) float64 {
	var total float64
	for _, t := range tasks {
		total += TaskHours(t)
	}
	return stats.RoundHours(total)
}

func FormatHours(hours float64) string {
	return fmt.Sprintf("%.1f ч", hours)
}

// FormatLongDate renders "4 марта 2024 г.".
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d г.", t.Day(), genitiveMonths[t.Month()-1], t.Year())
}

// FormatTimestamp renders "04.03.2024, 10:05:09".
func FormatTimestamp(t time.Time) string {
	return t.Format("02.01.2006, 15:04:05")
}

func FormatPeriod(dateRange filter.DateRange) string {
	parts := make([]string, 0, 2)
	if !dateRange.Start.IsZero() {
		parts = append(parts, FormatLongDate(dateRange.Start))
	}
	if !dateRange.End.IsZero() {
		parts = append(parts, FormatLongDate(dateRange.End))
	}
	if len(parts) == 0 {
		return "весь период"
	}
	if dateRange.Start.IsZero() {
		return "по " + parts[0]
	}
	return strings.Join(parts, " - ")
}

// Filename is "Отчет_<dd.mm.yyyy><ext>".
func Filename(now time.Time, ext string) string {
	return filenamePrefix + now.Format("02.01.2006") + ext
}
