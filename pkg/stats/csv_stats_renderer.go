package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/klokku/timesheet/pkg/filter"
	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderStats(stats StatsSummary) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderStats writes one column per category plus a total column, one row per
// day and a final total row.
func (t *CsvStatsRendererImpl) RenderStats(stats StatsSummary) (string, error) {
	header := make([]string, 0, len(stats.Categories)+2)
	header = append(header, "Дата")
	for _, c := range stats.Categories {
		header = append(header, c.Label)
	}
	header = append(header, "Итого")

	data := make([][]string, 0, len(stats.Days)+2)
	data = append(data, header)
	for _, day := range stats.Days {
		data = append(data, statsRow(day.Date.Format(filter.DateLayout), day.Categories, day.TotalHours))
	}
	data = append(data, statsRow("Итого", stats.Categories, stats.TotalHours))

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func statsRow(first string, categories []CategoryStat, total float64) []string {
	row := make([]string, 0, len(categories)+2)
	row = append(row, first)
	for _, c := range categories {
		row = append(row, formatHours(c.Hours))
	}
	return append(row, formatHours(total))
}

func formatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 1, 64)
}
