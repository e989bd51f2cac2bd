package stats

import (
	"net/http"
	"time"

	"github.com/klokku/timesheet/internal/rest"
	"github.com/klokku/timesheet/pkg/filter"
	log "github.com/sirupsen/logrus"
)

type CategoryStatDTO struct {
	Category string  `json:"category"`
	Hours    float64 `json:"hours"`
	Name     string  `json:"name"`
}

type StatsHandler struct {
	fetcher          EventFetcher
	csvStatsRenderer StatsRenderer
	location         *time.Location
}

func NewStatsHandler(fetcher EventFetcher, csvStatsRenderer StatsRenderer, location *time.Location) *StatsHandler {
	return &StatsHandler{fetcher: fetcher, csvStatsRenderer: csvStatsRenderer, location: location}
}

// GetStats answers with every category in display order. A storage failure is
// a 500 here; zero-filling is left to the consumer.
func (handler *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	dateRange, err := filter.ParseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"), handler.location)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Неверный формат даты", err.Error())
		return
	}

	events, err := handler.fetcher.GetEvents(r.Context(), dateRange)
	if err != nil {
		log.Errorf("Failed to load events for stats: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Ошибка базы данных", "")
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := handler.csvStatsRenderer.RenderStats(SummarizeByDay(dateRange, events, handler.location))
		if err != nil {
			rest.WriteError(w, http.StatusInternalServerError, "Ошибка формирования CSV", "")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("Failed to write csv: %v", err)
		}
		return
	}

	stats := Summarize(events)
	dtos := make([]CategoryStatDTO, 0, len(stats))
	for _, s := range stats {
		dtos = append(dtos, CategoryStatDTO{Category: string(s.Category), Hours: s.Hours, Name: s.Label})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}
