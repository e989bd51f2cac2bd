package business_calendar

import (
	"net/http"
	"time"

	"github.com/klokku/timesheet/internal/rest"
	"github.com/klokku/timesheet/internal/utils"
	"github.com/klokku/timesheet/pkg/filter"
	"github.com/klokku/timesheet/pkg/settings"
	log "github.com/sirupsen/logrus"
)

type SettingsProvider interface {
	Current() settings.Settings
}

type Handler struct {
	settings SettingsProvider
	clock    utils.Clock
	location *time.Location
}

func NewHandler(settings SettingsProvider, clock utils.Clock, location *time.Location) *Handler {
	return &Handler{settings: settings, clock: clock, location: location}
}

func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, Derive(h.settings.Current()).Options())
}

type windowDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type windowsResponse struct {
	Windows      []windowDTO `json:"windows"`
	PlannedHours float64     `json:"plannedHours"`
}

// GetWorkingWindows expects both start and end query parameters.
func (h *Handler) GetWorkingWindows(w http.ResponseWriter, r *http.Request) {
	dateRange, err := filter.ParseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"), h.location)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Неверный формат даты", err.Error())
		return
	}
	windows, err := WorkingWindows(h.settings.Current(), dateRange, h.location)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Не удалось рассчитать рабочее время", err.Error())
		return
	}

	resp := windowsResponse{Windows: make([]windowDTO, 0, len(windows)), PlannedHours: PlannedHours(windows)}
	for _, win := range windows {
		resp.Windows = append(resp.Windows, windowDTO{Start: win.Start.Format(time.RFC3339), End: win.End.Format(time.RFC3339)})
	}
	rest.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetHolidaysICS(w http.ResponseWriter, r *http.Request) {
	feed, err := HolidaysICS(h.settings.Current(), h.clock.Now())
	if err != nil {
		log.Errorf("Failed to render holidays feed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Не удалось сформировать календарь", "")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="holidays.ics"`)
	if _, err := w.Write([]byte(feed)); err != nil {
		log.Errorf("Failed to write holidays feed: %v", err)
	}
}
