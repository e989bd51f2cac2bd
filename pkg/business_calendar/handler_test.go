package business_calendar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klokku/timesheet/internal/utils"
	"github.com/klokku/timesheet/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSettings settings.Settings

func (f fixedSettings) Current() settings.Settings {
	return settings.Settings(f)
}

func setupHandler() *Handler {
	s := settings.Defaults()
	s.Holidays = []settings.Holiday{{Date: "2024-05-01", Kind: settings.KindHoliday}}
	clock := &utils.MockClock{FixedNow: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)}
	return NewHandler(fixedSettings(s), clock, location)
}

func TestHandler_GetOptions(t *testing.T) {
	w := httptest.NewRecorder()

	setupHandler().GetOptions(w, httptest.NewRequest(http.MethodGet, "/api/calendar/options", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var opts Options
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Equal(t, []int{0, 6}, opts.WeekendDays)
	assert.Equal(t, "#f8f9fa", opts.DateStyles["2024-05-01"].BackgroundColor)
}

func TestHandler_GetWorkingWindows(t *testing.T) {
	h := setupHandler()

	w := httptest.NewRecorder()
	h.GetWorkingWindows(w, httptest.NewRequest(http.MethodGet, "/api/calendar/windows?start=2024-04-29&end=2024-05-05", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp windowsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Windows, 4)
	assert.InDelta(t, 36.0, resp.PlannedHours, 0.001)

	w = httptest.NewRecorder()
	h.GetWorkingWindows(w, httptest.NewRequest(http.MethodGet, "/api/calendar/windows?start=2024-04-29", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetHolidaysICS(t *testing.T) {
	w := httptest.NewRecorder()

	setupHandler().GetHolidaysICS(w, httptest.NewRequest(http.MethodGet, "/api/calendar/holidays.ics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, w.Body.String(), "DTSTART;VALUE=DATE:20240501")
}
