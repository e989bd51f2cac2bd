package app

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Events
	r.HandleFunc("/api/events", deps.EventHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/events", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/events/{id}", deps.EventHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/events/{id}", deps.EventHandler.DeleteEvent).Methods("DELETE")

	// Stats
	r.HandleFunc("/api/stats", deps.StatsHandler.GetStats).Methods("GET")

	// Settings
	r.HandleFunc("/api/settings", deps.SettingsHandler.GetSettings).Methods("GET")
	r.HandleFunc("/api/settings", deps.SettingsHandler.UpdateSettings).Methods("POST")
	r.HandleFunc("/api/settings/holidays", deps.SettingsHandler.AddHoliday).Methods("POST")
	r.HandleFunc("/api/settings/holidays/{date}", deps.SettingsHandler.RemoveHoliday).Methods("DELETE")

	// Business calendar
	r.HandleFunc("/api/calendar/options", deps.CalendarHandler.GetOptions).Methods("GET")
	r.HandleFunc("/api/calendar/windows", deps.CalendarHandler.GetWorkingWindows).Queries("start", "{start}", "end", "{end}").Methods("GET")
	r.HandleFunc("/api/calendar/holidays.ics", deps.CalendarHandler.GetHolidaysICS).Methods("GET")

	// CORS preflight, answered by the middleware
	r.PathPrefix("/api/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}
