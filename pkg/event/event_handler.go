package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/timesheet/internal/rest"
	"github.com/klokku/timesheet/pkg/filter"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	Id          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Category    string `json:"category"`
}

// accepted in addition to RFC3339; the calendar UI sends local wall time
var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}

type EventHandler struct {
	eventService EventService
	location     *time.Location
}

func NewEventHandler(eventService EventService, location *time.Location) *EventHandler {
	if location == nil {
		location = time.Local
	}
	return &EventHandler{eventService: eventService, location: location}
}

func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	dateRange, err := filter.ParseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"), h.location)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Неверный формат даты", err.Error())
		return
	}

	from, to := dateRange.Bounds()
	events, err := h.eventService.GetEvents(r.Context(), from, to)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Ошибка базы данных", "")
		return
	}
	log.Tracef("Events returned for %s: %d", dateRange, len(events))

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, EventToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := h.decodeEvent(w, r)
	if !ok {
		return
	}

	stored, err := h.eventService.CreateEvent(r.Context(), event)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка сохранения")
		return
	}
	rest.WriteJSON(w, http.StatusCreated, EventToDTO(stored))
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		rest.WriteError(w, http.StatusBadRequest, "Требуется ID события", "")
		return
	}
	event, ok := h.decodeEvent(w, r)
	if !ok {
		return
	}
	event.Id = id

	updated, err := h.eventService.UpdateEvent(r.Context(), event)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка обновления")
		return
	}
	rest.WriteJSON(w, http.StatusOK, EventToDTO(updated))
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		rest.WriteError(w, http.StatusBadRequest, "Требуется ID события", "")
		return
	}

	if err := h.eventService.DeleteEvent(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "Ошибка удаления")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) decodeEvent(w http.ResponseWriter, r *http.Request) (Event, bool) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Неверный формат данных", err.Error())
		return Event{}, false
	}
	event, err := DTOToEvent(dto, h.location)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Неверный формат данных", err.Error())
		return Event{}, false
	}
	return event, true
}

func (h *EventHandler) writeServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, ErrInvalidEvent):
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "Событие не найдено", "")
	default:
		log.Errorf("%s: %v", message, err)
		rest.WriteError(w, http.StatusInternalServerError, message, "")
	}
}

func EventToDTO(e Event) EventDTO {
	return EventDTO{
		Id:          e.Id,
		Title:       e.Title,
		Description: e.Description,
		Start:       e.StartTime.Format(time.RFC3339),
		End:         e.EndTime.Format(time.RFC3339),
		Category:    string(e.Category),
	}
}

func DTOToEvent(dto EventDTO, location *time.Location) (Event, error) {
	start, err := ParseTimestamp(dto.Start, location)
	if err != nil {
		return Event{}, fmt.Errorf("start: %w", err)
	}
	end, err := ParseTimestamp(dto.End, location)
	if err != nil {
		return Event{}, fmt.Errorf("end: %w", err)
	}
	return Event{
		Id:          dto.Id,
		Title:       dto.Title,
		Description: dto.Description,
		StartTime:   start,
		EndTime:     end,
		Category:    Category(dto.Category),
	}, nil
}

// ParseTimestamp accepts RFC3339 or local wall time without a zone.
func ParseTimestamp(value string, location *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}
