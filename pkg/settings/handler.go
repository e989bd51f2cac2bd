package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klokku/timesheet/internal/rest"
	log "github.com/sirupsen/logrus"
)

type HolidayDTO struct {
	Date string `json:"date"`
	Type string `json:"type"`
}

type Handler struct {
	controller *Controller
}

func NewHandler(controller *Controller) *Handler {
	return &Handler{controller: controller}
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, h.controller.Current())
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var s Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Неверный формат данных", err.Error())
		return
	}

	saved, err := h.controller.Replace(r.Context(), s)
	if err != nil {
		h.writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) AddHoliday(w http.ResponseWriter, r *http.Request) {
	var dto HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Неверный формат данных", err.Error())
		return
	}

	saved, err := h.controller.AddHoliday(r.Context(), dto.Date, HolidayKind(dto.Type))
	if err != nil {
		h.writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, saved)
}

func (h *Handler) RemoveHoliday(w http.ResponseWriter, r *http.Request) {
	saved, err := h.controller.RemoveHoliday(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if message, ok := UserMessage(err); ok {
		rest.WriteError(w, http.StatusBadRequest, message, "")
		return
	}
	switch {
	case errors.Is(err, ErrInvalidSettings), errors.Is(err, ErrInvalidHolidayDay):
		rest.WriteError(w, http.StatusBadRequest, "Неверные настройки", err.Error())
	default:
		log.Errorf("Failed to save settings: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Не удалось сохранить настройки", "")
	}
}
