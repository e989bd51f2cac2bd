package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler() *mux.Router {
	handler := NewHandler(NewController(context.Background(), NewStubStore(), nil))
	r := mux.NewRouter()
	r.HandleFunc("/api/settings", handler.GetSettings).Methods("GET")
	r.HandleFunc("/api/settings", handler.UpdateSettings).Methods("POST")
	r.HandleFunc("/api/settings/holidays", handler.AddHoliday).Methods("POST")
	r.HandleFunc("/api/settings/holidays/{date}", handler.RemoveHoliday).Methods("DELETE")
	return r
}

func send(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Settings(t *testing.T) {
	r := setupHandler()

	w := send(t, r, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"workSchedule":"5/2","workHours":{"start":"09:00","end":"18:00"},"holidays":[]}`, w.Body.String())

	w = send(t, r, http.MethodPost, "/api/settings", `{"workSchedule":"7/0","workHours":{"start":"08:00","end":"20:00"},"holidays":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var saved Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, Schedule70, saved.WorkSchedule)

	w = send(t, r, http.MethodPost, "/api/settings", `{"workSchedule":"7/0","workHours":{"start":"20:00","end":"08:00"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Holidays(t *testing.T) {
	r := setupHandler()

	w := send(t, r, http.MethodPost, "/api/settings/holidays", `{"date":"2024-05-01","type":"holiday"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = send(t, r, http.MethodPost, "/api/settings/holidays", `{"date":"2024-05-01","type":"pre-holiday"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Этот день уже добавлен")

	w = send(t, r, http.MethodDelete, "/api/settings/holidays/2024-05-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"holidays":[]`)
}
