package event

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/klokku/timesheet/internal/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest() (*mux.Router, *StubEventRepository) {
	repo := NewStubEventRepository()
	handler := NewEventHandler(NewEventService(repo), location)
	r := mux.NewRouter()
	r.HandleFunc("/api/events", handler.GetEvents).Methods("GET")
	r.HandleFunc("/api/events", handler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/events/{id}", handler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/events/{id}", handler.DeleteEvent).Methods("DELETE")
	return r, repo
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEventHandler_CreateAndList(t *testing.T) {
	router, _ := setupHandlerTest()

	w := doRequest(t, router, http.MethodPost, "/api/events", EventDTO{
		Title: "Planning", Start: "2024-03-04T10:00", End: "2024-03-04T11:30", Category: "meeting",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created EventDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Id)
	assert.Equal(t, "2024-03-04T10:00:00+03:00", created.Start)

	doRequest(t, router, http.MethodPost, "/api/events", EventDTO{
		Title: "Next day", Start: "2024-03-05T10:00:00+03:00", End: "2024-03-05T11:00:00+03:00",
	})

	w = doRequest(t, router, http.MethodGet, "/api/events?start=2024-03-04&end=2024-03-04", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []EventDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Planning", listed[0].Title)

	w = doRequest(t, router, http.MethodGet, "/api/events", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestEventHandler_Errors(t *testing.T) {
	router, repo := setupHandlerTest()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"invalid date filter", http.MethodGet, "/api/events?start=04.03.2024", nil, http.StatusBadRequest},
		{"invalid timestamp", http.MethodPost, "/api/events", EventDTO{Start: "yesterday", End: "today"}, http.StatusBadRequest},
		{"end before start", http.MethodPost, "/api/events", EventDTO{Start: "2024-03-04T10:00", End: "2024-03-04T09:00"}, http.StatusBadRequest},
		{"update unknown", http.MethodPut, "/api/events/42", EventDTO{Start: "2024-03-04T10:00", End: "2024-03-04T11:00"}, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/api/events/42", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp rest.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}

	t.Run("repository failure", func(t *testing.T) {
		repo.Err = assert.AnError
		defer func() { repo.Err = nil }()

		w := doRequest(t, router, http.MethodGet, "/api/events", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestEventHandler_UpdateAndDelete(t *testing.T) {
	router, _ := setupHandlerTest()

	w := doRequest(t, router, http.MethodPost, "/api/events", EventDTO{
		Title: "Call", Start: "2024-03-04T10:00", End: "2024-03-04T10:30", Category: "call",
	})
	var created EventDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doRequest(t, router, http.MethodPut, "/api/events/"+created.Id, EventDTO{
		Title: "Long call", Start: "2024-03-04T10:00", End: "2024-03-04T11:00", Category: "call",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated EventDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.Id, updated.Id)
	assert.Equal(t, "Long call", updated.Title)

	w = doRequest(t, router, http.MethodDelete, "/api/events/"+created.Id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2024-03-04T10:15", location)
	require.NoError(t, err)
	assert.Equal(t, 10, ts.Hour())
	assert.Equal(t, location, ts.Location())

	ts, err = ParseTimestamp("2024-03-04T07:15:00Z", location)
	require.NoError(t, err)
	assert.Equal(t, 7, ts.UTC().Hour())

	_, err = ParseTimestamp("", location)
	assert.Error(t, err)
}
