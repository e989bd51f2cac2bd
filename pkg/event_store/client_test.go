package event_store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/timesheet/pkg/event"
	"github.com/klokku/timesheet/pkg/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var location, _ = time.LoadLocation("Europe/Moscow")

func setupServer(t *testing.T) *ClientImpl {
	handler := event.NewEventHandler(event.NewEventService(event.NewStubEventRepository()), location)
	r := mux.NewRouter()
	r.HandleFunc("/api/events", handler.GetEvents).Methods("GET")
	r.HandleFunc("/api/events", handler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/events/{id}", handler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/events/{id}", handler.DeleteEvent).Methods("DELETE")
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", time.Second, location)
}

func TestClient_CRUD(t *testing.T) {
	client := setupServer(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 10, 0, 0, 0, location)

	created, err := client.CreateEvent(ctx, event.Event{
		Title: "Sync", StartTime: start, EndTime: start.Add(time.Hour), Category: event.CategoryMeeting,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Id)

	dateRange := filter.NewDateRange(start, start)
	events, err := client.GetEvents(ctx, dateRange)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Sync", events[0].Title)
	assert.True(t, start.Equal(events[0].StartTime))

	created.Title = "Weekly sync"
	updated, err := client.UpdateEvent(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Weekly sync", updated.Title)

	require.NoError(t, client.DeleteEvent(ctx, created.Id))
	events, err = client.GetEvents(ctx, dateRange)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestClient_ServerErrorIsSurfacedVerbatim(t *testing.T) {
	client := setupServer(t)

	err := client.DeleteEvent(context.Background(), "missing")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Событие не найдено", err.Error())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_GetEventsDefaultsMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-03-01", r.URL.Query().Get("start"))
		assert.Empty(t, r.URL.Query().Get("end"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"7","start":"2024-03-04T10:00:00+03:00","end":"2024-03-04T11:00:00+03:00"}]`))
	}))
	defer server.Close()
	client := NewClient(server.URL, time.Second, location)

	events, err := client.GetEvents(context.Background(), filter.DateRange{Start: time.Date(2024, 3, 1, 0, 0, 0, 0, location)})

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.DefaultTitle, events[0].Title)
	assert.Equal(t, "", events[0].Description)
	assert.Equal(t, event.CategoryTask, events[0].Category)
}

func TestClient_TransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		message string
	}{
		{
			name: "error without body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			message: "HTTP 502",
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
		},
		{
			name: "malformed timestamp",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[{"id":"1","start":"soon","end":"later"}]`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()
			client := NewClient(server.URL, time.Second, location)

			_, err := client.GetEvents(context.Background(), filter.DateRange{})

			assert.ErrorIs(t, err, ErrTransport)
			if tt.message != "" {
				assert.EqualError(t, err, tt.message)
			}
		})
	}

	t.Run("unreachable server", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(server.URL, time.Second, location)

		_, err := client.GetStats(context.Background(), filter.DateRange{})

		assert.True(t, errors.Is(err, ErrTransport))
	})
}

func TestClient_GetStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats", r.URL.Path)
		_, _ = w.Write([]byte(`[{"category":"task","hours":1.5},{"category":"call","hours":0.5}]`))
	}))
	defer server.Close()
	client := NewClient(server.URL, time.Second, location)

	stats, err := client.GetStats(context.Background(), filter.DateRange{})

	require.NoError(t, err)
	assert.Equal(t, []StatRecord{{Category: "task", Hours: 1.5}, {Category: "call", Hours: 0.5}}, stats)
}
