package event_store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klokku/timesheet/pkg/event"
	"github.com/klokku/timesheet/pkg/filter"
	log "github.com/sirupsen/logrus"
)

// ErrTransport marks every failure to get a usable answer from the Event Store:
// network errors, non-2xx responses and undecodable bodies.
var ErrTransport = errors.New("event store unavailable")

// Error is a non-2xx answer. Message is the server's "error" field verbatim.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return ErrTransport
}

// StatRecord is one entry of GET /api/stats.
type StatRecord struct {
	Category string  `json:"category"`
	Hours    float64 `json:"hours"`
	Name     string  `json:"name,omitempty"`
}

type Client interface {
	GetEvents(ctx context.Context, dateRange filter.DateRange) ([]event.Event, error)
	CreateEvent(ctx context.Context, e event.Event) (event.Event, error)
	UpdateEvent(ctx context.Context, e event.Event) (event.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	GetStats(ctx context.Context, dateRange filter.DateRange) ([]StatRecord, error)
}

type ClientImpl struct {
	baseURL    string
	httpClient *http.Client
	location   *time.Location
}

func NewClient(baseURL string, timeout time.Duration, location *time.Location) *ClientImpl {
	if location == nil {
		location = time.Local
	}
	return &ClientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		location:   location,
	}
}

func (c *ClientImpl) GetEvents(ctx context.Context, dateRange filter.DateRange) ([]event.Event, error) {
	var dtos []event.EventDTO
	if err := c.do(ctx, http.MethodGet, "/api/events", dateRange.Query(), nil, &dtos); err != nil {
		return nil, err
	}

	events := make([]event.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := c.fromDTO(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	log.Debugf("Fetched %d events for %s", len(events), dateRange)
	return events, nil
}

func (c *ClientImpl) CreateEvent(ctx context.Context, e event.Event) (event.Event, error) {
	var created event.EventDTO
	if err := c.do(ctx, http.MethodPost, "/api/events", nil, event.EventToDTO(e), &created); err != nil {
		return event.Event{}, err
	}
	return c.fromDTO(created)
}

func (c *ClientImpl) UpdateEvent(ctx context.Context, e event.Event) (event.Event, error) {
	var updated event.EventDTO
	path := "/api/events/" + url.PathEscape(e.Id)
	if err := c.do(ctx, http.MethodPut, path, nil, event.EventToDTO(e), &updated); err != nil {
		return event.Event{}, err
	}
	return c.fromDTO(updated)
}

func (c *ClientImpl) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(id), nil, nil, nil)
}

func (c *ClientImpl) GetStats(ctx context.Context, dateRange filter.DateRange) ([]StatRecord, error) {
	var stats []StatRecord
	if err := c.do(ctx, http.MethodGet, "/api/stats", dateRange.Query(), nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// fromDTO applies the defaults for fields the server left out.
func (c *ClientImpl) fromDTO(dto event.EventDTO) (event.Event, error) {
	e, err := event.DTOToEvent(dto, c.location)
	if err != nil {
		return event.Event{}, fmt.Errorf("%w: malformed event %q: %v", ErrTransport, dto.Id, err)
	}
	if e.Title == "" {
		e.Title = event.DefaultTitle
	}
	if e.Category == "" {
		e.Category = event.CategoryTask
	}
	return e, nil
}

func (c *ClientImpl) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request %s %s: %v", method, path, err)
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		log.Errorf("Event store returned %d for %s %s: %s", resp.StatusCode, method, path, apiErr.Message)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return fmt.Errorf("%w: failed to decode response: %v", ErrTransport, err)
	}
	return nil
}

func decodeError(resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	} else {
		apiErr.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return apiErr
}
