package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrInvalidEvent = errors.New("invalid event")

type EventService interface {
	CreateEvent(ctx context.Context, event Event) (Event, error)
	GetEvents(ctx context.Context, from time.Time, to time.Time) ([]Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type EventServiceImpl struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventServiceImpl {
	return &EventServiceImpl{repo: repo}
}

func (s *EventServiceImpl) CreateEvent(ctx context.Context, event Event) (Event, error) {
	event, err := normalize(event)
	if err != nil {
		return Event{}, err
	}
	log.Debugf("Storing new event %q (%s)", event.Title, event.Category)
	return s.repo.StoreEvent(ctx, event)
}

func (s *EventServiceImpl) GetEvents(ctx context.Context, from time.Time, to time.Time) ([]Event, error) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return []Event{}, nil
	}
	return s.repo.GetEvents(ctx, from, to)
}

func (s *EventServiceImpl) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	if event.Id == "" {
		return Event{}, fmt.Errorf("%w: event id is required", ErrInvalidEvent)
	}
	event, err := normalize(event)
	if err != nil {
		return Event{}, err
	}
	return s.repo.UpdateEvent(ctx, event)
}

func (s *EventServiceImpl) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalidEvent)
	}
	return s.repo.DeleteEvent(ctx, id)
}

func normalize(event Event) (Event, error) {
	if event.StartTime.IsZero() || event.EndTime.IsZero() {
		return Event{}, fmt.Errorf("%w: start and end are required", ErrInvalidEvent)
	}
	if event.EndTime.Before(event.StartTime) {
		return Event{}, fmt.Errorf("%w: end must not be before start", ErrInvalidEvent)
	}
	if event.Category == "" {
		event.Category = CategoryTask
	}
	if !event.Category.Valid() {
		return Event{}, fmt.Errorf("%w: unknown category %q", ErrInvalidEvent, event.Category)
	}
	return event, nil
}
