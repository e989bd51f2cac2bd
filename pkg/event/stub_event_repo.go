package event

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"
)

type StubEventRepository struct {
	mu     sync.RWMutex
	events map[string]Event
	nextId int
	Err    error
}

func NewStubEventRepository() *StubEventRepository {
	return &StubEventRepository{events: make(map[string]Event), nextId: 1}
}

func (s *StubEventRepository) StoreEvent(ctx context.Context, event Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Event{}, s.Err
	}
	event.Id = strconv.Itoa(s.nextId)
	s.nextId++
	s.events[event.Id] = event
	return event, nil
}

func (s *StubEventRepository) GetEvents(ctx context.Context, from time.Time, to time.Time) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	events := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		if !from.IsZero() && e.StartTime.Before(from) {
			continue
		}
		if !to.IsZero() && !e.EndTime.Before(to) {
			continue
		}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}

func (s *StubEventRepository) GetEvent(ctx context.Context, id string) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return Event{}, s.Err
	}
	e, ok := s.events[id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return e, nil
}

func (s *StubEventRepository) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Event{}, s.Err
	}
	if _, ok := s.events[event.Id]; !ok {
		return Event{}, ErrEventNotFound
	}
	s.events[event.Id] = event
	return event, nil
}

func (s *StubEventRepository) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *StubEventRepository) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string]Event)
	s.nextId = 1
	s.Err = nil
}
