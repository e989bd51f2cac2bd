package event_store

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/klokku/timesheet/pkg/event"
	"github.com/klokku/timesheet/pkg/filter"
)

// ClientStub is an in-memory Client. Setting GetEventsErr or MutateErr makes
// the matching calls fail.
type ClientStub struct {
	mu           sync.Mutex
	events       map[string]event.Event
	nextId       int
	getCalls     int
	GetEventsErr error
	MutateErr    error
	Stats        []StatRecord
}

func NewClientStub(events ...event.Event) *ClientStub {
	s := &ClientStub{events: make(map[string]event.Event), nextId: 1}
	for _, e := range events {
		if e.Id == "" {
			e.Id = strconv.Itoa(s.nextId)
			s.nextId++
		}
		s.events[e.Id] = e
	}
	return s
}

func (s *ClientStub) GetEvents(ctx context.Context, dateRange filter.DateRange) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.GetEventsErr != nil {
		return nil, s.GetEventsErr
	}
	if dateRange.Empty() {
		return []event.Event{}, nil
	}
	from, to := dateRange.Bounds()
	result := make([]event.Event, 0, len(s.events))
	for _, e := range s.events {
		if !from.IsZero() && e.StartTime.Before(from) {
			continue
		}
		if !to.IsZero() && !e.EndTime.Before(to) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

// GetEventsCalls counts GetEvents invocations, failed ones included.
func (s *ClientStub) GetEventsCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCalls
}

func (s *ClientStub) CreateEvent(ctx context.Context, e event.Event) (event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MutateErr != nil {
		return event.Event{}, s.MutateErr
	}
	e.Id = strconv.Itoa(s.nextId)
	s.nextId++
	s.events[e.Id] = e
	return e, nil
}

func (s *ClientStub) UpdateEvent(ctx context.Context, e event.Event) (event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MutateErr != nil {
		return event.Event{}, s.MutateErr
	}
	if _, ok := s.events[e.Id]; !ok {
		return event.Event{}, &Error{StatusCode: 404, Message: "Событие не найдено"}
	}
	s.events[e.Id] = e
	return e, nil
}

func (s *ClientStub) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MutateErr != nil {
		return s.MutateErr
	}
	if _, ok := s.events[id]; !ok {
		return &Error{StatusCode: 404, Message: "Событие не найдено"}
	}
	delete(s.events, id)
	return nil
}

func (s *ClientStub) GetStats(ctx context.Context, dateRange filter.DateRange) ([]StatRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetEventsErr != nil {
		return nil, s.GetEventsErr
	}
	return s.Stats, nil
}
