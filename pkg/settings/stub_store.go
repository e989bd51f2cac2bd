package settings

import (
	"context"
	"sync"
)

type StubStore struct {
	mu      sync.Mutex
	stored  *Settings
	saves   int
	SaveErr error
}

func NewStubStore() *StubStore {
	return &StubStore{}
}

func (s *StubStore) Load(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stored == nil {
		return Defaults(), nil
	}
	return s.stored.Clone(), nil
}

func (s *StubStore) Save(ctx context.Context, settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	c := settings.Clone()
	s.stored = &c
	s.saves++
	return nil
}

func (s *StubStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
