package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/klokku/timesheet/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// Controller owns the settings of one session. Every successful mutation is
// persisted to the Store and then published as event_bus.SettingsCommitted
// with the new Settings value as payload.
type Controller struct {
	mu      sync.Mutex
	current Settings
	store   Store
	bus     *event_bus.EventBus
}

// NewController loads the stored settings once. A failing store leaves the
// controller on defaults.
func NewController(ctx context.Context, store Store, bus *event_bus.EventBus) *Controller {
	current, err := store.Load(ctx)
	if err != nil {
		log.Warnf("Failed to load settings, using defaults: %v", err)
		current = Defaults()
	}
	return &Controller{current: current, store: store, bus: bus}
}

func (c *Controller) Current() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}

// Commit replaces schedule and work hours. Holidays are kept.
func (c *Controller) Commit(ctx context.Context, schedule Schedule, start string, end string) (Settings, error) {
	return c.mutate(ctx, func(s *Settings) error {
		s.WorkSchedule = schedule
		s.WorkHours = WorkHours{Start: start, End: end}
		return nil
	})
}

// Replace commits a complete settings value, holidays included.
func (c *Controller) Replace(ctx context.Context, next Settings) (Settings, error) {
	return c.mutate(ctx, func(s *Settings) error {
		*s = next.Clone()
		return nil
	})
}

func (c *Controller) AddHoliday(ctx context.Context, date string, kind HolidayKind) (Settings, error) {
	return c.mutate(ctx, func(s *Settings) error {
		if date == "" {
			return ErrEmptyHolidayDate
		}
		if s.HasHoliday(date) {
			return ErrDuplicateHoliday
		}
		if kind == "" {
			kind = KindHoliday
		}
		s.Holidays = append(s.Holidays, Holiday{Date: date, Kind: kind})
		return nil
	})
}

// RemoveHoliday drops the entry with exactly this date. Removing an absent
// date still commits.
func (c *Controller) RemoveHoliday(ctx context.Context, date string) (Settings, error) {
	return c.mutate(ctx, func(s *Settings) error {
		kept := make([]Holiday, 0, len(s.Holidays))
		for _, h := range s.Holidays {
			if h.Date != date {
				kept = append(kept, h)
			}
		}
		s.Holidays = kept
		return nil
	})
}

// mutate applies change to a copy; the copy becomes current only once it is
// valid and stored.
func (c *Controller) mutate(ctx context.Context, change func(s *Settings) error) (Settings, error) {
	c.mu.Lock()
	next := c.current.Clone()
	if err := change(&next); err != nil {
		c.mu.Unlock()
		return Settings{}, err
	}
	if next.Holidays == nil {
		next.Holidays = []Holiday{}
	}
	sortHolidays(next.Holidays)
	if err := next.Validate(); err != nil {
		c.mu.Unlock()
		return Settings{}, err
	}
	if err := c.store.Save(ctx, next); err != nil {
		c.mu.Unlock()
		return Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	c.current = next
	c.mu.Unlock()

	log.Debugf("Settings committed: schedule %s, hours %s-%s, %d holiday(s)",
		next.WorkSchedule, next.WorkHours.Start, next.WorkHours.End, len(next.Holidays))
	if c.bus != nil {
		if err := c.bus.Publish(event_bus.NewEvent(ctx, event_bus.SettingsCommitted, next.Clone())); err != nil {
			log.Errorf("Failed to notify settings subscribers: %v", err)
		}
	}
	return next.Clone(), nil
}
