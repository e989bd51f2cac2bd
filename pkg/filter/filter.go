package filter

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Controller owns the active date range of a session. The statistics refresh
// and the report generator both read it through the same Controller, so a
// report is always built for the range the last refresh used.
type Controller struct {
	mu       sync.RWMutex
	current  DateRange
	location *time.Location
}

func NewController(loc *time.Location) *Controller {
	if loc == nil {
		loc = time.Local
	}
	return &Controller{location: loc}
}

func (c *Controller) Current() DateRange {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Reset sets the range to the first and last day of the month containing now.
func (c *Controller) Reset(now time.Time) DateRange {
	now = now.In(c.location)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, c.location)
	last := first.AddDate(0, 1, -1)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = DateRange{Start: first, End: last}
	log.Debugf("Filters reset to %s", c.current)
	return c.current
}

// Apply reads two independent YYYY-MM-DD inputs; an empty input leaves that
// side unbounded. On error the active range is left unchanged.
func (c *Controller) Apply(startInput, endInput string) (DateRange, error) {
	r, err := ParseDateRange(startInput, endInput, c.location)
	if err != nil {
		return c.Current(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = r
	log.Debugf("Filters applied: %s", c.current)
	return c.current, nil
}
