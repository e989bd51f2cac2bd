package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultKey = "calendarSettings"

// Store persists the settings as a single JSON blob under a fixed key.
type Store interface {
	// Load returns the stored settings, or Defaults() when nothing is stored.
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

func decode(blob []byte) (Settings, error) {
	var s Settings
	if err := json.Unmarshal(blob, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	s = repair(s.withDefaults())
	sortHolidays(s.Holidays)
	return s, nil
}

// repair drops what a hand-edited or older blob got wrong so the loaded value
// passes Validate. Of several holidays on one date the first is kept.
func repair(s Settings) Settings {
	d := Defaults()
	if !s.WorkSchedule.Valid() {
		log.Warnf("Stored work schedule %q is unknown, using %s", s.WorkSchedule, d.WorkSchedule)
		s.WorkSchedule = d.WorkSchedule
	}
	if start, end, err := s.WorkHours.Bounds(); err != nil || start >= end {
		log.Warnf("Stored work hours %s-%s are invalid, using %s-%s", s.WorkHours.Start, s.WorkHours.End, d.WorkHours.Start, d.WorkHours.End)
		s.WorkHours = d.WorkHours
	}

	seen := make(map[string]bool, len(s.Holidays))
	kept := make([]Holiday, 0, len(s.Holidays))
	for _, h := range s.Holidays {
		if _, err := h.Day(time.UTC); err != nil || !h.Kind.Valid() {
			log.Warnf("Dropping stored holiday %q (%s): invalid entry", h.Date, h.Kind)
			continue
		}
		if seen[h.Date] {
			log.Warnf("Dropping stored holiday %q (%s): date already listed", h.Date, h.Kind)
			continue
		}
		seen[h.Date] = true
		kept = append(kept, h)
	}
	s.Holidays = kept
	return s
}

func encode(s Settings) ([]byte, error) {
	blob, err := json.Marshal(s.withDefaults())
	if err != nil {
		log.Errorf("failed to encode settings: %v", err)
		return nil, err
	}
	return blob, nil
}
