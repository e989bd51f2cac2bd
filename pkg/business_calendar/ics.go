package business_calendar

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/klokku/timesheet/pkg/settings"
	log "github.com/sirupsen/logrus"
)

const productId = "-//timesheet//holidays//RU"

// HolidaysICS renders the holiday set as an iCalendar feed of all-day events.
func HolidaysICS(s settings.Settings, now time.Time) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productId)
	cal.SetName("Праздничные дни")

	for _, h := range s.Holidays {
		day, err := h.Day(time.UTC)
		if err != nil {
			log.Warnf("Skipping holiday with malformed date %q", h.Date)
			continue
		}
		ev := cal.AddEvent(fmt.Sprintf("%s-%s@timesheet", h.Date, h.Kind))
		ev.SetDtStampTime(now.UTC())
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ev.SetSummary(h.Kind.Label())
		ev.SetDescription(DateStyleOverrides([]settings.Holiday{h})[h.Date].BackgroundColor)
	}
	return cal.Serialize(), nil
}
