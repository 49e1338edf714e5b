package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// Event is one calendar entry. Weekly events repeat on the weekday of Start.
type Event struct {
	UID         string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
	Weekly      bool
	// Occurrences bounds a weekly event; zero repeats without end.
	Occurrences int
}

// ICSExporter renders events into an iCalendar document.
type ICSExporter struct {
	productID string
	now       func() time.Time
}

// NewICSExporter constructs an ICS exporter that stamps the given product id.
func NewICSExporter(productID string) *ICSExporter {
	return &ICSExporter{productID: productID, now: time.Now}
}

// Render serialises events in order.
func (e *ICSExporter) Render(calendarName string, events []Event) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.productID)
	if calendarName != "" {
		cal.SetName(calendarName)
		cal.SetXWRCalName(calendarName)
	}

	stamp := e.now().UTC()
	for i, evt := range events {
		if evt.UID == "" {
			return nil, fmt.Errorf("ics event %d has no uid", i)
		}
		if !evt.End.After(evt.Start) {
			return nil, fmt.Errorf("ics event %s ends before it starts", evt.UID)
		}
		vevent := cal.AddEvent(evt.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(evt.Start)
		vevent.SetEndAt(evt.End)
		vevent.SetSummary(evt.Summary)
		if evt.Location != "" {
			vevent.SetLocation(evt.Location)
		}
		if evt.Description != "" {
			vevent.SetDescription(evt.Description)
		}
		if evt.Weekly {
			vevent.SetProperty(ics.ComponentPropertyRrule, weeklyRule(evt.Occurrences))
		}
	}
	return []byte(cal.Serialize()), nil
}

func weeklyRule(occurrences int) string {
	if occurrences > 0 {
		return fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", occurrences)
	}
	return "FREQ=WEEKLY"
}
