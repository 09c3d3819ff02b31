package command

import (
	"fmt"
	"time"

	"github.com/alpha-prosoft/eventseed/domain"
)

// NameLayout is the time layout embedded in generated event names (day/hour-minute).
const NameLayout = "02/15-04"

// EventSpec holds the caller-chosen attributes of a new event.
type EventSpec struct {
	// ApplicationID is the application the event belongs to.
	ApplicationID domain.Identifier

	// Name overrides the generated "Test '<dd/HH-MM>'" name.
	Name string

	// Date is the event date in YYYY-MM-DD form.
	Date string

	// Type defaults to domain.EventTypeTournament.
	Type domain.EventType
}

// EventName returns the default display name for an event created at now.
func EventName(now time.Time) string {
	return fmt.Sprintf("Test '%s'", now.Format(NameLayout))
}

// BuildCreateEvent returns the create-event envelope for a run.
func BuildCreateEvent(a domain.Allocation, spec EventSpec, now time.Time) domain.CommandEnvelope {
	name := spec.Name
	if name == "" {
		name = EventName(now)
	}
	return domain.NewCreateEventEnvelope(a, spec.ApplicationID, domain.EventAttrs{
		Name: name,
		Date: spec.Date,
		Type: spec.Type,
	})
}
