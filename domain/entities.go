package domain

// ActivityDefinition declares one activity of an event.
type ActivityDefinition struct {
	// ActivityID is the reference identifier of the activity.
	ActivityID Identifier `json:"activity-id"`

	// Name is the canonical activity name.
	Name ActivityName `json:"name"`
}

// CommandID is the keyword identifying a command understood by the remote service.
type CommandID string

const (
	// CmdCreateEvent creates a new event together with its activities.
	CmdCreateEvent CommandID = ":create-event"
)

// EventAttrs are the attributes of a newly created event.
type EventAttrs struct {
	// Name is the display name of the event.
	Name string `json:"name"`

	// Date is the event date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Type is the event type keyword.
	Type EventType `json:"type"`

	// Activities lists the activities the event offers.
	Activities []ActivityDefinition `json:"activities"`
}

// CreateEventCommand asks the remote service to create an event.
type CreateEventCommand struct {
	// CmdID is always CmdCreateEvent.
	CmdID CommandID `json:"cmd-id"`

	// ApplicationID references the application the event belongs to.
	ApplicationID Identifier `json:"application-id"`

	// EventID is the reference form of the new event's identifier.
	EventID Identifier `json:"event-id"`

	// Attrs are the attributes of the new event.
	Attrs EventAttrs `json:"attrs"`
}

// User carries the caller's role selection. A nil SelectedRole is sent as null.
type User struct {
	SelectedRole *string `json:"selected-role"`
}

// CommandEnvelope is the outbound request sent to the command endpoint.
// It is write-only: nothing reads it back.
type CommandEnvelope struct {
	RequestID     Identifier           `json:"request-id"`
	InteractionID Identifier           `json:"interaction-id"`
	Commands      []CreateEventCommand `json:"commands"`
	User          User                 `json:"user"`
}

// NewCreateEventEnvelope builds the envelope for a single create-event command
// from a run's allocation. The activities in attrs are replaced by the
// allocation's definitions so the command and the remapped document agree.
func NewCreateEventEnvelope(a Allocation, applicationID Identifier, attrs EventAttrs) CommandEnvelope {
	attrs.Activities = a.Definitions()
	if attrs.Type == "" {
		attrs.Type = EventTypeTournament
	}

	return CommandEnvelope{
		RequestID:     a.RequestID(),
		InteractionID: a.InteractionID(),
		Commands: []CreateEventCommand{
			{
				CmdID:         CmdCreateEvent,
				ApplicationID: applicationID.Ref(),
				EventID:       a.EventRef(),
				Attrs:         attrs,
			},
		},
	}
}
