package domain

// ActivityName is the canonical name of a competition activity within an event.
// The template document and the create-event command both key activities by
// these names.
type ActivityName string

const (
	// ActivityKata is the individual kata activity.
	ActivityKata ActivityName = "Kata"

	// ActivityKumite is the kumite (sparring) activity.
	ActivityKumite ActivityName = "Kumite"

	// ActivityTeamKata is the team kata activity.
	ActivityTeamKata ActivityName = "Team Kata"

	// ActivityCoach is the coach registration activity.
	ActivityCoach ActivityName = "Coach"
)

// Activities returns the fixed activity names in canonical order.
// The returned slice is a fresh copy.
func Activities() []ActivityName {
	return []ActivityName{
		ActivityKata,
		ActivityKumite,
		ActivityTeamKata,
		ActivityCoach,
	}
}

// Valid reports whether n is one of the fixed activity names.
func (n ActivityName) Valid() bool {
	switch n {
	case ActivityKata, ActivityKumite, ActivityTeamKata, ActivityCoach:
		return true
	}
	return false
}

// String returns the string representation of the ActivityName.
func (n ActivityName) String() string {
	return string(n)
}

// EventType is the keyword type of an event as understood by the remote service.
type EventType string

const (
	// EventTypeTournament is a tournament event.
	EventTypeTournament EventType = ":tournament"
)

// String returns the string representation of the EventType.
func (t EventType) String() string {
	return string(t)
}
