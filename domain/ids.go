package domain

import (
	"strings"

	"github.com/google/uuid"
)

// RefSigil marks an identifier as a cross-reference rather than a plain value.
const RefSigil = "#"

// Identifier is an opaque token. Equality is exact string equality.
type Identifier string

// IsRef reports whether the identifier carries the reference sigil.
func (id Identifier) IsRef() bool {
	return strings.HasPrefix(string(id), RefSigil)
}

// Ref returns the reference form of the identifier. It is idempotent.
func (id Identifier) Ref() Identifier {
	if id.IsRef() {
		return id
	}
	return Identifier(RefSigil + string(id))
}

// Plain returns the identifier without the reference sigil. It is idempotent.
func (id Identifier) Plain() Identifier {
	return Identifier(strings.TrimPrefix(string(id), RefSigil))
}

// IsZero reports whether the identifier is empty.
func (id Identifier) IsZero() bool {
	return id == ""
}

// String returns the string representation of the Identifier.
func (id Identifier) String() string {
	return string(id)
}

// Allocation is the immutable set of identifiers generated for one run.
// It is threaded explicitly through the command builder and the remapper.
type Allocation struct {
	eventID       Identifier
	requestID     Identifier
	interactionID Identifier
	activities    map[ActivityName]Identifier
}

// Allocate generates every identifier a run needs using random UUIDs.
// It cannot fail.
func Allocate() Allocation {
	return AllocateWith(uuid.NewString)
}

// AllocateWith generates identifiers using gen as the source of unique tokens.
// gen is called once for the event, request and interaction ids, then once
// per activity in canonical order.
func AllocateWith(gen func() string) Allocation {
	a := Allocation{
		eventID:       Identifier(gen()).Plain(),
		requestID:     Identifier(gen()).Ref(),
		interactionID: Identifier(gen()).Ref(),
		activities:    make(map[ActivityName]Identifier, len(Activities())),
	}
	for _, name := range Activities() {
		a.activities[name] = Identifier(gen()).Ref()
	}
	return a
}

// EventID returns the plain event identifier, used for store keys and URLs.
func (a Allocation) EventID() Identifier {
	return a.eventID
}

// EventRef returns the reference form of the event identifier, used inside
// commands and documents.
func (a Allocation) EventRef() Identifier {
	return a.eventID.Ref()
}

// RequestID returns the request identifier for the command envelope.
func (a Allocation) RequestID() Identifier {
	return a.requestID
}

// InteractionID returns the interaction identifier for the command envelope.
func (a Allocation) InteractionID() Identifier {
	return a.interactionID
}

// Assignment returns a copy of the activity name to identifier lookup table.
func (a Allocation) Assignment() map[ActivityName]Identifier {
	out := make(map[ActivityName]Identifier, len(a.activities))
	for k, v := range a.activities {
		out[k] = v
	}
	return out
}

// Definitions returns the activity definitions in canonical order.
func (a Allocation) Definitions() []ActivityDefinition {
	defs := make([]ActivityDefinition, 0, len(a.activities))
	for _, name := range Activities() {
		defs = append(defs, ActivityDefinition{
			ActivityID: a.activities[name],
			Name:       name,
		})
	}
	return defs
}
