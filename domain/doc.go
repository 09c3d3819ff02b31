// Package domain provides the canonical type definitions shared by every
// eventseed component: identifiers, activity names, activity definitions and
// the create-event command envelope.
//
// This package is Layer 0 - it depends on nothing else in the module and is
// imported by the remapper, the command client and the pipeline.
//
// # Identifiers
//
// An Identifier is an opaque token. The remote service distinguishes plain
// values from references by a leading "#" sigil:
//
//	id := domain.Identifier("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
//	ref := id.Ref()                   // "#1b4e28ba-2fa1-11d2-883f-0016d3cca427"
//	ref.Plain() == id                 // true
//
// # Allocation
//
// Allocate generates every identifier a run needs up front, before any network
// call, so that the outbound command and the rewritten aggregate document carry
// identical values:
//
//	alloc := domain.Allocate()
//	env := domain.NewCreateEventEnvelope(alloc, applicationID, attrs)
//	idMap, err := aggregate.Remap(doc, alloc.Assignment())
//
// The assignment is a lookup table from ActivityName to Identifier; consumers
// never branch on activity names themselves.
package domain
