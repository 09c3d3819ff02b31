// Package aggregate holds the aggregate document of an event and the
// reference remapper that rewrites its activity identifiers.
//
// A Document is kept as a generic JSON tree so fields the remapper does not
// understand round-trip unchanged. Remap rewrites every activity definition's
// identifier by name and propagates the substitution to participant and
// category references:
//
//	doc, err := aggregate.Parse(data)
//	idMap, err := aggregate.Remap(doc, alloc.Assignment())
//
// Remap is transactional: either every reference resolves and the document is
// rewritten, or an error is returned and the document is left untouched.
package aggregate
