package aggregate

import (
	"fmt"
	"sort"

	"github.com/alpha-prosoft/eventseed/domain"
	"github.com/alpha-prosoft/eventseed/errors"
)

// IdentifierMap maps an activity's original identifier to its new one.
type IdentifierMap map[domain.Identifier]domain.Identifier

// pendingWrite is a resolved substitution not yet applied to the document.
type pendingWrite struct {
	obj   map[string]any
	newID domain.Identifier
}

// Remap rewrites every activity identifier in doc to the identifier assigned
// to the activity's name, and rewrites participant and category references to
// match. It returns the original-to-new identifier map.
//
// All definitions are scanned before any reference is resolved, so a reference
// may precede its definition in document order. Every substitution is resolved
// before the first write; on error doc is unchanged.
//
// Errors:
//   - CodeMissingMapping: a definition's name has no assigned identifier, an
//     assigned name has no definition, or two definitions share a name
//   - CodeUnresolvedReference: a reference names no defined activity
//   - CodeInvalidInput: the document is structurally malformed
//
// Remap destroys the original identifiers; call it once per document.
func Remap(doc *Document, assignment map[domain.ActivityName]domain.Identifier) (IdentifierMap, error) {
	defs, err := doc.definitionObjects()
	if err != nil {
		return nil, err
	}

	idMap := make(IdentifierMap, len(defs))
	writes := make([]pendingWrite, 0, len(defs))
	seen := make(map[domain.ActivityName]int, len(defs))

	// Pass 1: definitions.
	for i, def := range defs {
		path := fmt.Sprintf("event.activities[%d]", i)
		rawName, err := stringField(def, FieldName, path)
		if err != nil {
			return nil, err
		}
		oldID, err := stringField(def, FieldActivityID, path)
		if err != nil {
			return nil, err
		}

		name := domain.ActivityName(rawName)
		if first, dup := seen[name]; dup {
			return nil, duplicateDefinition(name, first, i)
		}
		seen[name] = i

		newID, ok := assignment[name]
		if !ok || newID.IsZero() {
			return nil, missingMapping(name, i)
		}
		if prev, clash := idMap[domain.Identifier(oldID)]; clash && prev != newID {
			return nil, errors.New(errors.CodeInvalidInput, "activity identifier shared by two definitions").
				WithContext("activity-id", oldID).
				WithContext("path", path)
		}

		idMap[domain.Identifier(oldID)] = newID
		writes = append(writes, pendingWrite{obj: def, newID: newID})
	}

	if err := checkDefined(assignment, seen); err != nil {
		return nil, err
	}

	// Passes 2 and 3: participant then category references.
	err = doc.walkReferences(func(site string, obj map[string]any) error {
		oldID, err := stringField(obj, FieldActivityID, site)
		if err != nil {
			return err
		}
		newID, ok := idMap[domain.Identifier(oldID)]
		if !ok {
			return unresolvedReference(site, oldID)
		}
		writes = append(writes, pendingWrite{obj: obj, newID: newID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, w := range writes {
		w.obj[FieldActivityID] = w.newID.String()
	}
	return idMap, nil
}

// checkDefined fails on the first assigned name, in sorted order, that no
// definition carries.
func checkDefined(assignment map[domain.ActivityName]domain.Identifier, seen map[domain.ActivityName]int) error {
	var missing []domain.ActivityName
	for name := range assignment {
		if _, ok := seen[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missingDefinition(missing[0])
}
