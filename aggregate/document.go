package aggregate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alpha-prosoft/eventseed/domain"
	"github.com/alpha-prosoft/eventseed/errors"
)

// Document field names.
const (
	FieldID           = "id"
	FieldEvent        = "event"
	FieldAttrs        = "attrs"
	FieldActivities   = "activities"
	FieldParticipants = "participants"
	FieldCategories   = "categories"
	FieldActivityID   = "activity-id"
	FieldName         = "name"
)

// Document is the aggregate state snapshot of one event.
// It has exactly one owner and is not safe for concurrent use.
type Document struct {
	root map[string]any
}

// Parse decodes a JSON aggregate document. Numbers are kept as json.Number so
// they are written back exactly as read.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "decode aggregate document")
	}
	if root == nil {
		return nil, errors.New(errors.CodeInvalidInput, "aggregate document must be a JSON object")
	}
	return &Document{root: root}, nil
}

// Marshal encodes the document as JSON indented by two spaces.
// Object keys are sorted, so equal documents encode to identical bytes.
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d.root, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "encode aggregate document")
	}
	return data, nil
}

// ID returns the document's top-level id, or "" when unset.
func (d *Document) ID() domain.Identifier {
	s, _ := d.root[FieldID].(string)
	return domain.Identifier(s)
}

// SetID sets the document's top-level id.
func (d *Document) SetID(id domain.Identifier) {
	d.root[FieldID] = id.String()
}

// Definitions returns the activity definitions under event.activities in
// document order.
func (d *Document) Definitions() ([]domain.ActivityDefinition, error) {
	objs, err := d.definitionObjects()
	if err != nil {
		return nil, err
	}

	defs := make([]domain.ActivityDefinition, 0, len(objs))
	for i, obj := range objs {
		path := fmt.Sprintf("event.activities[%d]", i)
		id, err := stringField(obj, FieldActivityID, path)
		if err != nil {
			return nil, err
		}
		name, err := stringField(obj, FieldName, path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, domain.ActivityDefinition{
			ActivityID: domain.Identifier(id),
			Name:       domain.ActivityName(name),
		})
	}
	return defs, nil
}

// Reference is one activity reference outside the definitions.
type Reference struct {
	// Site is the document path of the referencing object.
	Site string

	// ActivityID is the referenced activity identifier.
	ActivityID domain.Identifier
}

// References returns every participant and category activity reference in
// document order.
func (d *Document) References() ([]Reference, error) {
	var refs []Reference
	err := d.walkReferences(func(site string, obj map[string]any) error {
		id, err := stringField(obj, FieldActivityID, site)
		if err != nil {
			return err
		}
		refs = append(refs, Reference{Site: site, ActivityID: domain.Identifier(id)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (d *Document) definitionObjects() ([]map[string]any, error) {
	event, ok := d.root[FieldEvent].(map[string]any)
	if !ok {
		return nil, malformed(FieldEvent, "event must be an object")
	}
	return objectList(event[FieldActivities], "event.activities", true)
}

// walkReferences calls fn for every activity reference object under
// attrs.participants[*].activities and attrs.categories, in that order.
func (d *Document) walkReferences(fn func(site string, obj map[string]any) error) error {
	raw, present := d.root[FieldAttrs]
	if !present {
		return nil
	}
	attrs, ok := raw.(map[string]any)
	if !ok {
		return malformed(FieldAttrs, "attrs must be an object")
	}

	participants, err := objectList(attrs[FieldParticipants], "attrs.participants", false)
	if err != nil {
		return err
	}
	for pi, p := range participants {
		base := fmt.Sprintf("attrs.participants[%d]", pi)
		acts, err := objectList(p[FieldActivities], base+".activities", false)
		if err != nil {
			return err
		}
		for ai, ref := range acts {
			if err := fn(fmt.Sprintf("%s.activities[%d]", base, ai), ref); err != nil {
				return err
			}
		}
	}

	categories, err := objectList(attrs[FieldCategories], "attrs.categories", false)
	if err != nil {
		return err
	}
	for ci, c := range categories {
		if err := fn(fmt.Sprintf("attrs.categories[%d]", ci), c); err != nil {
			return err
		}
	}
	return nil
}

// objectList asserts raw is a list of JSON objects. A nil raw value is an
// empty list unless required is set.
func objectList(raw any, path string, required bool) ([]map[string]any, error) {
	if raw == nil {
		if required {
			return nil, malformed(path, "list is missing")
		}
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, malformed(path, "expected a list")
	}

	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, malformed(fmt.Sprintf("%s[%d]", path, i), "expected an object")
		}
		out = append(out, obj)
	}
	return out, nil
}

func stringField(obj map[string]any, field, path string) (string, error) {
	s, ok := obj[field].(string)
	if !ok {
		return "", malformed(path+"."+field, "expected a string")
	}
	return s, nil
}
