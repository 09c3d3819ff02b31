package aggregate

import (
	"github.com/alpha-prosoft/eventseed/domain"
	"github.com/alpha-prosoft/eventseed/errors"
)

func missingMapping(name domain.ActivityName, index int) error {
	return errors.New(errors.CodeMissingMapping, "no identifier assigned to activity").
		WithContext("name", name.String()).
		WithContext("definition", index)
}

func missingDefinition(name domain.ActivityName) error {
	return errors.New(errors.CodeMissingMapping, "activity not defined in template").
		WithContext("name", name.String())
}

func duplicateDefinition(name domain.ActivityName, first, second int) error {
	return errors.New(errors.CodeMissingMapping, "activity defined more than once").
		WithContext("name", name.String()).
		WithContext("first", first).
		WithContext("second", second)
}

func unresolvedReference(site, activityID string) error {
	return errors.New(errors.CodeUnresolvedReference, "reference to undefined activity").
		WithContext("site", site).
		WithContext("activity-id", activityID)
}

func malformed(path, reason string) error {
	return errors.New(errors.CodeInvalidInput, reason).WithContext("path", path)
}

// IsMissingMapping reports whether err is a missing or duplicate activity
// mapping failure.
func IsMissingMapping(err error) bool {
	return errors.HasCode(err, errors.CodeMissingMapping)
}

// IsUnresolvedReference reports whether err is a dangling activity reference.
func IsUnresolvedReference(err error) bool {
	return errors.HasCode(err, errors.CodeUnresolvedReference)
}
