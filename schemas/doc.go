// Package schema provides the CUE schema for aggregate template documents and a
// validator that checks a JSON template against it before remapping.
//
// # CUE Module
//
// The CueModule variable embeds the schema definitions at build time. The
// #Template definition describes the parts of a template the remapper relies
// on: event.activities definitions with non-empty identifiers, and the
// optional participant and category references under attrs. Every struct is
// open, so fields the schema does not name pass through unchecked.
//
// # Usage Example
//
//	v, err := schema.NewValidator()
//	if err != nil {
//	    return err
//	}
//	if err := v.Validate(data); err != nil {
//	    // errors.HasCode(err, errors.CodeSchemaFailed)
//	}
package schema
