package schema

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/alpha-prosoft/eventseed/errors"
)

// Validator checks template documents against the embedded #Template schema.
// It holds a CUE context and is not safe for concurrent use.
type Validator struct {
	ctx      *cue.Context
	template cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	src, err := CueModule.ReadFile(TemplateFile)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read embedded template schema")
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(src, cue.Filename(TemplateFile))
	if err := schema.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to compile template schema")
	}

	def := schema.LookupPath(cue.ParsePath(TemplateDefinition))
	if !def.Exists() {
		return nil, errors.New(errors.CodeInternal, "template schema has no "+TemplateDefinition+" definition")
	}

	return &Validator{ctx: ctx, template: def}, nil
}

// Validate reports whether data is a JSON document satisfying #Template.
// Violations are returned as CodeSchemaFailed with every CUE error listed.
func (v *Validator) Validate(data []byte) error {
	expr, err := cuejson.Extract("template.json", data)
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "template is not valid JSON")
	}

	doc := v.ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "failed to build template value")
	}

	unified := v.template.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return errors.WrapWithContext(
			err,
			errors.CodeSchemaFailed,
			"template does not match schema",
			map[string]interface{}{
				"details": cueerrors.Details(err, nil),
			},
		)
	}
	return nil
}
