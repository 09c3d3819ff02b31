package schema

import "embed"

// CueModule contains the embedded CUE schema definitions:
//   - template.cue: aggregate template document schema (#Template)
//
//go:embed template.cue
var CueModule embed.FS

// TemplateFile is the name of the template schema inside CueModule.
const TemplateFile = "template.cue"

// TemplateDefinition is the CUE definition template documents are unified with.
const TemplateDefinition = "#Template"
