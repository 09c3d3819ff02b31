// Package seed runs the end-to-end seeding of one test event: create the event
// through the command endpoint, remap a template aggregate onto the new
// identifiers and publish it once the service's own snapshot has landed.
//
// A run is strictly sequential. The only suspension point is the consistency
// wait before publishing.
package seed

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alpha-prosoft/eventseed/aggregate"
	"github.com/alpha-prosoft/eventseed/audit"
	"github.com/alpha-prosoft/eventseed/command"
	"github.com/alpha-prosoft/eventseed/domain"
	"github.com/alpha-prosoft/eventseed/errors"
	"github.com/alpha-prosoft/eventseed/fs"
	schema "github.com/alpha-prosoft/eventseed/schemas"
	"github.com/alpha-prosoft/eventseed/store"
	"github.com/alpha-prosoft/eventseed/waiter"
)

// Settings are the per-run inputs of a Pipeline.
type Settings struct {
	// TemplatePath is the template document on the pipeline filesystem.
	TemplatePath string

	// Event is the create-event payload.
	Event command.EventSpec

	// StoreService and Stage select the aggregate key.
	StoreService string
	Stage        string

	// WebURL is the base of the event link in the summary.
	WebURL string

	// DryRun skips command submission.
	DryRun bool
}

// Summary describes a finished run.
type Summary struct {
	EventID  domain.Identifier
	EventURL string

	// Key and Location identify the published aggregate.
	Key      string
	Location string

	// IdentifierMap maps the template's activity ids to the new ones.
	IdentifierMap aggregate.IdentifierMap

	// AuditBefore and AuditAfter are the audit copy paths.
	AuditBefore string
	AuditAfter  string

	// Submitted is false for dry runs. Status is the endpoint's HTTP status.
	Submitted bool
	Status    int

	Wait *waiter.Result
}

// Pipeline wires the components of a run.
type Pipeline struct {
	settings  Settings
	submitter command.Submitter
	fs        fs.Filesystem
	audit     *audit.Writer
	store     store.ObjectStore
	waiter    *waiter.Waiter
	validator *schema.Validator
	allocate  func() domain.Allocation
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAllocator replaces domain.Allocate, for deterministic identifiers.
func WithAllocator(fn func() domain.Allocation) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.allocate = fn
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithValidator sets the template validator. Without one the template is not
// schema checked.
func WithValidator(v *schema.Validator) Option {
	return func(p *Pipeline) {
		p.validator = v
	}
}

// New assembles a pipeline. submitter may be nil for dry runs.
func New(
	settings Settings,
	submitter command.Submitter,
	fsys fs.Filesystem,
	auditWriter *audit.Writer,
	objects store.ObjectStore,
	w *waiter.Waiter,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		settings:  settings,
		submitter: submitter,
		fs:        fsys,
		audit:     auditWriter,
		store:     objects,
		waiter:    w,
		allocate:  domain.Allocate,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run performs one seeding run.
//
// Errors:
//   - CodeSubmissionFailed: the create-event command was rejected; nothing was written
//   - CodeFilesystem: the template could not be read or an audit copy written
//   - CodeSchemaFailed, CodeInvalidInput: the template is not a valid aggregate
//   - CodeMissingMapping, CodeUnresolvedReference: the template cannot be remapped
//   - CodeStoreAccess, CodeTimeout: see waiter.Waiter.AwaitThenPublish
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	now := p.now()
	alloc := p.allocate()
	sum := &Summary{
		EventID:  alloc.EventID(),
		EventURL: EventURL(p.settings.WebURL, alloc.EventID()),
		Key:      store.AggregateKey(p.settings.StoreService, p.settings.Stage, alloc.EventID().String()),
	}
	sum.Location = p.store.Location(sum.Key)
	p.logInfo(ctx, "identifiers allocated", "event_id", alloc.EventID().String())

	if p.settings.DryRun || p.submitter == nil {
		p.logInfo(ctx, "dry run, skipping command submission")
	} else {
		env := command.BuildCreateEvent(alloc, p.settings.Event, now)
		resp, err := p.submitter.Submit(ctx, env)
		if err != nil {
			return sum, err
		}
		sum.Submitted = true
		sum.Status = resp.Status
	}

	data, err := p.fs.ReadFile(p.settings.TemplatePath)
	if err != nil {
		return sum, errors.WrapWithContext(err, errors.CodeFilesystem, "read template",
			map[string]interface{}{"path": p.settings.TemplatePath})
	}

	doc, err := Prepare(data, alloc, p.validator)
	if err != nil {
		return sum, err
	}

	suffix := audit.Suffix(now)
	before, err := doc.Marshal()
	if err != nil {
		return sum, err
	}
	if sum.AuditBefore, err = p.audit.WriteBefore(suffix, before); err != nil {
		return sum, err
	}

	sum.IdentifierMap, err = aggregate.Remap(doc, alloc.Assignment())
	if err != nil {
		return sum, err
	}
	p.logIdentifierMap(ctx, sum.IdentifierMap)

	after, err := doc.Marshal()
	if err != nil {
		return sum, err
	}
	if sum.AuditAfter, err = p.audit.WriteAfter(suffix, after); err != nil {
		return sum, err
	}

	sum.Wait, err = p.waiter.AwaitThenPublish(ctx, sum.Key, after)
	if err != nil {
		return sum, err
	}

	p.logInfo(ctx, "aggregate published",
		"location", sum.Location,
		"state", sum.Wait.State.String(),
		"event_url", sum.EventURL,
	)
	return sum, nil
}

// Prepare parses a template, validates it when v is non-nil and sets its id
// to the reference form of the allocated event identifier.
func Prepare(data []byte, alloc domain.Allocation, v *schema.Validator) (*aggregate.Document, error) {
	if v != nil {
		if err := v.Validate(data); err != nil {
			return nil, err
		}
	}
	doc, err := aggregate.Parse(data)
	if err != nil {
		return nil, err
	}
	doc.SetID(alloc.EventRef())
	return doc, nil
}

// RemapTemplate prepares and remaps a template with alloc and returns the
// encoded result.
func RemapTemplate(data []byte, alloc domain.Allocation, v *schema.Validator) ([]byte, aggregate.IdentifierMap, error) {
	doc, err := Prepare(data, alloc, v)
	if err != nil {
		return nil, nil, err
	}
	idMap, err := aggregate.Remap(doc, alloc.Assignment())
	if err != nil {
		return nil, nil, err
	}
	out, err := doc.Marshal()
	if err != nil {
		return nil, nil, err
	}
	return out, idMap, nil
}

// EventURL returns the web link of an event.
func EventURL(webURL string, eventID domain.Identifier) string {
	return strings.TrimRight(webURL, "/") + "/tournament/" + eventID.Plain().String()
}

func (p *Pipeline) logIdentifierMap(ctx context.Context, idMap aggregate.IdentifierMap) {
	if p.logger == nil {
		return
	}
	for oldID, newID := range idMap {
		p.logger.DebugContext(ctx, "activity remapped", "from", oldID.String(), "to", newID.String())
	}
}

func (p *Pipeline) logInfo(ctx context.Context, msg string, args ...any) {
	if p.logger != nil {
		p.logger.InfoContext(ctx, msg, args...)
	}
}
