package seed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-prosoft/eventseed/aggregate"
	"github.com/alpha-prosoft/eventseed/audit"
	"github.com/alpha-prosoft/eventseed/command"
	"github.com/alpha-prosoft/eventseed/domain"
	"github.com/alpha-prosoft/eventseed/errors"
	"github.com/alpha-prosoft/eventseed/fs/billy"
	schema "github.com/alpha-prosoft/eventseed/schemas"
	"github.com/alpha-prosoft/eventseed/store"
	"github.com/alpha-prosoft/eventseed/waiter"
)

const (
	templatePath = "/work/sample.json"
	auditDir     = "/work/tmp"
	eventKey     = "aggregates/event-tournament-svc/prod/evt-1.json"
)

var runTime = time.Date(2025, 6, 14, 9, 5, 0, 0, time.UTC)

func fixedAllocation() domain.Allocation {
	ids := []string{"evt-1", "req-1", "int-1", "N1", "N2", "N3", "N4"}
	i := 0
	return domain.AllocateWith(func() string {
		id := ids[i]
		i++
		return id
	})
}

func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "aggregate", "testdata", "template.json"))
	require.NoError(t, err)
	return data
}

// failingStore fails every existence check.
type failingStore struct {
	*store.Memory
}

func (f failingStore) Exists(context.Context, string) (bool, error) {
	return false, assert.AnError
}

type fixture struct {
	t        *testing.T
	fs       *billy.FS
	store    store.ObjectStore
	memory   *store.Memory
	server   *httptest.Server
	requests []*http.Request
	bodies   [][]byte
	status   int
	dryRun   bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{t: t, fs: billy.NewInMemoryFS(), memory: store.NewMemory(), status: http.StatusOK}
	f.store = f.memory
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.requests = append(f.requests, r)
		f.bodies = append(f.bodies, body)
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(f.server.Close)

	require.NoError(t, f.fs.MkdirAll("/work", 0o755))
	f.writeTemplate(readFixture(t))
	return f
}

func (f *fixture) writeTemplate(data []byte) {
	require.NoError(f.t, f.fs.WriteFile(templatePath, data, 0o644))
}

func (f *fixture) pipeline() *Pipeline {
	validator, err := schema.NewValidator()
	require.NoError(f.t, err)

	var submitter command.Submitter
	if !f.dryRun {
		submitter = command.NewClient(f.server.URL+"/command",
			command.WithToken("test-token"),
			command.WithService(":event-tournament-svc"),
		)
	}

	w := waiter.New(f.store,
		waiter.WithSleeper(func(context.Context, time.Duration) error { return nil }),
	)

	return New(Settings{
		TemplatePath: templatePath,
		Event: command.EventSpec{
			ApplicationID: "d3f9ed78-8f80-4808-bad6-388a26c09558",
			Date:          "2025-06-14",
		},
		StoreService: "event-tournament-svc",
		Stage:        "prod",
		WebURL:       "https://web.example:3003/",
		DryRun:       f.dryRun,
	}, submitter, f.fs, audit.NewWriter(f.fs, auditDir), f.store, w,
		WithAllocator(fixedAllocation),
		WithClock(func() time.Time { return runTime }),
		WithValidator(validator),
	)
}

func (f *fixture) exists(path string) bool {
	ok, err := f.fs.Exists(path)
	require.NoError(f.t, err)
	return ok
}

func TestRun_EndToEnd(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.memory.Put(context.Background(), eventKey, []byte(`{"placeholder":true}`)))

	sum, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.Identifier("evt-1"), sum.EventID)
	assert.Equal(t, "https://web.example:3003/tournament/evt-1", sum.EventURL)
	assert.Equal(t, eventKey, sum.Key)
	assert.Equal(t, "memory://"+eventKey, sum.Location)
	assert.True(t, sum.Submitted)
	assert.Equal(t, http.StatusOK, sum.Status)
	assert.Equal(t, waiter.StatePublished, sum.Wait.State)
	assert.True(t, sum.Wait.Found)
	assert.Equal(t, 1, sum.Wait.Checks)
	assert.Equal(t, aggregate.IdentifierMap{"#A1": "#N1", "#A2": "#N2", "#A3": "#N3", "#A4": "#N4"}, sum.IdentifierMap)

	// Command.
	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, "test-token", req.Header.Get(command.AuthHeader))
	assert.Equal(t, ":event-tournament-svc", req.URL.Query().Get("dbg_service"))
	assert.Equal(t, ":create-event", req.URL.Query().Get("dbg_cmds"))

	var env domain.CommandEnvelope
	require.NoError(t, json.Unmarshal(f.bodies[0], &env))
	require.Len(t, env.Commands, 1)
	assert.Equal(t, domain.Identifier("#evt-1"), env.Commands[0].EventID)
	assert.Equal(t, "Test '14/09-05'", env.Commands[0].Attrs.Name)
	assert.Equal(t, fixedAllocation().Definitions(), env.Commands[0].Attrs.Activities)

	// Published document overwrote the placeholder.
	published, ok := f.memory.Get(eventKey)
	require.True(t, ok)
	assert.NotContains(t, string(published), "placeholder")

	doc, err := aggregate.Parse(published)
	require.NoError(t, err)
	assert.Equal(t, domain.Identifier("#evt-1"), doc.ID())

	defs, err := doc.Definitions()
	require.NoError(t, err)
	assert.Equal(t, fixedAllocation().Definitions(), defs)

	refs, err := doc.References()
	require.NoError(t, err)
	for _, ref := range refs {
		assert.Contains(t, []domain.Identifier{"#N1", "#N2", "#N3", "#N4"}, ref.ActivityID, ref.Site)
	}

	// Audit copies.
	assert.Equal(t, "/work/tmp/14-09-05.old.json", sum.AuditBefore)
	assert.Equal(t, "/work/tmp/14-09-05.new.json", sum.AuditAfter)

	before, err := f.fs.ReadFile(sum.AuditBefore)
	require.NoError(t, err)
	assert.Contains(t, string(before), `"#A1"`)
	assert.Contains(t, string(before), `"#evt-1"`)

	after, err := f.fs.ReadFile(sum.AuditAfter)
	require.NoError(t, err)
	assert.Equal(t, published, after)
}

func TestRun_WaitsForServiceSnapshot(t *testing.T) {
	f := newFixture(t)
	f.store = failingStore{Memory: f.memory}

	_, err := f.pipeline().Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeStoreAccess))
	assert.Equal(t, 0, f.memory.Puts())
}

func TestRun_TimeoutStillPublishes(t *testing.T) {
	f := newFixture(t)

	sum, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)
	assert.False(t, sum.Wait.Found)
	assert.Equal(t, waiter.StatePublished, sum.Wait.State)
	assert.Equal(t, 30, sum.Wait.Checks)
	assert.Equal(t, 1, f.memory.Puts())
}

func TestRun_SubmissionFailureHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	f.status = http.StatusUnauthorized

	sum, err := f.pipeline().Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeSubmissionFailed))
	assert.Equal(t, domain.Identifier("evt-1"), sum.EventID)

	assert.Equal(t, 0, f.memory.Puts())
	assert.False(t, f.exists(auditDir))
}

func TestRun_UnresolvedReference(t *testing.T) {
	f := newFixture(t)
	f.writeTemplate([]byte(`{
		"event": {"activities": [
			{"activity-id": "#A1", "name": "Kata"},
			{"activity-id": "#A2", "name": "Kumite"},
			{"activity-id": "#A3", "name": "Team Kata"},
			{"activity-id": "#A4", "name": "Coach"}
		]},
		"attrs": {"categories": [{"activity-id": "#GONE"}]}
	}`))

	sum, err := f.pipeline().Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeUnresolvedReference))
	assert.Equal(t, 0, f.memory.Puts())

	assert.True(t, f.exists(sum.AuditBefore))
	assert.Empty(t, sum.AuditAfter)
}

func TestRun_TemplateErrors(t *testing.T) {
	tests := []struct {
		name     string
		template []byte
		code     errors.ErrorCode
	}{
		{name: "schema violation", template: []byte(`{"attrs": {}}`), code: errors.CodeSchemaFailed},
		{name: "not json", template: []byte(`{"event":`), code: errors.CodeInvalidInput},
		{
			name: "activity missing from template",
			template: []byte(`{"event": {"activities": [
				{"activity-id": "#A1", "name": "Kata"},
				{"activity-id": "#A2", "name": "Kumite"},
				{"activity-id": "#A3", "name": "Team Kata"}
			]}}`),
			code: errors.CodeMissingMapping,
		},
		{
			name:     "unknown activity name",
			template: []byte(`{"event": {"activities": [{"activity-id": "#A1", "name": "Judo"}]}}`),
			code:     errors.CodeMissingMapping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.writeTemplate(tt.template)

			_, err := f.pipeline().Run(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "got %v", err)
			assert.Equal(t, 0, f.memory.Puts())
		})
	}
}

func TestRun_MissingTemplate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.fs.Raw().Remove(templatePath))

	_, err := f.pipeline().Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeFilesystem))
}

func TestRun_DryRun(t *testing.T) {
	f := newFixture(t)
	f.dryRun = true

	sum, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	assert.False(t, sum.Submitted)
	assert.Empty(t, f.requests)
	assert.Equal(t, 1, f.memory.Puts())
	assert.True(t, f.exists(sum.AuditAfter))
}

func TestRemapTemplate(t *testing.T) {
	out, idMap, err := RemapTemplate(readFixture(t), fixedAllocation(), nil)
	require.NoError(t, err)
	assert.Len(t, idMap, 4)
	assert.Contains(t, string(out), `"id": "#evt-1"`)
	assert.NotContains(t, string(out), `"#A1"`)

	again, _, err := RemapTemplate(readFixture(t), fixedAllocation(), nil)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestRemapTemplate_PlainIdentifiers(t *testing.T) {
	v, err := schema.NewValidator()
	require.NoError(t, err)

	data := []byte(`{
		"event": {"activities": [
			{"activity-id": "A1", "name": "Kata"},
			{"activity-id": "A2", "name": "Kumite"},
			{"activity-id": "A3", "name": "Team Kata"},
			{"activity-id": "A4", "name": "Coach"}
		]},
		"attrs": {
			"participants": [{"activities": [{"activity-id": "A2"}, {"activity-id": "A3"}]}],
			"categories": [{"activity-id": "A4"}]
		}
	}`)

	out, idMap, err := RemapTemplate(data, fixedAllocation(), v)
	require.NoError(t, err)
	assert.Equal(t, aggregate.IdentifierMap{"A1": "#N1", "A2": "#N2", "A3": "#N3", "A4": "#N4"}, idMap)

	doc, err := aggregate.Parse(out)
	require.NoError(t, err)
	refs, err := doc.References()
	require.NoError(t, err)
	assert.Equal(t, []aggregate.Reference{
		{Site: "attrs.participants[0].activities[0]", ActivityID: "#N2"},
		{Site: "attrs.participants[0].activities[1]", ActivityID: "#N3"},
		{Site: "attrs.categories[0]", ActivityID: "#N4"},
	}, refs)
}

func TestEventURL(t *testing.T) {
	assert.Equal(t, "https://w.example/tournament/abc", EventURL("https://w.example", "abc"))
	assert.Equal(t, "https://w.example/tournament/abc", EventURL("https://w.example/", "#abc"))
}
