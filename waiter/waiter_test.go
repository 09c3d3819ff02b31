package waiter

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-prosoft/eventseed/errors"
	"github.com/alpha-prosoft/eventseed/store"
)

// scriptedStore answers Exists from a script and records Put calls.
type scriptedStore struct {
	*store.Memory
	appearAfter int // object appears on this check (1-based); 0 never
	existsErrAt int
	existsErr   error
	putErr      error
	checks      int
	events      []string
}

func newScripted() *scriptedStore {
	return &scriptedStore{Memory: store.NewMemory()}
}

func (s *scriptedStore) Exists(ctx context.Context, key string) (bool, error) {
	s.checks++
	s.events = append(s.events, "check")
	if s.existsErrAt != 0 && s.checks == s.existsErrAt {
		return false, s.existsErr
	}
	return s.appearAfter != 0 && s.checks >= s.appearAfter, nil
}

func (s *scriptedStore) Put(ctx context.Context, key string, data []byte) error {
	s.events = append(s.events, "put")
	if s.putErr != nil {
		return s.putErr
	}
	return s.Memory.Put(ctx, key, data)
}

type recordingSleeper struct {
	sleeps []time.Duration
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.sleeps = append(r.sleeps, d)
	return nil
}

func TestAwaitThenPublish_FoundAfterMisses(t *testing.T) {
	for _, misses := range []int{0, 1, 3, 29} {
		s := newScripted()
		s.appearAfter = misses + 1
		sl := &recordingSleeper{}

		w := New(s, WithSleeper(sl.sleep))
		res, err := w.AwaitThenPublish(context.Background(), "k", []byte("payload"))
		require.NoError(t, err)

		assert.Equal(t, misses+1, res.Checks, "misses=%d", misses)
		assert.True(t, res.Found)
		assert.Equal(t, StatePublished, res.State)
		assert.Equal(t, time.Duration(misses)*DefaultPollInterval, res.Waited)
		assert.Len(t, sl.sleeps, misses)
		assert.Equal(t, 1, s.Puts())

		got, _ := s.Get("k")
		assert.Equal(t, "payload", string(got))
	}
}

func TestAwaitThenPublish_Timeout(t *testing.T) {
	tests := []struct {
		name       string
		maxWait    time.Duration
		poll       time.Duration
		wantChecks int
	}{
		{"defaults", DefaultMaxWait, DefaultPollInterval, 30},
		{"uneven budget rounds up", 25 * time.Second, 10 * time.Second, 3},
		{"single check", time.Second, 10 * time.Second, 1},
		{"no budget", 0, 10 * time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScripted()
			sl := &recordingSleeper{}

			w := New(s, WithMaxWait(tt.maxWait), WithPollInterval(tt.poll), WithSleeper(sl.sleep))
			res, err := w.AwaitThenPublish(context.Background(), "k", []byte("x"))
			require.NoError(t, err)

			assert.Equal(t, tt.wantChecks, res.Checks)
			assert.False(t, res.Found)
			assert.Equal(t, StatePublished, res.State)
			assert.Equal(t, 1, s.Puts())
			if tt.wantChecks > 0 {
				assert.Equal(t, "put", s.events[len(s.events)-1])
			}
		})
	}
}

func TestAwaitThenPublish_Strict(t *testing.T) {
	s := newScripted()
	sl := &recordingSleeper{}

	w := New(s, WithMaxWait(30*time.Second), WithSleeper(sl.sleep), WithStrict(true))
	res, err := w.AwaitThenPublish(context.Background(), "k", []byte("x"))

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeTimeout))
	assert.Equal(t, StateTimedOut, res.State)
	assert.Equal(t, 3, res.Checks)
	assert.Equal(t, 0, s.Puts())
}

func TestAwaitThenPublish_ExistsErrorAborts(t *testing.T) {
	cause := stderrors.New("access denied")
	s := newScripted()
	s.existsErrAt = 2
	s.existsErr = cause

	w := New(s, WithSleeper((&recordingSleeper{}).sleep))
	res, err := w.AwaitThenPublish(context.Background(), "k", []byte("x"))

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeStoreAccess))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, 2, res.Checks)
	assert.Equal(t, []string{"check", "check"}, s.events)
}

func TestAwaitThenPublish_PutError(t *testing.T) {
	s := newScripted()
	s.appearAfter = 1
	s.putErr = errors.New(errors.CodeStoreAccess, "put failed")

	w := New(s)
	res, err := w.AwaitThenPublish(context.Background(), "k", []byte("x"))

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeStoreAccess))
	assert.Equal(t, StateFailed, res.State)
	assert.True(t, res.Found)
	assert.Equal(t, []string{"check", "put"}, s.events)
}

func TestAwaitThenPublish_ContextCancelled(t *testing.T) {
	s := newScripted()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := New(s, WithPollInterval(time.Hour))
	res, err := w.AwaitThenPublish(ctx, "k", []byte("x"))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, 1, res.Checks)
	assert.Equal(t, 0, s.Puts())
}

func TestAwaitThenPublish_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := newScripted()
	s.appearAfter = 2

	w := New(s, WithLogger(logger), WithSleeper((&recordingSleeper{}).sleep))
	_, err := w.AwaitThenPublish(context.Background(), "k", []byte("x"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "object not found yet")
	assert.Contains(t, out, "object found")
	assert.Contains(t, out, "object published")
	assert.Contains(t, out, "location=memory://k")
}

func TestWithPollInterval_IgnoresNonPositive(t *testing.T) {
	w := New(store.NewMemory(), WithPollInterval(0), WithPollInterval(-time.Second))
	assert.Equal(t, DefaultPollInterval, w.pollInterval)
}
