// Package waiter implements the read-after-write wait that precedes
// publishing a seeded aggregate: poll the store until the service's own
// snapshot appears (or a deadline passes), then overwrite it exactly once.
package waiter

import (
	"context"
	"log/slog"
	"time"

	"github.com/alpha-prosoft/eventseed/errors"
	"github.com/alpha-prosoft/eventseed/store"
)

// Defaults match the service's usual snapshot latency.
const (
	DefaultMaxWait      = 300 * time.Second
	DefaultPollInterval = 10 * time.Second
)

// State is the phase a wait-then-publish run ended in.
type State string

const (
	StateWaiting    State = "WAITING"
	StateFound      State = "FOUND"
	StateTimedOut   State = "TIMED_OUT"
	StatePublishing State = "PUBLISHING"
	StatePublished  State = "PUBLISHED"
	StateFailed     State = "FAILED"
)

// String returns the string representation of the State.
func (s State) String() string {
	return string(s)
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Result describes one AwaitThenPublish run.
type Result struct {
	// State is the final state.
	State State

	// Found reports whether the object appeared before the deadline.
	Found bool

	// Checks is the number of existence checks made.
	Checks int

	// Waited is the accumulated poll time. Check latency is not included.
	Waited time.Duration
}

// Waiter polls an ObjectStore for an object and then overwrites it.
type Waiter struct {
	store        store.ObjectStore
	maxWait      time.Duration
	pollInterval time.Duration
	strict       bool
	logger       *slog.Logger
	sleep        Sleeper
}

// Option configures a Waiter.
type Option func(*Waiter)

// WithMaxWait sets the total poll budget.
func WithMaxWait(d time.Duration) Option {
	return func(w *Waiter) {
		w.maxWait = d
	}
}

// WithPollInterval sets the pause between existence checks. Non-positive
// values are ignored.
func WithPollInterval(d time.Duration) Option {
	return func(w *Waiter) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithStrict makes a timeout fail with CodeTimeout instead of publishing.
func WithStrict(strict bool) Option {
	return func(w *Waiter) {
		w.strict = strict
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Waiter) {
		w.logger = logger
	}
}

// WithSleeper replaces the context-aware timer sleep, for tests.
func WithSleeper(s Sleeper) Option {
	return func(w *Waiter) {
		if s != nil {
			w.sleep = s
		}
	}
}

// New returns a Waiter for s.
func New(s store.ObjectStore, opts ...Option) *Waiter {
	w := &Waiter{
		store:        s,
		maxWait:      DefaultMaxWait,
		pollInterval: DefaultPollInterval,
		sleep:        sleepContext,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AwaitThenPublish polls for key until it exists or the poll budget is spent,
// then writes payload to key unconditionally.
//
// The object is checked before every sleep, so an object found after k misses
// costs k+1 checks and a timeout costs ceil(maxWait/pollInterval) checks.
// A timeout is logged and, unless the waiter is strict, followed by the
// publish. A failed existence check aborts without publishing.
//
// Errors:
//   - CodeStoreAccess: an existence check or the publish failed
//   - CodeTimeout: the object never appeared and the waiter is strict
//   - the context error if ctx is cancelled while sleeping
func (w *Waiter) AwaitThenPublish(ctx context.Context, key string, payload []byte) (*Result, error) {
	res := &Result{State: StateWaiting}
	location := w.store.Location(key)

	for res.Waited < w.maxWait {
		res.Checks++
		found, err := w.store.Exists(ctx, key)
		if err != nil {
			res.State = StateFailed
			w.logError(ctx, "existence check failed", err, "location", location, "checks", res.Checks)
			return res, ensureStoreAccess(err)
		}
		if found {
			res.Found = true
			res.State = StateFound
			w.logInfo(ctx, "object found", "location", location, "waited", res.Waited, "checks", res.Checks)
			break
		}

		w.logInfo(ctx, "object not found yet", "location", location, "waited", res.Waited, "max_wait", w.maxWait)
		if err := w.sleep(ctx, w.pollInterval); err != nil {
			res.State = StateFailed
			return res, err
		}
		res.Waited += w.pollInterval
	}

	if !res.Found {
		res.State = StateTimedOut
		w.logWarn(ctx, "object did not appear before deadline", "location", location, "waited", res.Waited, "checks", res.Checks)
		if w.strict {
			return res, errors.New(errors.CodeTimeout, "object did not appear before deadline").
				WithContext("location", location).
				WithContext("waited", res.Waited.String())
		}
	}

	res.State = StatePublishing
	if err := w.store.Put(ctx, key, payload); err != nil {
		res.State = StateFailed
		w.logError(ctx, "publish failed", err, "location", location)
		return res, ensureStoreAccess(err)
	}

	res.State = StatePublished
	w.logInfo(ctx, "object published", "location", location, "bytes", len(payload))
	return res, nil
}

func ensureStoreAccess(err error) error {
	if errors.HasCode(err, errors.CodeStoreAccess) {
		return err
	}
	return errors.Wrap(err, errors.CodeStoreAccess, "object store access failed")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (w *Waiter) logInfo(ctx context.Context, msg string, args ...any) {
	if w.logger != nil {
		w.logger.InfoContext(ctx, msg, args...)
	}
}

func (w *Waiter) logWarn(ctx context.Context, msg string, args ...any) {
	if w.logger != nil {
		w.logger.WarnContext(ctx, msg, args...)
	}
}

func (w *Waiter) logError(ctx context.Context, msg string, err error, args ...any) {
	if w.logger != nil {
		w.logger.ErrorContext(ctx, msg, append(args, "error", err)...)
	}
}
