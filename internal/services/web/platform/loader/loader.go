// Package loader resolves lazily built view bundles once per key and shares
// the in-flight work between concurrent callers.
package loader

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	platformotel "github.com/civicspace/agora/internal/platform/otel"
	"github.com/civicspace/agora/internal/platform/timeouts"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State is the resolution state of one key.
type State int

const (
	Unresolved State = iota
	InFlight
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case InFlight:
		return "in_flight"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unresolved"
	}
}

// Fetch builds the value for one key. It runs at most once per loader.
type Fetch[V any] func(ctx context.Context) (V, error)

// Placeholder is the stable identity rendered while a key resolves.
type Placeholder struct {
	Key string
	ID  string
}

// NotFoundError reports a key with no registered fetch.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module %q is not registered", e.Key)
}

// FetchError wraps a failed fetch with its key.
type FetchError struct {
	Key string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("resolve module %q: %v", e.Key, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type entry[V any] struct {
	state State
	value V
	err   error
}

// Option configures a Loader.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	tracer  trace.Tracer
	timeout time.Duration
}

// WithLogger sets the loader logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer overrides the tracer used for fetch spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithTimeout caps each fetch. Zero disables the cap.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// Loader memoizes fetches by key for its lifetime. Resolved values are never
// evicted and failures are not retried; a fresh Loader starts empty.
type Loader[V any] struct {
	registry map[string]Fetch[V]
	opts     options

	mu      sync.Mutex
	entries map[string]*entry[V]
	group   singleflight.Group

	fetches atomic.Int64
	waiting atomic.Int64
}

// New builds a loader over a fixed registry of fetches.
func New[V any](registry map[string]Fetch[V], opts ...Option) *Loader[V] {
	o := options{
		logger:  zap.NewNop(),
		tracer:  platformotel.Tracer("agora/web/loader"),
		timeout: timeouts.ModuleFetch,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	copied := make(map[string]Fetch[V], len(registry))
	for key, fetch := range registry {
		if fetch != nil {
			copied[strings.TrimSpace(key)] = fetch
		}
	}
	return &Loader[V]{
		registry: copied,
		opts:     o,
		entries:  make(map[string]*entry[V], len(copied)),
	}
}

// Resolve returns the value for key, fetching it on first use. Concurrent
// callers share one fetch. A caller whose ctx ends first gets ctx.Err() while
// the fetch completes for the others.
func (l *Loader[V]) Resolve(ctx context.Context, key string) (V, error) {
	var zero V
	key = strings.TrimSpace(key)
	if _, ok := l.registry[key]; !ok {
		return zero, &NotFoundError{Key: key}
	}
	if e, done := l.settled(key); done {
		return e.value, e.err
	}

	l.mu.Lock()
	if e := l.entryLocked(key); e.state == Unresolved {
		e.state = InFlight
	}
	l.mu.Unlock()

	results := l.group.DoChan(key, func() (any, error) {
		return l.fetch(context.WithoutCancel(ctx), key)
	})
	l.waiting.Add(1)
	defer l.waiting.Add(-1)
	select {
	case res := <-results:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Lookup returns the cached value without fetching.
func (l *Loader[V]) Lookup(key string) (V, State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[strings.TrimSpace(key)]
	if !ok {
		var zero V
		return zero, Unresolved
	}
	return e.value, e.state
}

// State returns the resolution state of key.
func (l *Loader[V]) State(key string) State {
	_, state := l.Lookup(key)
	return state
}

// Placeholder returns the stable placeholder identity for key.
func (l *Loader[V]) Placeholder(key string) Placeholder {
	key = strings.TrimSpace(key)
	return Placeholder{Key: key, ID: "lazy-" + placeholderSlug(key)}
}

// Keys returns the registered keys in sorted order.
func (l *Loader[V]) Keys() []string {
	keys := make([]string, 0, len(l.registry))
	for key := range l.registry {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is registered.
func (l *Loader[V]) Has(key string) bool {
	_, ok := l.registry[strings.TrimSpace(key)]
	return ok
}

// Fetches returns how many underlying fetches ran.
func (l *Loader[V]) Fetches() int64 {
	return l.fetches.Load()
}

func (l *Loader[V]) settled(key string) (entry[V], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok || (e.state != Resolved && e.state != Failed) {
		return entry[V]{}, false
	}
	return *e, true
}

func (l *Loader[V]) entryLocked(key string) *entry[V] {
	e, ok := l.entries[key]
	if !ok {
		e = &entry[V]{}
		l.entries[key] = e
	}
	return e
}

func (l *Loader[V]) fetch(ctx context.Context, key string) (V, error) {
	// A fetch that settled between the caller's check and this flight
	// must not run again.
	if e, done := l.settled(key); done {
		return e.value, e.err
	}

	ctx, span := l.opts.tracer.Start(ctx, "loader.resolve", trace.WithAttributes(attribute.String("loader.key", key)))
	defer span.End()
	if l.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.timeout)
		defer cancel()
	}

	started := time.Now()
	l.fetches.Add(1)
	value, err := l.registry[key](ctx)

	l.mu.Lock()
	e := l.entryLocked(key)
	if err != nil {
		err = &FetchError{Key: key, Err: err}
		e.state, e.err = Failed, err
	} else {
		e.state, e.value = Resolved, value
	}
	l.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "module fetch failed")
		l.opts.logger.Error("module fetch failed", zap.String("key", key), zap.Error(err))
		return value, err
	}
	l.opts.logger.Debug("module resolved", zap.String("key", key), zap.Duration("duration", time.Since(started)))
	return value, nil
}

func placeholderSlug(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
