// Package session keeps editing sessions addressable by opaque handles and
// evicts the ones left idle.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("session: not found")

// Closer is implemented by every session kind the registry holds.
type Closer interface {
	Close() error
}

type Option func(*options)

type options struct {
	now     func() time.Time
	onEvict func(kind string)
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithEvictHook is called once per session removed by the janitor.
func WithEvictHook(fn func(kind string)) Option {
	return func(o *options) { o.onEvict = fn }
}

type entry[T Closer] struct {
	value    T
	lastUsed time.Time
}

// Registry maps handles to sessions of one kind. It is safe for concurrent use.
type Registry[T Closer] struct {
	kind string
	ttl  time.Duration
	opts options

	mu      sync.Mutex
	entries map[uuid.UUID]*entry[T]
}

// NewRegistry creates a registry. A non-positive ttl disables eviction.
func NewRegistry[T Closer](kind string, ttl time.Duration, opts ...Option) *Registry[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry[T]{
		kind:    kind,
		ttl:     ttl,
		opts:    o,
		entries: make(map[uuid.UUID]*entry[T]),
	}
}

func (r *Registry[T]) Add(value T) (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("session: failed to generate id: %w", err)
	}

	r.mu.Lock()
	r.entries[id] = &entry[T]{value: value, lastUsed: r.opts.now()}
	r.mu.Unlock()

	log.Debug().Str("kind", r.kind).Str("session_id", id.String()).Msg("session: registered")
	return id, nil
}

// Get returns the session and marks it as used.
func (r *Registry[T]) Get(id uuid.UUID) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	e.lastUsed = r.opts.now()
	return e.value, nil
}

// Remove closes the session and forgets it. When Close fails the session
// stays registered and the error is returned.
func (r *Registry[T]) Remove(id uuid.UUID) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	if err := e.value.Close(); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
	return nil
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep evicts sessions idle for longer than the ttl and returns how many
// were removed. A session that refuses to close is retried on the next sweep.
func (r *Registry[T]) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.opts.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []uuid.UUID
	for id, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	r.mu.Unlock()

	evicted := 0
	for _, id := range expired {
		if err := r.Remove(id); err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.Warn().Err(err).Str("kind", r.kind).Str("session_id", id.String()).Msg("session: eviction postponed")
			}
			continue
		}
		evicted++
		if r.opts.onEvict != nil {
			r.opts.onEvict(r.kind)
		}
	}
	if evicted > 0 {
		log.Info().Str("kind", r.kind).Int("evicted", evicted).Msg("session: idle sessions evicted")
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (r *Registry[T]) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// CloseAll closes every session, used on shutdown.
func (r *Registry[T]) CloseAll() {
	r.mu.Lock()
	ids := make([]uuid.UUID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		if err := r.Remove(id); err != nil && !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("kind", r.kind).Str("session_id", id.String()).Msg("session: failed to close on shutdown")
		}
	}
}
