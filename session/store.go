package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/navgate/navgate/internal/diag"
	"github.com/navgate/navgate/internal/metrics"
	"github.com/navgate/navgate/storage"
)

// DefaultKey is the fixed durable-store key holding the serialized session.
const DefaultKey = "navgate:session"

const defaultSubscriberBuffer = 8

// Fetcher retrieves the current identity from the remote endpoint.
// A (nil, nil) return is the explicit "no user" answer, distinct from a
// transport failure.
type Fetcher interface {
	Me(ctx context.Context) (*User, error)
}

// Options configures a [Store]. The zero value is usable: default key,
// default subscriber buffer, no diagnostics, no metrics.
type Options struct {
	// Key overrides the durable-store key. Defaults to [DefaultKey].
	Key string

	// SubscriberBuffer is the per-subscriber channel capacity. A
	// subscriber that falls this far behind misses emissions (each miss
	// is surfaced as a diagnostic event).
	SubscriberBuffer int

	Diag    *diag.Dispatcher
	Metrics *metrics.Metrics
}

// Store is the authoritative holder of the current session. It caches the
// user in memory, mirrors it write-through into a durable per-tab store,
// and publishes every state change to subscribers.
//
// All mutations go through Store methods; nothing else writes the durable
// key. That makes the Store the single consistency choke point even
// though callers run on arbitrary goroutines.
type Store struct {
	fetcher Fetcher
	tab     storage.TabStore
	key     string
	buffer  int
	diag    *diag.Dispatcher
	metrics *metrics.Metrics

	mu     sync.Mutex
	user   *User
	subs   map[uint64]chan *User
	nextID uint64
}

// NewStore creates an empty Store. A nil tab degrades to an in-process
// store, so hosts without durable storage still get full session
// semantics minus persistence across restarts.
func NewStore(fetcher Fetcher, tab storage.TabStore, opts Options) *Store {
	if tab == nil {
		tab = storage.NewMemory()
	}
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}
	buffer := opts.SubscriberBuffer
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}

	return &Store{
		fetcher: fetcher,
		tab:     tab,
		key:     key,
		buffer:  buffer,
		diag:    opts.Diag,
		metrics: opts.Metrics,
		subs:    make(map[uint64]chan *User),
	}
}

// Fetch asks the remote identity endpoint who is acting and applies the
// answer.
//
// A response with a user updates memory, publishes, and mirrors durably.
// An explicit "no user" response updates memory to anonymous and publishes,
// but leaves durable storage untouched — caching an anonymous marker could
// mask a login performed by another party against the same backend store.
// A transport failure changes nothing and is returned to the caller, who
// decides whether it means "log out".
//
// Concurrent fetches race at the transport layer; the last response to
// arrive wins in memory. Ordering among concurrent fetches is not
// guaranteed.
func (s *Store) Fetch(ctx context.Context) (*User, error) {
	start := time.Now()
	u, err := s.fetcher.Me(ctx)
	s.metrics.Observe(metrics.MetricFetchLatency, time.Since(start))
	if err != nil {
		s.metrics.Inc(metrics.MetricFetchFailure)
		return nil, err
	}

	s.mu.Lock()
	s.user = u
	dropped := s.publishLocked(u)
	s.mu.Unlock()
	s.reportDropped(ctx, dropped)

	if u == nil {
		s.metrics.Inc(metrics.MetricFetchAnonymous)
		return nil, nil
	}

	s.metrics.Inc(metrics.MetricFetchSuccess)
	s.mirrorWrite(ctx, u)
	return u, nil
}

// Current returns the cached user without touching the network. When the
// cache is empty it attempts one hydration from durable storage; a
// malformed or unreadable entry is purged and reported as a diagnostic,
// and the call returns anonymous. Current never fails.
func (s *Store) Current(ctx context.Context) *User {
	s.mu.Lock()
	if s.user != nil {
		u := s.user
		s.mu.Unlock()
		return u
	}
	s.mu.Unlock()

	raw, err := s.tab.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		s.metrics.Inc(metrics.MetricHydrateUnavailable)
		s.emit(ctx, diag.Event{Type: diag.TypeStorageReadFailed, Key: s.key, Error: err.Error()})
		_ = s.tab.Delete(ctx, s.key)
		return nil
	}

	u, err := Decode(raw)
	if err != nil {
		s.metrics.Inc(metrics.MetricHydrateCorrupt)
		s.emit(ctx, diag.Event{Type: diag.TypeStorageCorrupt, Key: s.key, Error: err.Error()})
		_ = s.tab.Delete(ctx, s.key)
		return nil
	}

	s.mu.Lock()
	var dropped int
	if s.user == nil {
		s.user = u
		dropped = s.publishLocked(u)
	} else {
		// A fetch or set landed while we were hydrating; it wins.
		u = s.user
	}
	s.mu.Unlock()
	s.reportDropped(ctx, dropped)

	s.metrics.Inc(metrics.MetricHydrateSuccess)
	return u
}

// Set overwrites the session and publishes. A non-nil user is mirrored
// durably; nil removes the durable key. Used when a login response already
// carries the full user record, skipping a redundant identity fetch.
func (s *Store) Set(ctx context.Context, u *User) {
	s.mu.Lock()
	s.user = u
	dropped := s.publishLocked(u)
	s.mu.Unlock()
	s.reportDropped(ctx, dropped)

	if u == nil {
		s.metrics.Inc(metrics.MetricSessionCleared)
		s.mirrorDelete(ctx)
		return
	}

	s.metrics.Inc(metrics.MetricSessionSet)
	s.mirrorWrite(ctx, u)
}

// Clear resets the session to anonymous, publishes, and removes the
// durable key. Clearing an already-empty session is a harmless no-op.
func (s *Store) Clear(ctx context.Context) {
	s.Set(ctx, nil)
}

// Subscribe returns a channel that immediately delivers the current value,
// then one emission per state change in the order changes were applied.
// The returned cancel function detaches the subscriber and closes the
// channel; calling it more than once is safe.
func (s *Store) Subscribe() (<-chan *User, func()) {
	ch := make(chan *User, s.buffer)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.user // fresh buffered channel, always has room
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
			s.mu.Unlock()
		})
	}

	return ch, cancel
}

// Key returns the durable-store key the session is mirrored under.
func (s *Store) Key() string {
	return s.key
}

func (s *Store) publishLocked(u *User) int {
	dropped := 0
	for _, ch := range s.subs {
		select {
		case ch <- u:
		default:
			dropped++
		}
	}
	return dropped
}

func (s *Store) reportDropped(ctx context.Context, dropped int) {
	for i := 0; i < dropped; i++ {
		s.metrics.Inc(metrics.MetricSubscriberDropped)
	}
	if dropped > 0 {
		s.emit(ctx, diag.Event{Type: diag.TypeSubscriberDropped, Key: s.key})
	}
}

func (s *Store) mirrorWrite(ctx context.Context, u *User) {
	raw, err := Encode(u)
	if err != nil {
		s.emit(ctx, diag.Event{Type: diag.TypeStorageWriteFailed, Key: s.key, Error: err.Error()})
		return
	}
	if err := s.tab.Set(ctx, s.key, raw); err != nil {
		s.emit(ctx, diag.Event{Type: diag.TypeStorageWriteFailed, Key: s.key, Error: err.Error()})
	}
}

func (s *Store) mirrorDelete(ctx context.Context) {
	if err := s.tab.Delete(ctx, s.key); err != nil {
		s.emit(ctx, diag.Event{Type: diag.TypeStorageWriteFailed, Key: s.key, Error: err.Error()})
	}
}

func (s *Store) emit(ctx context.Context, event diag.Event) {
	s.diag.Emit(ctx, event)
}
