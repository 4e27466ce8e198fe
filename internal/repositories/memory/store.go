// Package memory provides an in-memory transactional Store. Each read-write
// unit of work runs against a private clone of the state that replaces the
// live state only when the unit of work succeeds.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/models"
	"dorm-backend/internal/repositories"
)

var errReadOnly = errors.New("write attempted in read-only transaction")

// Persister is called with the post-commit state while the write lock is
// still held. A persister error aborts the commit.
type Persister func(ctx context.Context, snap Snapshot) error

type Option func(*Store)

// WithClock sets the clock used for created/updated timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPersister makes every commit durable through p
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

type Store struct {
	mu      sync.RWMutex
	state   *state
	now     func() time.Time
	persist Persister
}

var _ repositories.Store = (*Store)(nil)

func New(opts ...Option) *Store {
	s := &Store{state: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPersister installs p after construction (used once a backing file is loaded)
func (s *Store) SetPersister(p Persister) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist = p
}

func (s *Store) RunInTx(ctx context.Context, fn func(tx repositories.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(&transaction{state: work, now: s.now}); err != nil {
		return err
	}
	if s.persist != nil {
		if err := s.persist(ctx, work.snapshot()); err != nil {
			return apperr.Wrap(apperr.Unavailable, err, "failed to persist state")
		}
	}
	s.state = work
	return nil
}

func (s *Store) View(ctx context.Context, fn func(tx repositories.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	snap := s.state.clone()
	s.mu.RUnlock()
	return fn(&transaction{state: snap, now: s.now, readOnly: true})
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() {}

// ExportState returns a copy of the committed state
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.snapshot()
}

// ImportState replaces the committed state
func (s *Store) ImportState(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateFromSnapshot(snap)
}

type entry[T any] struct {
	seq uint64
	val T
}

// table keeps rows in insertion order
type table[T any] struct {
	rows map[string]entry[T]
	copy func(T) T
}

func identity[T any](v T) T { return v }

func newTable[T any](cp func(T) T) table[T] {
	return table[T]{rows: map[string]entry[T]{}, copy: cp}
}

func (t table[T]) clone() table[T] {
	out := table[T]{rows: make(map[string]entry[T], len(t.rows)), copy: t.copy}
	for id, e := range t.rows {
		out.rows[id] = entry[T]{seq: e.seq, val: t.copy(e.val)}
	}
	return out
}

func (t table[T]) get(id string) (*T, bool) {
	e, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	v := t.copy(e.val)
	return &v, true
}

func (t table[T]) list(keep func(*T) bool) []*T {
	entries := make([]entry[T], 0, len(t.rows))
	for _, e := range t.rows {
		if keep == nil || keep(&e.val) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]*T, 0, len(entries))
	for _, e := range entries {
		v := t.copy(e.val)
		out = append(out, &v)
	}
	return out
}

func (t table[T]) count(keep func(*T) bool) int {
	n := 0
	for _, e := range t.rows {
		if keep(&e.val) {
			n++
		}
	}
	return n
}

type state struct {
	seq       uint64
	buildings table[models.Building]
	rooms     table[models.Room]
	students  table[models.Student]
	guests    table[models.Guest]
	assets    table[models.Asset]
	bills     table[models.Bill]
	users     table[models.User]
}

func newState() *state {
	return &state{
		buildings: newTable(identity[models.Building]),
		rooms:     newTable(identity[models.Room]),
		students:  newTable(identity[models.Student]),
		guests:    newTable(identity[models.Guest]),
		assets:    newTable(models.Asset.Clone),
		bills:     newTable(models.Bill.Clone),
		users:     newTable(identity[models.User]),
	}
}

func (s *state) clone() *state {
	return &state{
		seq:       s.seq,
		buildings: s.buildings.clone(),
		rooms:     s.rooms.clone(),
		students:  s.students.clone(),
		guests:    s.guests.clone(),
		assets:    s.assets.clone(),
		bills:     s.bills.clone(),
		users:     s.users.clone(),
	}
}

func (s *state) next() uint64 {
	s.seq++
	return s.seq
}
