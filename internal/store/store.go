// Package store owns the canonical kanban board and applies transitions to
// it. Each transition replaces the board wholesale, so a snapshot obtained
// from the store is never modified afterwards.
package store

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dyluth/kanban/pkg/board"
)

// ErrClosed is returned by transitions on a store that has been closed.
var ErrClosed = errors.New("board store is closed")

// Publisher receives a notification after every successful transition.
// Implementations must not block for long; *events.Bus satisfies it.
type Publisher interface {
	Publish(topic string, payload any)
}

// Saver persists a snapshot after every transition that changed the board.
type Saver interface {
	Save(ctx context.Context, b board.Board) error
}

// Store holds the current board. Transitions are serialized; readers get
// deep copies. Saves and notifications happen outside the board lock but in
// the order the transitions were applied, so the last snapshot saved is
// always the current board. Listeners must not start a transition on the
// same store synchronously.
type Store struct {
	mu      sync.RWMutex
	current board.Board
	gen     uint64 // generation of current
	closed  bool

	// commitMu orders saves and notifications by generation
	commitMu   sync.Mutex
	commitCond *sync.Cond
	committed  uint64

	ids    board.IDGenerator
	now    func() time.Time
	pub    Publisher
	saver  Saver
	logger logrus.FieldLogger
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator sets the generator for task and column ids.
func WithIDGenerator(g board.IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithClock sets the source of task creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPublisher sets where notifications go.
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.pub = p }
}

// WithSaver sets the persistence hook.
func WithSaver(sv Saver) Option {
	return func(s *Store) { s.saver = sv }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a store seeded with a copy of initial.
func New(initial board.Board, opts ...Option) *Store {
	s := &Store{
		current: initial.Clone(),
		ids:     board.UUIDGenerator{},
		now:     time.Now,
	}
	s.commitCond = sync.NewCond(&s.commitMu)
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.logger = l
	}
	return s
}

// Close disposes of the store. Later transitions fail with ErrClosed;
// Snapshot keeps returning the last state.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Snapshot returns a deep copy of the current board.
func (s *Store) Snapshot() board.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// TasksByColumn returns the tasks of a column in display order.
func (s *Store) TasksByColumn(columnID string) []board.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.TasksByColumn(columnID)
}

// transition computes the next board from the current one and installs it.
// fn reports whether anything changed; unchanged boards are neither saved
// nor announced. notify runs after the save, in transition order.
func (s *Store) transition(ctx context.Context, op string, fn func(board.Board) (board.Board, bool, error), notify func()) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	next, changed, err := fn(s.current)
	if err != nil {
		s.mu.Unlock()
		s.logger.WithField("op", op).WithError(err).Debug("transition rejected")
		return err
	}
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.current = next
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.commit(ctx, op, gen, next, notify)
	return nil
}

// commit saves b and runs notify once every earlier generation has been
// committed.
func (s *Store) commit(ctx context.Context, op string, gen uint64, b board.Board, notify func()) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	for s.committed != gen-1 {
		s.commitCond.Wait()
	}

	s.persist(ctx, op, b)
	if notify != nil {
		notify()
	}

	s.committed = gen
	s.commitCond.Broadcast()
}

func (s *Store) persist(ctx context.Context, op string, b board.Board) {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(ctx, b); err != nil {
		s.logger.WithField("op", op).WithError(err).Warn("failed to persist board; in-memory state kept")
	}
}

func (s *Store) publish(topic string, payload any) {
	if s.pub != nil {
		s.pub.Publish(topic, payload)
	}
}
