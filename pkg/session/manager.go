package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/fsmkit/internal/logging"
	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/fsm"
	"github.com/aretw0/fsmkit/pkg/history"
	"github.com/aretw0/fsmkit/pkg/ports"
)

const defaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// live is a session loaded in this process.
// saved is the last version this process read from or wrote to the store;
// version runs ahead of it only after a failed save.
type live struct {
	machine *fsm.Machine
	history *history.Stack[domain.StateID]
	version int
	saved   int
	updated time.Time
}

// Status describes a session after an operation.
type Status struct {
	SessionID string            `json:"session_id"`
	State     domain.StateID    `json:"state"`
	Version   int               `json:"version"`
	Available []domain.ActionID `json:"available"`
	CanUndo   bool              `json:"can_undo"`
	CanRedo   bool              `json:"can_redo"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	table   *fsm.Table
	initial domain.StateID
	store   ports.CheckpointStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	sessionsMu sync.Mutex
	sessions   map[string]*live

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks (default 30s).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager and its machines.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers hooks on every machine the Manager creates.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// NewManager creates a Session Manager for machines built from table, starting
// at initial, persisting checkpoints in store.
func NewManager(table *fsm.Table, initial domain.StateID, store ports.CheckpointStore, opts ...Option) (*Manager, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", domain.ErrInvalidEntry)
	}
	if !table.IsSource(initial) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownInitialState, initial)
	}

	m := &Manager{
		table:    table,
		initial:  initial,
		store:    store,
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]*live),
		lockTTL:  defaultLockTTL,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Table returns the transition table shared by every session.
func (m *Manager) Table() *fsm.Table {
	return m.table
}

// Initial returns the state new sessions start at.
func (m *Manager) Initial() domain.StateID {
	return m.initial
}

// Store returns the underlying checkpoint store.
func (m *Manager) Store() ports.CheckpointStore {
	return m.store
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Start returns the session, creating it at the initial state if it does not
// exist anywhere, or resuming it from its checkpoint.
func (m *Manager) Start(ctx context.Context, sessionID string) (*Status, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id cannot be empty")
	}
	var status *Status
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := m.load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			s, err = m.create(ctx, sessionID)
		}
		if err != nil {
			return err
		}
		status = m.status(sessionID, s)
		return nil
	})
	return status, err
}

// Get returns the status of an existing session.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Status, error) {
	var status *Status
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := m.load(ctx, sessionID)
		if err != nil {
			return err
		}
		status = m.status(sessionID, s)
		return nil
	})
	return status, err
}

// Dispatch applies an action to a session's machine, records the new state in
// its history and persists the checkpoint.
// On InvalidAction or EffectFailure the returned status reflects the unchanged
// session together with the error.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, action domain.ActionID) (*Status, error) {
	var status *Status
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := m.load(ctx, sessionID)
		if err != nil {
			return err
		}

		if _, err := s.machine.DispatchContext(ctx, action); err != nil {
			status = m.status(sessionID, s)
			return err
		}

		s.history.Push(s.machine.CurrentState())
		if err := m.commit(ctx, sessionID, s); err != nil {
			return err
		}
		status = m.status(sessionID, s)
		return nil
	})
	return status, err
}

// Undo moves a session back to the state it was in before its last recorded
// change. It returns domain.ErrNothingToUndo when the history has no earlier state.
func (m *Manager) Undo(ctx context.Context, sessionID string) (*Status, error) {
	return m.travel(ctx, sessionID, func(s *live) (domain.StateID, error) {
		// The entry at the cursor is the live state; the one before it is the target.
		if s.history.Cursor() <= 0 {
			return "", domain.ErrNothingToUndo
		}
		s.history.Undo()
		target, _ := s.history.Current()
		return target, nil
	})
}

// Redo re-applies the state undone by the last Undo.
// It returns domain.ErrNothingToRedo when there is nothing ahead of the cursor.
func (m *Manager) Redo(ctx context.Context, sessionID string) (*Status, error) {
	return m.travel(ctx, sessionID, func(s *live) (domain.StateID, error) {
		target, ok := s.history.Redo()
		if !ok {
			return "", domain.ErrNothingToRedo
		}
		return target, nil
	})
}

func (m *Manager) travel(ctx context.Context, sessionID string, move func(*live) (domain.StateID, error)) (*Status, error) {
	var status *Status
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := m.load(ctx, sessionID)
		if err != nil {
			return err
		}

		target, err := move(s)
		if err != nil {
			status = m.status(sessionID, s)
			return err
		}
		if err := s.machine.RestoreContext(ctx, target); err != nil {
			return err
		}
		if err := m.commit(ctx, sessionID, s); err != nil {
			return err
		}
		status = m.status(sessionID, s)
		return nil
	})
	return status, err
}

// Delete removes the session from this process and from the store.
// It returns domain.ErrSessionNotFound when the store has no such session.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.forget(sessionID)
		if _, err := m.store.Load(ctx, sessionID); err != nil {
			return err
		}
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// load returns the live session for the checkpoint in the store. Must be
// called under the session lock.
// The store is read every time: a cached session that another process has
// moved is re-synchronized to the checkpoint, and one deleted elsewhere is
// evicted.
func (m *Manager) load(ctx context.Context, sessionID string) (*live, error) {
	cp, err := m.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			m.forget(sessionID)
		}
		return nil, err
	}

	m.sessionsMu.Lock()
	s, ok := m.sessions[sessionID]
	m.sessionsMu.Unlock()
	if ok && s.saved == cp.Version {
		return s, nil
	}

	if !ok {
		s, err = m.newLive(sessionID)
		if err != nil {
			return nil, err
		}
	}
	if s.machine.CurrentState() != cp.State {
		if err := s.machine.RestoreContext(ctx, cp.State); err != nil {
			m.forget(sessionID)
			return nil, fmt.Errorf("failed to resume session %s: %w", sessionID, err)
		}
	}
	s.history.Clear()
	s.history.Push(cp.State)
	s.version = cp.Version
	s.saved = cp.Version
	s.updated = cp.UpdatedAt

	if ok {
		m.logger.DebugContext(ctx, "session re-synchronized", "session_id", sessionID, "state", cp.State, "version", cp.Version)
	} else {
		m.logger.DebugContext(ctx, "session resumed", "session_id", sessionID, "state", cp.State)
	}
	m.remember(sessionID, s)
	return s, nil
}

func (m *Manager) create(ctx context.Context, sessionID string) (*live, error) {
	s, err := m.newLive(sessionID)
	if err != nil {
		return nil, err
	}
	s.history.Push(m.initial)

	// Persist immediately to reserve the ID
	if err := m.commit(ctx, sessionID, s); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	m.logger.DebugContext(ctx, "session created", "session_id", sessionID, "state", m.initial)
	m.remember(sessionID, s)
	return s, nil
}

func (m *Manager) newLive(sessionID string) (*live, error) {
	machine, err := fsm.New(m.initial, m.table,
		fsm.WithLogger(m.logger.With("session_id", sessionID)),
		fsm.WithLifecycleHooks(m.hooks),
	)
	if err != nil {
		return nil, err
	}
	return &live{
		machine: machine,
		history: history.New[domain.StateID](),
	}, nil
}

func (m *Manager) remember(sessionID string, s *live) {
	m.sessionsMu.Lock()
	m.sessions[sessionID] = s
	m.sessionsMu.Unlock()
}

func (m *Manager) forget(sessionID string) {
	m.sessionsMu.Lock()
	delete(m.sessions, sessionID)
	m.sessionsMu.Unlock()
}

// commit bumps the version and persists the checkpoint.
// A failed save leaves the in-memory machine where it is: its effect already ran.
// The next successful commit persists it, unless another process writes first.
func (m *Manager) commit(ctx context.Context, sessionID string, s *live) error {
	s.version++
	s.updated = time.Now().UTC()
	cp := &domain.Checkpoint{
		SessionID: sessionID,
		State:     s.machine.CurrentState(),
		Version:   s.version,
		UpdatedAt: s.updated,
	}
	if err := m.store.Save(ctx, sessionID, cp); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	s.saved = s.version
	return nil
}

func (m *Manager) status(sessionID string, s *live) *Status {
	return &Status{
		SessionID: sessionID,
		State:     s.machine.CurrentState(),
		Version:   s.version,
		Available: s.machine.Available(),
		CanUndo:   s.history.Cursor() > 0,
		CanRedo:   s.history.CanRedo(),
		UpdatedAt: s.updated,
	}
}
