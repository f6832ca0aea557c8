package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/counciltech/intake/internal/logging"
	"github.com/counciltech/intake/pkg/domain"
	"github.com/counciltech/intake/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker ports.DistributedLocker // Optional distributed locker
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new session Manager with the given persistence store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(userID) after
// unlocking.
func (m *Manager) acquire(userID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[userID]
	if !exists {
		entry = &lockEntry{}
		m.locks[userID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[userID]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, userID)
	}
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, userID string) (*domain.Session, error) {
	var session *domain.Session
	err := m.WithLock(ctx, userID, func(ctx context.Context) error {
		var err error
		session, err = m.store.Load(ctx, userID)
		return err
	})
	return session, err
}

// LoadOrStart tries to load a session. If not found, it initializes a new
// one positioned at startNode and persists it immediately.
func (m *Manager) LoadOrStart(ctx context.Context, userID, startNode string) (*domain.Session, error) {
	var session *domain.Session
	err := m.WithLock(ctx, userID, func(ctx context.Context) error {
		var err error
		session, err = m.store.Load(ctx, userID)
		if err == nil {
			return nil
		}

		if err != domain.ErrSessionNotFound {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		session = domain.NewSession(startNode)

		// Persist immediately to reserve the ID
		if err := m.store.Save(ctx, userID, session); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	return session, err
}

// Save persists the session state.
func (m *Manager) Save(ctx context.Context, userID string, session *domain.Session) error {
	return m.WithLock(ctx, userID, func(ctx context.Context) error {
		return m.store.Save(ctx, userID, session)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, userID string) error {
	return m.WithLock(ctx, userID, func(ctx context.Context) error {
		return m.store.Delete(ctx, userID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes a function while holding the lock for the user id. A
// whole conversational turn (load, mutate, save) runs inside one WithLock
// call so two in-flight messages from the same user can never interleave.
func (m *Manager) WithLock(ctx context.Context, userID string, fn func(context.Context) error) error {
	entry := m.acquire(userID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(userID)
	}()

	// Distributed locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, userID, 30*time.Second)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"user_id", userID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
