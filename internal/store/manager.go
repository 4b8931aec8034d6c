package store

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vmarinov/fitness-diary/internal/service"
)

// Manager hands out one WorkoutStore per authenticated user session.
// Stores are created on demand and dropped on logout, keeping the
// per-session cached view without any hidden module-level singleton.
type Manager struct {
	svc service.WorkoutService

	mu     sync.Mutex
	stores map[primitive.ObjectID]*WorkoutStore
}

// NewManager creates an empty session manager.
func NewManager(svc service.WorkoutService) *Manager {
	return &Manager{
		svc:    svc,
		stores: make(map[primitive.ObjectID]*WorkoutStore),
	}
}

// ForUser returns the user's session store, creating it on first use.
func (m *Manager) ForUser(userID primitive.ObjectID) *WorkoutStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stores[userID]
	if !ok {
		st = NewWorkoutStore(m.svc, FixedIdentity(userID))
		m.stores[userID] = st
	}
	return st
}

// Drop discards the user's session store. Called on logout; the next
// authenticated request starts from a fresh, empty view.
func (m *Manager) Drop(userID primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, userID)
}
