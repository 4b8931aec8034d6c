// Package store keeps a session-scoped, locally cached view of a user's
// workout history in sync with the backing document store. One WorkoutStore
// exists per authenticated session; the view layer reads its snapshots and
// invokes its operations, never mutating the cached list directly.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vmarinov/fitness-diary/internal/domain"
	"vmarinov/fitness-diary/internal/repository"
	"vmarinov/fitness-diary/internal/service"
)

// PageSize is the fixed number of workouts fetched per page.
const PageSize = 7

// ErrNotAuthenticated is surfaced when a mutation is attempted without a
// signed-in user. No remote call is made in that case.
var ErrNotAuthenticated = errors.New("sign in to manage workouts")

// Identity reports the user a store instance acts for. A session that was
// never authenticated reports ok=false and the store stays empty.
type Identity interface {
	CurrentUserID() (primitive.ObjectID, bool)
}

type fixedIdentity primitive.ObjectID

func (id fixedIdentity) CurrentUserID() (primitive.ObjectID, bool) {
	return primitive.ObjectID(id), true
}

// FixedIdentity returns an Identity bound to one user for the lifetime of
// the session.
func FixedIdentity(userID primitive.ObjectID) Identity {
	return fixedIdentity(userID)
}

type anonymous struct{}

func (anonymous) CurrentUserID() (primitive.ObjectID, bool) {
	return primitive.NilObjectID, false
}

// Anonymous returns the identity of a logged-out session.
func Anonymous() Identity {
	return anonymous{}
}

// WorkoutStore owns the cached, newest-first list of one user's workouts,
// the pagination cursor into it, and the request status flags the view
// renders from.
//
// The store does not serialize its operations: the loading flags exist so
// callers can keep at most one call in flight, but two racing calls are not
// an error; the later one to resolve simply wins.
type WorkoutStore struct {
	svc      service.WorkoutService
	identity Identity

	mu              sync.Mutex
	workouts        []domain.Workout
	lastVisible     *repository.Cursor
	hasMore         bool
	loading         bool // mutation in flight
	loadingWorkouts bool // fetch in flight
	lastErr         error
	success         bool
}

// NewWorkoutStore builds an empty store for the given session identity.
func NewWorkoutStore(svc service.WorkoutService, identity Identity) *WorkoutStore {
	return &WorkoutStore{
		svc:      svc,
		identity: identity,
		hasMore:  true, // the first fetch decides
	}
}

// FetchWorkouts loads one page of the user's history, newest date first.
// With loadMore the page starts strictly after the current cursor and is
// appended; otherwise the list is replaced from the top. Without a signed-in
// user the cached state is cleared and no remote call is made; that is an
// empty view, not an error.
//
// A failed fetch records the error and leaves already-fetched pages intact.
func (s *WorkoutStore) FetchWorkouts(ctx context.Context, loadMore bool) {
	ownerID, ok := s.identity.CurrentUserID()
	if !ok {
		s.mu.Lock()
		s.workouts = nil
		s.lastVisible = nil
		s.hasMore = false
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.loadingWorkouts = true
	s.lastErr = nil
	after := s.lastVisible
	if !loadMore {
		after = nil
	}
	s.mu.Unlock()

	page, err := s.svc.GetWorkoutPage(ctx, ownerID, PageSize, after)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingWorkouts = false
	if err != nil {
		s.lastErr = fmt.Errorf("loading workouts: %w", err)
		return
	}

	if len(page) == 0 {
		s.hasMore = false
		if !loadMore {
			// Everything may have been deleted since the last fetch.
			s.workouts = []domain.Workout{}
		}
		return
	}

	last := page[len(page)-1]
	s.lastVisible = &repository.Cursor{Date: last.Date.Time, ID: last.ID}
	if loadMore {
		s.workouts = append(s.workouts, page...)
	} else {
		s.workouts = page
	}
	// A short page is the final page. When the total is an exact multiple of
	// PageSize this stays true one fetch too long and the next call returns
	// an empty page; that extra round trip is accepted.
	s.hasMore = len(page) == PageSize
}

// AddWorkout persists a new workout and returns whether it succeeded. On
// success the cached list and cursor are discarded and the first page is
// re-fetched: the new entry's position in the date ordering is unknown
// locally, so a resync is cheaper than guessing a splice point.
func (s *WorkoutStore) AddWorkout(ctx context.Context, draft domain.WorkoutDraft) bool {
	s.mu.Lock()
	s.lastErr = nil
	s.success = false
	s.mu.Unlock()

	ownerID, ok := s.identity.CurrentUserID()
	if !ok {
		s.SetError(ErrNotAuthenticated)
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if _, err := s.svc.CreateWorkout(ctx, ownerID, draft); err != nil {
		s.SetError(fmt.Errorf("saving workout: %w", err))
		return false
	}

	s.mu.Lock()
	s.success = true
	s.workouts = nil
	s.lastVisible = nil
	s.hasMore = true
	s.mu.Unlock()

	s.FetchWorkouts(ctx, false)
	return true
}

// UpdateWorkout replaces the workout's fields in place. Unlike AddWorkout it
// does not refetch the list: callers that care about the updated ordering
// navigate away or fetch again themselves.
func (s *WorkoutStore) UpdateWorkout(ctx context.Context, id primitive.ObjectID, draft domain.WorkoutDraft) bool {
	s.mu.Lock()
	s.lastErr = nil
	s.success = false
	s.mu.Unlock()

	ownerID, ok := s.identity.CurrentUserID()
	if !ok {
		s.SetError(ErrNotAuthenticated)
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.svc.UpdateWorkout(ctx, ownerID, id, draft); err != nil {
		s.SetError(fmt.Errorf("saving workout changes: %w", err))
		return false
	}

	s.mu.Lock()
	s.success = true
	s.mu.Unlock()
	return true
}

// DeleteWorkout removes the workout remotely and splices it out of the
// cached list by ID. Removal never reorders the survivors, so no refetch is
// needed; the cursor stays valid unless it pointed at the deleted entry,
// in which case the next page simply starts after a gone record.
func (s *WorkoutStore) DeleteWorkout(ctx context.Context, id primitive.ObjectID) bool {
	s.mu.Lock()
	s.lastErr = nil
	s.success = false
	s.mu.Unlock()

	ownerID, ok := s.identity.CurrentUserID()
	if !ok {
		s.SetError(ErrNotAuthenticated)
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.svc.DeleteWorkout(ctx, ownerID, id); err != nil {
		s.SetError(fmt.Errorf("deleting workout: %w", err))
		return false
	}

	s.mu.Lock()
	kept := make([]domain.Workout, 0, len(s.workouts))
	for _, w := range s.workouts {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	s.workouts = kept
	s.success = true
	s.mu.Unlock()
	return true
}

// Workouts returns a snapshot of the cached list. Exercises and sets are
// deep-copied so a caller can never alias the store's state.
func (s *WorkoutStore) Workouts() []domain.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workouts == nil {
		return nil
	}
	out := make([]domain.Workout, len(s.workouts))
	for i, w := range s.workouts {
		w.Exercises = domain.CloneExercises(w.Exercises)
		out[i] = w
	}
	return out
}

// HasMore reports whether another page is (believed to be) available.
func (s *WorkoutStore) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Loading reports whether a mutation is in flight.
func (s *WorkoutStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LoadingWorkouts reports whether a fetch is in flight.
func (s *WorkoutStore) LoadingWorkouts() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingWorkouts
}

// Err returns the last failure, or nil. Last-error-wins: a new operation
// clears it on entry.
func (s *WorkoutStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Success reports whether the last mutation succeeded. The flag is sticky
// until the caller clears it or the next operation starts.
func (s *WorkoutStore) Success() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.success
}

// SetError records or clears the error state. The view uses it to dismiss
// a shown error.
func (s *WorkoutStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// SetSuccess lets the view clear the transient success indicator.
func (s *WorkoutStore) SetSuccess(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.success = v
}

func (s *WorkoutStore) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}
