// internal/domain/session/state.go
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// State is the process-wide session. Writers are the Bootstrapper and the
// explicit sign-in, profile and logout actions; everything else only reads.
//
// The user is non-nil only while a token is held.
type State struct {
	store TokenStore

	mu     sync.RWMutex
	token  string
	user   *User
	status Status
	subs   map[string]chan Snapshot
}

// NewState loads the persisted token before any network activity.
func NewState(ctx context.Context, store TokenStore) (*State, error) {
	token, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: load token: %w", err)
	}

	s := &State{
		store:  store,
		token:  token,
		status: StatusAnonymous,
		subs:   make(map[string]chan Snapshot),
	}
	if token != "" {
		s.status = StatusTokenOnly
	}
	return s, nil
}

func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the cached user, or nil.
func (s *State) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.user)
}

func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// SetToken persists token and then adopts it in memory. A different token drops
// the cached user. An empty token is a logout.
func (s *State) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.Logout(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, token); err != nil {
		return fmt.Errorf("session: save token: %w", err)
	}
	if token != s.token {
		s.user = nil
	}
	s.token = token
	if s.user == nil {
		s.status = StatusTokenOnly
	}
	s.notifyLocked()
	return nil
}

// SetUser caches u for token. It reports false, and changes nothing, when token
// is no longer the current one.
func (s *State) SetUser(token string, u *User) bool {
	if u == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" || token != s.token {
		return false
	}
	s.user = copyUser(u)
	s.status = StatusAuthenticated
	s.notifyLocked()
	return true
}

// Invalidate clears token and user together when token is still current. Memory
// is cleared even if the store fails; the store error is returned.
func (s *State) Invalidate(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" || token != s.token {
		return false, nil
	}

	err := s.store.Clear(ctx)
	s.token = ""
	s.user = nil
	s.status = StatusInvalid
	s.notifyLocked()
	if err != nil {
		return true, fmt.Errorf("session: clear token: %w", err)
	}
	return true, nil
}

// Logout clears token and user.
func (s *State) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.Clear(ctx)
	s.token = ""
	s.user = nil
	s.status = StatusAnonymous
	s.notifyLocked()
	if err != nil {
		return fmt.Errorf("session: clear token: %w", err)
	}
	return nil
}

// Subscribe returns a channel receiving a snapshot after every change. Slow
// readers only ever miss intermediate snapshots, never the latest one.
func (s *State) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 4)
	id := uuid.NewString()

	s.mu.Lock()
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{
		Status:   s.status,
		Token:    s.token,
		HasToken: s.token != "",
		User:     copyUser(s.user),
	}
}

func (s *State) notifyLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// full: drop the oldest pending snapshot
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
