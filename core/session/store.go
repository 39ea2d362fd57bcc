// Package session holds the process-wide record of who is logged in and whether that
// is still being determined.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/user"
	"github.com/trezcool/projectgl/storage"
)

// LoginPath is where Logout sends the client.
const LoginPath = "/login"

// ErrLoggedOut is returned by LoadUser when the session was logged out, or its
// credential replaced, while the profile was being fetched.
var ErrLoggedOut = errors.New("logged out while loading user")

type (
	// ProfileFetcher resolves the persisted credential into the current user profile.
	ProfileFetcher interface {
		GetMe(ctx context.Context) (user.User, error)
	}

	// Navigator requests a client-side navigation. Push must not block.
	Navigator interface {
		Push(path string)
	}

	// Store is the session of the running client. Create it with NewStore.
	Store struct {
		creds    storage.Storage
		credKey  string
		profiles ProfileFetcher
		logger   core.Logger

		bootstrap singleflight.Group

		mu        sync.RWMutex
		usr       *user.User
		inflight  int           // user loads in flight, one per credential
		loaded    chan struct{} // closed when inflight drops to 0
		sprintID  *int
		navigator Navigator
	}
)

// NewStore returns an empty session reading the credential at credKey in creds.
func NewStore(creds storage.Storage, credKey string, profiles ProfileFetcher, logger core.Logger) *Store {
	return &Store{
		creds:    creds,
		credKey:  credKey,
		profiles: profiles,
		logger:   logger,
	}
}

// SetNavigator sets where Logout sends its navigation request.
func (s *Store) SetNavigator(n Navigator) {
	s.mu.Lock()
	s.navigator = n
	s.mu.Unlock()
}

// IsAuthenticated reports whether a credential is persisted. It does not wait for, nor
// look at, the loaded user.
func (s *Store) IsAuthenticated() bool {
	token, ok := s.creds.Get(s.credKey)
	return ok && token != ""
}

func (s *Store) credential() string {
	token, _ := s.creds.Get(s.credKey)
	return token
}

// User returns the loaded user, if any.
func (s *Store) User() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.usr == nil {
		return user.User{}, false
	}
	return *s.usr, true
}

// IsLoadingUser reports whether a user load is in flight.
func (s *Store) IsLoadingUser() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// WaitLoaded blocks until no user load is in flight. It returns at once when none is.
func (s *Store) WaitLoaded(ctx context.Context) error {
	s.mu.RLock()
	inflight, loaded := s.inflight, s.loaded
	s.mu.RUnlock()
	if inflight == 0 {
		return nil
	}
	select {
	case <-loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LoadUser fetches the profile of the persisted credential into the session.
// Without a credential it returns at once. A failure logs the session out unless the
// credential was replaced meanwhile.
// Overlapping callers loading the same credential share the in-flight load and its
// result; ctx only bounds how long this caller waits.
func (s *Store) LoadUser(ctx context.Context) error {
	token := s.credential()
	if token == "" {
		return nil
	}

	res := s.bootstrap.DoChan("loadUser:"+token, func() (interface{}, error) {
		return nil, s.loadUser(context.WithoutCancel(ctx), token)
	})
	select {
	case r := <-res:
		return r.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) loadUser(ctx context.Context, token string) error {
	s.mu.Lock()
	if s.inflight == 0 {
		s.loaded = make(chan struct{})
	}
	s.inflight++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight--
		if s.inflight == 0 {
			close(s.loaded)
		}
		s.mu.Unlock()
	}()

	usr, err := s.profiles.GetMe(ctx)
	if err != nil {
		s.logger.Error("Error while loading user", err)
		s.Revoke(token)
		return errors.Wrap(err, "loading user")
	}

	// checked and set under mu, which Logout and Revoke clear under; the user must also
	// be set before loading clears: waiters check roles right after
	s.mu.Lock()
	if s.credential() != token {
		s.mu.Unlock()
		return ErrLoggedOut
	}
	s.usr = &usr
	s.mu.Unlock()
	s.logger.Info("loaded user", usr)
	return nil
}

// Logout forgets the credential and the user, then navigates to the login view.
// It is safe to call when already logged out.
func (s *Store) Logout() {
	s.mu.Lock()
	nav := s.clear()
	s.mu.Unlock()

	if nav != nil {
		nav.Push(LoginPath)
	}
}

// Revoke logs out when token is still the persisted credential. A rejection of a
// credential that was since replaced or removed is ignored.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	if s.credential() != token {
		s.mu.Unlock()
		s.logger.Debug("ignoring rejection of a stale credential")
		return
	}
	nav := s.clear()
	s.mu.Unlock()

	if nav != nil {
		nav.Push(LoginPath)
	}
}

// clear must be called with mu held. It returns the navigator to notify.
func (s *Store) clear() Navigator {
	if err := s.creds.Remove(s.credKey); err != nil {
		s.logger.Error("removing credential", errors.Wrap(err, "logout"))
	}
	s.usr = nil
	return s.navigator
}

// SelectedSprintID returns the sprint picked in the UI, if any.
func (s *Store) SelectedSprintID() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sprintID == nil {
		return 0, false
	}
	return *s.sprintID, true
}

// SetSelectedSprintID records the sprint picked in the UI.
func (s *Store) SetSelectedSprintID(id int) {
	s.mu.Lock()
	s.sprintID = &id
	s.mu.Unlock()
}
