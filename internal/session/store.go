package session

import (
	"encoding/json"
	"sync"

	"github.com/yourname/moodtracker/internal"
)

// Backend is the durable key-value storage behind a Store: one slot for the
// bearer token, one for the serialized user profile. Implementations must
// round-trip values exactly.
type Backend interface {
	ReadToken() (string, error)
	WriteToken(token string) error
	ReadUser() ([]byte, error)
	WriteUser(data []byte) error
	Clear() error
}

// Store is the single source of truth for "is this client authenticated".
// It owns the persisted credential state; everything else holds a read-only
// view and reacts to the authenticated-flag signal.
type Store struct {
	backend Backend
	logger  internal.Logger

	mu            sync.Mutex
	token         string
	user          *internal.User
	authenticated bool

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]func(bool)
}

// NewStore restores state from the backend. A non-empty token with a
// decodable user record restores an authenticated session; anything else,
// including backend read failures, starts unauthenticated.
func NewStore(backend Backend, logger internal.Logger) *Store {
	s := &Store{
		backend: backend,
		logger:  logger,
		subs:    make(map[int]func(bool)),
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	token, err := s.backend.ReadToken()
	if err != nil || token == "" {
		if err != nil {
			s.logger.Warnf("session: token restore failed, starting unauthenticated: %v", err)
		}
		return
	}
	data, err := s.backend.ReadUser()
	if err != nil {
		s.logger.Warnf("session: user restore failed, starting unauthenticated: %v", err)
		return
	}
	var user internal.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.logger.Warnf("session: stored user undecodable, starting unauthenticated: %v", err)
		return
	}
	s.token = token
	s.user = &user
	s.authenticated = true
}

// Login persists the credential and flips the authenticated flag. The token
// is trusted as-is; validation is the API's job.
func (s *Store) Login(token string, user internal.User) {
	s.mu.Lock()
	if err := s.backend.WriteToken(token); err != nil {
		s.logger.Errorf("session: failed to persist token: %v", err)
	}
	s.persistUser(&user)
	s.token = token
	s.user = &user
	changed := !s.authenticated
	s.authenticated = true
	s.mu.Unlock()

	if changed {
		s.broadcast(true)
	}
}

// UpdateUser replaces the persisted profile without touching the token or
// the authenticated flag. Last write wins.
func (s *Store) UpdateUser(user internal.User) {
	s.mu.Lock()
	s.persistUser(&user)
	s.user = &user
	s.mu.Unlock()
}

// Logout clears the persisted credential. Safe to call when already logged
// out.
func (s *Store) Logout() {
	s.mu.Lock()
	if err := s.backend.Clear(); err != nil {
		s.logger.Errorf("session: failed to clear credential: %v", err)
	}
	s.token = ""
	s.user = nil
	changed := s.authenticated
	s.authenticated = false
	s.mu.Unlock()

	if changed {
		s.broadcast(false)
	}
}

// Token returns the bearer credential, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) CurrentUser() *internal.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Subscribe registers an observer for authenticated-flag transitions. The
// callback runs synchronously on the mutating goroutine for every
// transition. The returned func cancels the subscription.
func (s *Store) Subscribe(fn func(authenticated bool)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) broadcast(authenticated bool) {
	s.subMu.Lock()
	fns := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(authenticated)
	}
}

func (s *Store) persistUser(user *internal.User) {
	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Errorf("session: failed to encode user: %v", err)
		return
	}
	if err := s.backend.WriteUser(data); err != nil {
		s.logger.Errorf("session: failed to persist user: %v", err)
	}
}
