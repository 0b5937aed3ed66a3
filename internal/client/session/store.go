package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/gigrithm/gigrithm/internal/client/cache"
	"github.com/gigrithm/gigrithm/internal/client/profile"
	"github.com/gigrithm/gigrithm/internal/logging"
)

type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateUnverified
	StateVerified
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateUnverified:
		return "unverified"
	case StateVerified:
		return "verified"
	default:
		return "unknown"
	}
}

var (
	ErrNotSignedIn = errors.New("not signed in")
	ErrMissingDeps = errors.New("session: account and profile repository are required")
)

type Identity struct {
	ID            string
	Email         string
	Name          string
	EmailVerified bool
	Registration  string
}

// Snapshot is a copy of the store state; mutating it does not affect the store.
type Snapshot struct {
	State    State
	Identity *Identity
	Verified bool
	Profile  *profile.Profile
}

// Deps are the collaborators of a Store. Account and Profiles are required.
type Deps struct {
	Account  Account
	Profiles ProfileRepository
	Cache    Cache
	Parser   ResumeParser
	Sessions SessionKeeper
	Logger   logging.Logger

	VerificationURL string
	RecoveryURL     string

	Now func() time.Time
}

type Store struct {
	account  Account
	profiles ProfileRepository
	cache    Cache
	parser   ResumeParser
	sessions SessionKeeper
	logger   logging.Logger

	verificationURL string
	recoveryURL     string
	now             func() time.Time

	mu        sync.RWMutex
	state     State
	identity  *Identity
	verified  bool
	profile   *profile.Profile
	jwt       string
	jwtExpiry time.Time

	listeners    map[int]func(Snapshot)
	nextListener int
}

func New(d Deps) (*Store, error) {
	if d.Account == nil || d.Profiles == nil {
		return nil, ErrMissingDeps
	}
	s := &Store{
		account:         d.Account,
		profiles:        d.Profiles,
		cache:           d.Cache,
		parser:          d.Parser,
		sessions:        d.Sessions,
		logger:          d.Logger,
		verificationURL: d.VerificationURL,
		recoveryURL:     d.RecoveryURL,
		now:             d.Now,
		state:           StateLoading,
		listeners:       make(map[int]func(Snapshot)),
	}
	if s.cache == nil {
		s.cache = nopCache{}
	}
	if s.logger == nil {
		s.logger = logging.Nop()
	}
	s.logger = s.logger.With("component", "session")
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state, Verified: s.verified}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	if s.profile != nil {
		p := s.profile.Clone()
		snap.Profile = &p
	}
	return snap
}

// Subscribe registers fn to be called with a fresh Snapshot after every
// state change. The returned func removes it.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update applies fn under the lock and notifies listeners afterwards.
func (s *Store) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store) currentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.ID
}

func stateFor(signedIn, verified bool) State {
	switch {
	case !signedIn:
		return StateAnonymous
	case verified:
		return StateVerified
	default:
		return StateUnverified
	}
}

func identityFrom(u *appwrite.User) *Identity {
	return &Identity{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerification,
		Registration:  u.Registration,
	}
}

// Init resolves the startup state. It restores a persisted session secret
// if there is one, then asks the BaaS who is signed in. Any failure means
// anonymous. Init never fails and always leaves StateLoading.
func (s *Store) Init(ctx context.Context) {
	s.restoreSession(ctx)

	u, err := s.account.Get(ctx)
	if err != nil {
		s.logger.Debug(ctx, "no active session", "error", err)
		s.update(func() {
			s.state = StateAnonymous
			s.identity = nil
			s.verified = false
			s.profile = nil
		})
		return
	}
	s.adopt(ctx, u)
}

// adopt makes u the current identity and loads its profile.
func (s *Store) adopt(ctx context.Context, u *appwrite.User) {
	p := s.loadProfile(ctx, u.ID)
	s.update(func() {
		s.identity = identityFrom(u)
		s.verified = u.EmailVerification
		s.state = stateFor(true, u.EmailVerification)
		s.profile = p
	})
}

// Login opens a session for an existing identity. Invalid credentials come
// back as appwrite.ErrUnauthorized.
func (s *Store) Login(ctx context.Context, email, password string) (*Identity, error) {
	if _, err := s.account.CreateEmailPasswordSession(ctx, email, password); err != nil {
		return nil, err
	}
	s.persistSession(ctx)

	u, err := s.account.Get(ctx)
	if err != nil {
		return nil, err
	}
	s.adopt(ctx, u)
	return identityFrom(u), nil
}

// Logout ends the session. Remote and cache failures are logged; the store
// always ends anonymous with every cached piece of state dropped.
func (s *Store) Logout(ctx context.Context) {
	id := s.currentID()

	if err := s.account.DeleteSession(ctx, "current"); err != nil {
		s.logger.Warn(ctx, "delete session failed", "error", err)
	}
	if id != "" {
		if err := s.cache.ClearUser(ctx, id); err != nil {
			s.logger.Warn(ctx, "clear local cache failed", "user", id, "error", err)
		}
	}
	if err := s.cache.Delete(ctx, cache.DeviceNamespace, cache.KeySession); err != nil {
		s.logger.Warn(ctx, "forget session failed", "error", err)
	}

	s.update(func() {
		s.state = StateAnonymous
		s.identity = nil
		s.verified = false
		s.profile = nil
		s.jwt = ""
		s.jwtExpiry = time.Time{}
	})
}

func (s *Store) persistSession(ctx context.Context) {
	if s.sessions == nil {
		return
	}
	secret := s.sessions.Session()
	if secret == "" {
		return
	}
	if err := s.cache.Set(ctx, cache.DeviceNamespace, cache.KeySession, []byte(secret)); err != nil {
		s.logger.Warn(ctx, "persist session failed", "error", err)
	}
}

func (s *Store) restoreSession(ctx context.Context) {
	if s.sessions == nil || s.sessions.Session() != "" {
		return
	}
	secret, err := s.cache.Get(ctx, cache.DeviceNamespace, cache.KeySession)
	if err != nil {
		s.logger.Warn(ctx, "restore session failed", "error", err)
		return
	}
	if len(secret) > 0 {
		s.sessions.SetSession(string(secret))
	}
}

type nopCache struct{}

func (nopCache) Get(context.Context, string, string) ([]byte, error)      { return nil, nil }
func (nopCache) Set(context.Context, string, string, []byte) error        { return nil }
func (nopCache) SetMany(context.Context, string, map[string][]byte) error { return nil }
func (nopCache) Delete(context.Context, string, string) error             { return nil }
func (nopCache) List(context.Context, string) (map[string][]byte, error)  { return nil, nil }
func (nopCache) ClearUser(context.Context, string) error                  { return nil }
