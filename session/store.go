// Package session owns the client-side authentication lifecycle: the
// persisted bearer token, the cached user profile, and the state machine
// the rest of the application keys off.
//
// The store moves between three states. It starts Unknown; Resume,
// Login and Register settle it into Authenticated or Anonymous. A 401
// observed anywhere drops it back to Anonymous via Invalidate, which the
// API client's unauthorized hook should point at.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/marklyhq/markly.go/pkg/models"
)

// ErrNotAuthenticated is returned by Require when no user is cached.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// State is the session lifecycle state.
type State int

const (
	// StateUnknown is the initial state, before Resume has settled it.
	StateUnknown State = iota
	// StateAnonymous means no valid token or the profile fetch failed.
	StateAnonymous
	// StateAuthenticated means a user profile is cached.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// EventKind labels a session transition for the notifier.
type EventKind string

const (
	EventResume   EventKind = "resume"
	EventLogin    EventKind = "login"
	EventRegister EventKind = "register"
	EventLogout   EventKind = "logout"
)

// Event is the observable side effect of a transition, the SDK analog of
// the SPA's success/failure banners.
type Event struct {
	Kind    EventKind
	Success bool
	Message string
}

// Notifier receives transition events.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Event)

// Notify implements Notifier.
func (f NotifierFunc) Notify(e Event) { f(e) }

// API is the slice of the markly client the store depends on.
type API interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, username, email, password string) (string, error)
	Me(ctx context.Context) (*models.User, error)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithNotifier registers the transition event sink.
func WithNotifier(n Notifier) StoreOption {
	return func(s *Store) { s.notifier = n }
}

// WithLogger enables transition logging.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

// Store is the auth session store. It is safe for concurrent use.
type Store struct {
	api      API
	tokens   TokenStore
	notifier Notifier
	log      zerolog.Logger

	mu    sync.RWMutex
	state State
	user  *models.User
}

// New creates a store in the Unknown state. Call Resume to settle it
// from a previously persisted token.
func New(api API, tokens TokenStore, opts ...StoreOption) *Store {
	s := &Store{
		api:    api,
		tokens: tokens,
		log:    zerolog.Nop(),
		state:  StateUnknown,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token implements the client's TokenSource, reading the persisted token
// on every call.
func (s *Store) Token() string {
	tok, err := s.tokens.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("token load failed")
		return ""
	}
	return tok
}

// Resume settles the initial Unknown state. With no persisted token the
// session is Anonymous. With one, a profile fetch decides: success caches
// the user, any failure purges the stale token so startup never retries
// it forever.
func (s *Store) Resume(ctx context.Context) (State, error) {
	tok, err := s.tokens.Load()
	if err != nil {
		s.setAnonymous()
		return StateAnonymous, fmt.Errorf("session: resume: %w", err)
	}
	if tok == "" {
		s.setAnonymous()
		return StateAnonymous, nil
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		if clearErr := s.tokens.Clear(); clearErr != nil {
			s.log.Warn().Err(clearErr).Msg("stale token purge failed")
		}
		s.setAnonymous()
		s.notify(Event{Kind: EventResume, Message: "session expired, please log in again"})
		return StateAnonymous, fmt.Errorf("session: resume: %w", err)
	}

	s.setAuthenticated(user)
	s.notify(Event{Kind: EventResume, Success: true, Message: "welcome back, " + user.Username})
	return StateAuthenticated, nil
}

// Login exchanges credentials for a token, persists it, and fetches the
// profile. The two steps are atomic from the caller's perspective: a
// profile-fetch failure rolls the persisted token back instead of leaving
// a token with no cached user.
func (s *Store) Login(ctx context.Context, email, password string) error {
	err := s.establish(ctx, EventLogin, func() (string, error) {
		return s.api.Login(ctx, email, password)
	})
	if err != nil {
		return fmt.Errorf("session: login: %w", err)
	}
	return nil
}

// Register mirrors Login against the registration endpoint.
func (s *Store) Register(ctx context.Context, username, email, password string) error {
	err := s.establish(ctx, EventRegister, func() (string, error) {
		return s.api.Register(ctx, username, email, password)
	})
	if err != nil {
		return fmt.Errorf("session: register: %w", err)
	}
	return nil
}

func (s *Store) establish(ctx context.Context, kind EventKind, authenticate func() (string, error)) error {
	token, err := authenticate()
	if err != nil {
		s.setAnonymous()
		s.notify(Event{Kind: kind, Message: err.Error()})
		return err
	}

	if err := s.tokens.Save(token); err != nil {
		s.setAnonymous()
		s.notify(Event{Kind: kind, Message: err.Error()})
		return err
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		// Roll back so no dangling token survives a half-finished login.
		if clearErr := s.tokens.Clear(); clearErr != nil {
			s.log.Warn().Err(clearErr).Msg("token rollback failed")
		}
		s.setAnonymous()
		s.notify(Event{Kind: kind, Message: err.Error()})
		return err
	}

	s.setAuthenticated(user)
	s.notify(Event{Kind: kind, Success: true, Message: "welcome, " + user.Username})
	return nil
}

// Logout purges the token and cached user. No server call is made.
func (s *Store) Logout() {
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("token purge failed")
	}
	s.setAnonymous()
	s.notify(Event{Kind: EventLogout, Success: true, Message: "logged out"})
}

// Invalidate purges the session without emitting an event. Register it
// as the client's unauthorized hook so a 401 anywhere drops the session.
func (s *Store) Invalidate() {
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("token purge failed")
	}
	s.log.Debug().Msg("session invalidated")
	s.setAnonymous()
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsLoading reports whether Resume has not settled the session yet.
func (s *Store) IsLoading() bool {
	return s.State() == StateUnknown
}

// IsAuthenticated is true iff a user profile is cached.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsAdmin is the role guard used by admin-only surfaces.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

// User returns the cached profile, or nil when anonymous.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Require returns ErrNotAuthenticated when no user is cached.
func (s *Store) Require() error {
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

func (s *Store) setAuthenticated(user *models.User) {
	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = user
	s.mu.Unlock()
	s.log.Debug().Str("user", user.Username).Msg("session authenticated")
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	s.state = StateAnonymous
	s.user = nil
	s.mu.Unlock()
}

func (s *Store) notify(e Event) {
	if s.notifier != nil {
		s.notifier.Notify(e)
	}
}
