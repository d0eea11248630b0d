package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/user"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password and held
	// accounts alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountMisconfigured flags an active record with no password hash set.
	ErrAccountMisconfigured = errors.New("account is not set up for sign-in; please contact an administrator")
	// ErrBackendUnavailable hides backend-internal detail behind a generic retry message.
	ErrBackendUnavailable = errors.New("service temporarily unavailable; please try again")
	// ErrLoginSuperseded is returned when a login resolves after a logout or a
	// newer login already took over; its result is discarded.
	ErrLoginSuperseded = errors.New("login superseded")
	// ErrMalformedSession marks unparseable cached session data; it never
	// reaches the user, the slot is treated as absent.
	ErrMalformedSession = errors.New("malformed stored session")
)

// State is the authenticator's lifecycle state.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

type event int

const (
	eventLoginStarted event = iota
	eventLoginSucceeded
	eventLoginFailed
	eventRestored
	eventLoggedOut
)

// nextState is the single transition function of the session state machine.
// It is total: unknown combinations leave the state unchanged.
func nextState(s State, ev event) State {
	switch ev {
	case eventLoginStarted:
		return StateAuthenticating
	case eventLoginSucceeded, eventRestored:
		return StateAuthenticated
	case eventLoginFailed, eventLoggedOut:
		return StateUnauthenticated
	}
	return s
}

// Authenticator owns the single source of truth for "who is logged in".
// All other components receive session copies plus a logout callback.
type Authenticator struct {
	svc    user.Service
	cache  Cache
	logger core.Logger

	key    []byte
	issuer string

	mu      sync.Mutex
	state   State
	gen     uint64 // request generation; bumped by Login and Logout
	current *UserSession
}

func NewAuthenticator(svc user.Service, cache Cache, conf *core.Config, logger core.Logger) *Authenticator {
	return &Authenticator{
		svc:    svc,
		cache:  cache,
		logger: logger,
		key:    []byte(conf.SecretKey),
		issuer: conf.AppName,
	}
}

// Current returns a copy of the active session, if any.
func (a *Authenticator) Current() (UserSession, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return UserSession{}, false
	}
	return *a.current, true
}

func (a *Authenticator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Login validates the credentials against the credential store and, on
// success, makes the resulting session current and persists it to the cache.
// Unknown email, wrong password and non-active accounts all fail with
// ErrInvalidCredentials. Failures are never retried here.
func (a *Authenticator) Login(ctx context.Context, email, password string) (UserSession, error) {
	email = core.CleanString(email, true /* lower */)
	if email == "" || password == "" {
		return UserSession{}, ErrInvalidCredentials
	}

	gen := a.begin()

	usr, err := a.svc.GetActiveByEmail(ctx, email)
	if err != nil {
		a.fail(gen)
		if err == user.ErrNotFound {
			return UserSession{}, ErrInvalidCredentials
		}
		a.logger.Error(fmt.Sprintf("login: credential store lookup: %v", err), err)
		return UserSession{}, ErrBackendUnavailable
	}
	if len(usr.PasswordHash) == 0 {
		a.fail(gen)
		return UserSession{}, ErrAccountMisconfigured
	}
	if err := usr.CheckPassword(password); err != nil {
		a.fail(gen)
		return UserSession{}, ErrInvalidCredentials
	}

	if updated, err := a.svc.SetLastLogin(ctx, usr); err != nil {
		a.logger.Warn(fmt.Sprintf("login: setting last login: %v", err), err)
	} else {
		usr = updated
	}
	return a.complete(gen, NewUserSession(usr), eventLoginSucceeded)
}

// Restore rebuilds the session from the cache slot. The cached candidate is
// always re-validated against the credential store; a revoked, held or
// missing account discards the slot. Restore never returns an error: every
// failure degrades to "no session".
func (a *Authenticator) Restore(ctx context.Context) (UserSession, bool) {
	raw, err := a.cache.Get()
	if err != nil {
		if err != ErrNoSession {
			a.logger.Warn(fmt.Sprintf("restore: reading session slot: %v", err), err)
			a.clearSlot()
		}
		return UserSession{}, false
	}

	cand, err := decodeSession(raw, a.key)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("restore: %v", err), err)
		a.clearSlot()
		return UserSession{}, false
	}

	usr, err := a.svc.GetActiveByID(ctx, cand.ID)
	if err != nil {
		if err != user.ErrNotFound {
			a.logger.Warn(fmt.Sprintf("restore: re-validating session: %v", err), err)
		}
		a.clearSlot()
		return UserSession{}, false
	}

	sess := NewUserSession(usr)
	if !sess.Valid() {
		a.clearSlot()
		return UserSession{}, false
	}

	a.mu.Lock()
	gen := a.gen
	a.mu.Unlock()
	if _, err := a.complete(gen, sess, eventRestored); err != nil {
		return UserSession{}, false
	}
	return sess, true
}

// Logout clears the in-memory session and the cache slot unconditionally.
// It is idempotent and never fails. Bumping the generation makes any
// in-flight Login discard its result instead of resurrecting the slot.
func (a *Authenticator) Logout() {
	a.mu.Lock()
	a.gen++
	a.state = nextState(a.state, eventLoggedOut)
	a.current = nil
	a.mu.Unlock()
	a.clearSlot()
}

func (a *Authenticator) begin() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.state = nextState(a.state, eventLoginStarted)
	return a.gen
}

func (a *Authenticator) fail(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return
	}
	a.state = nextState(a.state, eventLoginFailed)
	a.current = nil
}

func (a *Authenticator) complete(gen uint64, sess UserSession, ev event) (UserSession, error) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return UserSession{}, ErrLoginSuperseded
	}
	a.state = nextState(a.state, ev)
	a.current = &sess
	a.mu.Unlock()

	raw, err := encodeSession(sess, a.key, a.issuer)
	if err != nil {
		a.logger.Error(fmt.Sprintf("persisting session: %v", err), err)
		return sess, nil // authenticated in memory; slot write is best-effort
	}
	if err := a.cache.Set(raw); err != nil {
		a.logger.Error(fmt.Sprintf("persisting session: %v", err), err)
	}
	return sess, nil
}

func (a *Authenticator) clearSlot() {
	if err := a.cache.Clear(); err != nil {
		a.logger.Warn(fmt.Sprintf("clearing session slot: %v", err), err)
	}
}
