package client

import (
	"context"
	"sync"

	"github.com/snapcart/storefront/internal/domain"
)

// Session is the client-held, derived view of authentication state. It is
// always reconstructable from the stored credential plus a profile fetch.
type Session struct {
	IsAuthenticated bool
	Profile         *domain.Profile
}

// Notifier receives user-facing outcome messages, the CLI stand-in for UI
// toasts.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Confirmer gates irreversible actions on an explicit yes from the user.
type Confirmer func(prompt string) bool

// SessionController orchestrates the client-side session lifecycle: hydrate,
// login, logout, password rotation and account deletion. Session mutations
// are serialized by a mutex; overlapping completions are last-write-wins.
type SessionController struct {
	api     *APIClient
	store   TokenStore
	notify  Notifier
	confirm Confirmer

	mu      sync.Mutex
	session Session
}

// NewSessionController wires the controller.
func NewSessionController(api *APIClient, store TokenStore, notify Notifier, confirm Confirmer) *SessionController {
	return &SessionController{api: api, store: store, notify: notify, confirm: confirm}
}

// Session returns a copy of the current session state.
func (sc *SessionController) Session() Session {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.session
}

// Hydrate rebuilds session state at startup. With no stored credential the
// session is unauthenticated and no network call is made. On any fetch
// failure the stale credential stays in the store: hydrate cannot tell a
// transient network error from a rejected token, and logout remains the
// explicit eviction path.
func (sc *SessionController) Hydrate(ctx context.Context) {
	token, ok := sc.store.Load()
	if !ok {
		sc.setSession(Session{})
		return
	}

	profile, err := sc.api.Profile(ctx, token)
	if err != nil {
		sc.setSession(Session{})
		return
	}
	sc.setSession(Session{IsAuthenticated: true, Profile: profile})
}

// Login submits credentials and, on success, persists the returned token and
// marks the session authenticated. Outcomes surface through the notifier;
// login never returns an error to its caller. No automatic retry.
func (sc *SessionController) Login(ctx context.Context, username, password, roleHint string) {
	result, err := sc.api.Login(ctx, username, password, roleHint)
	if err != nil {
		sc.notify.Error(errorMessage(err))
		return
	}

	if err := sc.store.Save(result.Token); err != nil {
		sc.notify.Error("could not persist session: " + err.Error())
		return
	}

	profile := result.User
	sc.setSession(Session{IsAuthenticated: true, Profile: &profile})

	msg := result.Message
	if msg == "" {
		msg = "logged in successfully"
	}
	sc.notify.Success(msg)
}

// Logout clears the stored credential and session state unconditionally. It
// never fails and does not depend on server reachability.
func (sc *SessionController) Logout() {
	_ = sc.store.Clear()
	sc.setSession(Session{})
	sc.notify.Success("logged out successfully")
}

// UpdatePassword rotates the password under the current credential. It fails
// fast with ErrNotAuthenticated when no credential is stored, and propagates
// a typed error for programmatic handling. Session state is untouched either
// way: rotation does not invalidate the in-hand credential.
func (sc *SessionController) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	token, ok := sc.store.Load()
	if !ok {
		return ErrNotAuthenticated
	}
	return sc.api.UpdatePassword(ctx, token, currentPassword, newPassword)
}

// DeleteAccount asks the user for confirmation before issuing the deletion
// request. A declined confirmation makes no network call and leaves all state
// unchanged.
func (sc *SessionController) DeleteAccount(ctx context.Context) error {
	token, ok := sc.store.Load()
	if !ok {
		sc.notify.Error(ErrNotAuthenticated.Error())
		return ErrNotAuthenticated
	}

	if !sc.confirm("Are you sure you want to delete your account? This action is irreversible!") {
		return nil
	}

	message, err := sc.api.DeleteAccount(ctx, token)
	if err != nil {
		sc.notify.Error(errorMessage(err))
		return err
	}

	_ = sc.store.Clear()
	sc.setSession(Session{})
	if message == "" {
		message = "account deleted successfully"
	}
	sc.notify.Success(message)
	return nil
}

func (sc *SessionController) setSession(s Session) {
	sc.mu.Lock()
	sc.session = s
	sc.mu.Unlock()
}

func errorMessage(err error) string {
	if err == nil {
		return fallbackMessage
	}
	return err.Error()
}
