package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) lastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.errors) == 0 {
		return ""
	}
	return n.errors[len(n.errors)-1]
}

// testBackend is a minimal stand-in for the auth service, counting every
// request it receives.
type testBackend struct {
	server   *httptest.Server
	requests atomic.Int64
	token    string
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	b := &testBackend{token: "issued-token"}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		if req.Password != "secret1" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid username or password")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "logged in successfully",
			"data": map[string]any{
				"user": map[string]any{
					"id": "user-1", "username": req.Username,
					"email": req.Username + "@example.com", "role": "Buyer",
				},
				"auth": map[string]any{"token": b.token},
			},
		})
	})
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.token {
			writeError(w, http.StatusUnauthorized, "TOKEN_MALFORMED", "invalid token, please login to continue")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"id": "user-1", "username": "alice",
				"email": "alice@example.com", "role": "Buyer",
			},
		})
	})
	mux.HandleFunc("PUT /auth/update-password", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CurrentPassword string `json:"currentPassword"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.CurrentPassword != "secret1" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "current password is incorrect")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "password updated successfully"})
	})
	mux.HandleFunc("DELETE /auth/delete-account", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "account deleted successfully"})
	})

	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

func newTestController(t *testing.T, backend *testBackend, confirm Confirmer) (*SessionController, *FileTokenStore, *recordingNotifier) {
	t.Helper()
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))
	notifier := &recordingNotifier{}
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	api := NewAPIClient(backend.server.URL, backend.server.Client())
	return NewSessionController(api, store, notifier, confirm), store, notifier
}

func TestLoginSuccessPersistsTokenAndAuthenticates(t *testing.T) {
	backend := newTestBackend(t)
	controller, store, notifier := newTestController(t, backend, nil)

	controller.Login(context.Background(), "alice", "secret1", "Buyer")

	token, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "issued-token", token)

	session := controller.Session()
	assert.True(t, session.IsAuthenticated)
	require.NotNil(t, session.Profile)
	assert.Equal(t, "alice", session.Profile.Username)
	assert.Equal(t, []string{"logged in successfully"}, notifier.successes)
}

func TestLoginFailureSurfacesServerMessage(t *testing.T) {
	backend := newTestBackend(t)
	controller, store, notifier := newTestController(t, backend, nil)

	controller.Login(context.Background(), "alice", "wrong", "Buyer")

	_, ok := store.Load()
	assert.False(t, ok, "failed login must not persist a token")
	assert.False(t, controller.Session().IsAuthenticated)
	assert.Equal(t, "invalid username or password", notifier.lastError())
}

func TestLogoutThenHydrateMakesNoNetworkCall(t *testing.T) {
	backend := newTestBackend(t)
	controller, _, _ := newTestController(t, backend, nil)

	controller.Login(context.Background(), "alice", "secret1", "Buyer")
	require.True(t, controller.Session().IsAuthenticated)

	controller.Logout()
	before := backend.requests.Load()

	// Simulates a reload straight after logout.
	controller.Hydrate(context.Background())

	assert.False(t, controller.Session().IsAuthenticated)
	assert.Equal(t, before, backend.requests.Load(), "hydrate with empty store must not hit the network")
}

func TestLogoutIsIdempotent(t *testing.T) {
	backend := newTestBackend(t)
	controller, _, notifier := newTestController(t, backend, nil)

	controller.Logout()
	controller.Logout()

	assert.False(t, controller.Session().IsAuthenticated)
	assert.Len(t, notifier.successes, 2)
}

func TestHydrateWithValidToken(t *testing.T) {
	backend := newTestBackend(t)
	controller, store, _ := newTestController(t, backend, nil)
	require.NoError(t, store.Save("issued-token"))

	controller.Hydrate(context.Background())

	session := controller.Session()
	assert.True(t, session.IsAuthenticated)
	require.NotNil(t, session.Profile)
	assert.Equal(t, "alice", session.Profile.Username)
}

func TestHydrateRejectionKeepsStaleToken(t *testing.T) {
	backend := newTestBackend(t)
	controller, store, _ := newTestController(t, backend, nil)
	require.NoError(t, store.Save("stale-token"))

	controller.Hydrate(context.Background())

	assert.False(t, controller.Session().IsAuthenticated)
	token, ok := store.Load()
	require.True(t, ok, "rejected credential stays in place until explicit logout")
	assert.Equal(t, "stale-token", token)
}

func TestUpdatePasswordWithoutCredential(t *testing.T) {
	backend := newTestBackend(t)
	controller, _, _ := newTestController(t, backend, nil)

	err := controller.UpdatePassword(context.Background(), "old", "new")
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, backend.requests.Load(), "precondition failure must not hit the network")
}

func TestUpdatePasswordPropagatesServerMessage(t *testing.T) {
	backend := newTestBackend(t)
	controller, store, _ := newTestController(t, backend, nil)
	require.NoError(t, store.Save("issued-token"))

	err := controller.UpdatePassword(context.Background(), "wrong", "new-secret")
	require.Error(t, err)
	assert.Equal(t, "current password is incorrect", err.Error())

	require.NoError(t, controller.UpdatePassword(context.Background(), "secret1", "new-secret"))

	// Rotation leaves the in-hand credential and session state untouched.
	token, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "issued-token", token)
}

func TestDeleteAccountDeclinedConfirmation(t *testing.T) {
	backend := newTestBackend(t)
	decline := func(string) bool { return false }
	controller, store, _ := newTestController(t, backend, decline)
	require.NoError(t, store.Save("issued-token"))
	controller.Hydrate(context.Background())
	before := backend.requests.Load()

	require.NoError(t, controller.DeleteAccount(context.Background()))

	assert.Equal(t, before, backend.requests.Load(), "declined confirmation must not hit the network")
	assert.True(t, controller.Session().IsAuthenticated, "session state unchanged")
	_, ok := store.Load()
	assert.True(t, ok)
}

func TestDeleteAccountClearsSession(t *testing.T) {
	backend := newTestBackend(t)
	controller, store, notifier := newTestController(t, backend, nil)
	require.NoError(t, store.Save("issued-token"))
	controller.Hydrate(context.Background())

	require.NoError(t, controller.DeleteAccount(context.Background()))

	assert.False(t, controller.Session().IsAuthenticated)
	_, ok := store.Load()
	assert.False(t, ok)
	assert.Contains(t, notifier.successes, "account deleted successfully")
}

func TestDeleteAccountWithoutCredential(t *testing.T) {
	backend := newTestBackend(t)
	controller, _, _ := newTestController(t, backend, nil)

	err := controller.DeleteAccount(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, backend.requests.Load())
}

// Overlapping logins are not deduplicated: the later completion wins and
// session state stays internally consistent.
func TestConcurrentLoginsLastWriteWins(t *testing.T) {
	backend := newTestBackend(t)
	controller, store, _ := newTestController(t, backend, nil)

	var wg sync.WaitGroup
	for _, username := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			controller.Login(context.Background(), name, "secret1", "Buyer")
		}(username)
	}
	wg.Wait()

	session := controller.Session()
	require.True(t, session.IsAuthenticated)
	assert.Contains(t, []string{"alice", "bob"}, session.Profile.Username)

	token, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "issued-token", token)
}
