package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/oakmed/carebook/internal/portal/domain"
	"github.com/oakmed/carebook/internal/portal/store"
	"github.com/oakmed/carebook/pkg/apiclient"
)

type memStore struct {
	mu     sync.Mutex
	state  store.PersistedState
	saves  int
	clears int
}

func (m *memStore) Load(ctx context.Context) (store.PersistedState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *memStore) Save(ctx context.Context, state store.PersistedState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.saves++
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = store.PersistedState{}
	m.clears++
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) snapshot() store.PersistedState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func mintToken(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  "pat@example.com",
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingBackend serves /auth/me and counts every request that reaches it.
type countingBackend struct {
	srv   *httptest.Server
	calls atomic.Int64
}

func newCountingBackend(handler http.HandlerFunc) *countingBackend {
	b := &countingBackend{}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.calls.Add(1)
		handler(w, r)
	}))
	return b
}

func serveProfile(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": 7, "name": "Pat", "email": "pat@example.com", "role": role,
		})
	}
}

func newTestController(t *testing.T, baseURL string, st store.SessionStore) *Controller {
	t.Helper()

	client := apiclient.New(baseURL)
	client.HTTPClient.Timeout = 100 * time.Millisecond

	c := NewController(client, st, discardLogger())
	c.retryDelay = 10 * time.Millisecond
	t.Cleanup(c.Close)
	return c
}

func TestStartupWithoutCredential(t *testing.T) {
	t.Parallel()

	backend := newCountingBackend(serveProfile("PATIENT"))
	defer backend.srv.Close()

	st := &memStore{}
	c := newTestController(t, backend.srv.URL, st)
	c.Start(context.Background())

	snap := c.Snapshot()
	require.Equal(t, domain.Unauthenticated, snap.State)
	require.Nil(t, snap.User)
	require.Zero(t, backend.calls.Load(), "empty storage must not cost a network call")
}

func TestStartupWithInvalidCredential(t *testing.T) {
	t.Parallel()

	backend := newCountingBackend(serveProfile("PATIENT"))
	defer backend.srv.Close()

	for name, credential := range map[string]string{
		"malformed": "not-a-jwt",
		"expired":   "", // minted below
	} {
		t.Run(name, func(t *testing.T) {
			if credential == "" {
				credential = mintToken(t, "PATIENT", -time.Hour)
			}

			st := &memStore{state: store.PersistedState{
				Credential: credential, Authenticated: true, RoleHint: "PATIENT",
			}}
			c := newTestController(t, backend.srv.URL, st)
			c.Start(context.Background())

			require.Equal(t, domain.Unauthenticated, c.Snapshot().State)
			require.True(t, st.snapshot().IsEmpty(), "dead credential must be wiped")
			require.Zero(t, backend.calls.Load(), "locally invalid credential must not cost a network call")
		})
	}
}

func TestStartupPartialRecordIsWiped(t *testing.T) {
	t.Parallel()

	backend := newCountingBackend(serveProfile("PATIENT"))
	defer backend.srv.Close()

	// Credential present but the authenticated flag is missing.
	st := &memStore{state: store.PersistedState{Credential: mintToken(t, "PATIENT", time.Hour)}}
	c := newTestController(t, backend.srv.URL, st)
	c.Start(context.Background())

	require.Equal(t, domain.Unauthenticated, c.Snapshot().State)
	require.Equal(t, 1, st.clears)
	require.Zero(t, backend.calls.Load())
}

func TestStartupVerificationSucceeds(t *testing.T) {
	t.Parallel()

	backend := newCountingBackend(serveProfile("DOCTOR"))
	defer backend.srv.Close()

	st := &memStore{state: store.PersistedState{
		Credential: mintToken(t, "DOCTOR", time.Hour), Authenticated: true, RoleHint: "DOCTOR",
	}}
	c := newTestController(t, backend.srv.URL, st)

	var seen []domain.AuthState
	var seenMu sync.Mutex
	unsub := c.Subscribe(func(s domain.Session) {
		seenMu.Lock()
		seen = append(seen, s.State)
		seenMu.Unlock()
	})
	defer unsub()

	c.Start(context.Background())

	snap := c.Snapshot()
	require.Equal(t, domain.Authenticated, snap.State)
	require.NotNil(t, snap.User)
	require.Equal(t, "DOCTOR", snap.User.Role)
	require.False(t, snap.ConnectionDegraded)
	require.Equal(t, int64(1), backend.calls.Load())

	seenMu.Lock()
	defer seenMu.Unlock()
	require.Equal(t, []domain.AuthState{domain.AuthVerifying, domain.Authenticated}, seen)
}

func TestStartupRejectedCredentialClearsWithoutRetry(t *testing.T) {
	t.Parallel()

	backend := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer backend.srv.Close()

	st := &memStore{state: store.PersistedState{
		Credential: mintToken(t, "PATIENT", time.Hour), Authenticated: true,
	}}
	c := newTestController(t, backend.srv.URL, st)
	c.Start(context.Background())

	require.Equal(t, domain.Unauthenticated, c.Snapshot().State)
	require.True(t, st.snapshot().IsEmpty())

	// A hard rejection is authoritative; give any stray retry time to fire.
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int64(1), backend.calls.Load())
}

func TestStartupTransientFailureDegradesWithoutClearing(t *testing.T) {
	t.Parallel()

	backend := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	defer backend.srv.Close()

	st := &memStore{state: store.PersistedState{
		Credential: mintToken(t, "PATIENT", time.Hour), Authenticated: true, RoleHint: "PATIENT",
	}}
	c := newTestController(t, backend.srv.URL, st)
	c.Start(context.Background())

	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return snap.State == domain.Authenticated && snap.ConnectionDegraded
	}, 3*time.Second, 10*time.Millisecond, "exhausted retries must settle signed in and degraded")

	// Initial attempt plus the bounded retries, not one more.
	require.Equal(t, int64(1+defaultMaxRetries), backend.calls.Load())
	require.False(t, st.snapshot().IsEmpty(), "connectivity trouble must never wipe the credential")

	snap := c.Snapshot()
	require.Nil(t, snap.User)
	role, ok := snap.RoleHint(c.RoleHint())
	require.True(t, ok)
	require.Equal(t, domain.RolePatient, role)
}

func TestLoginSerializedWithInFlightRetry(t *testing.T) {
	t.Parallel()

	oldToken := mintToken(t, "PATIENT", time.Hour)
	newToken := mintToken(t, "DOCTOR", time.Hour)

	// The old credential times out once (forcing a retry to be scheduled),
	// then comes back 401 slowly. The new credential always succeeds.
	var oldCalls atomic.Int64
	backend := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+oldToken {
			serveProfile("DOCTOR")(w, r)
			return
		}
		if oldCalls.Add(1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer backend.srv.Close()

	st := &memStore{state: store.PersistedState{
		Credential: oldToken, Authenticated: true, RoleHint: "PATIENT",
	}}
	c := newTestController(t, backend.srv.URL, st)
	c.Start(context.Background())

	// Let the scheduled retry fire and get in flight against the slow 401.
	time.Sleep(30 * time.Millisecond)

	// The login must be serialized after the in-flight retry: the retry's
	// rejection may clear the old session, but it must never wipe the state
	// the login persists afterwards.
	require.NoError(t, c.Login(context.Background(), newToken))

	snap := c.Snapshot()
	require.Equal(t, domain.Authenticated, snap.State)
	require.Equal(t, newToken, snap.Credential)
	require.Equal(t, "DOCTOR", snap.User.Role)

	persisted := st.snapshot()
	require.Equal(t, newToken, persisted.Credential)
	require.True(t, persisted.Authenticated)
}

func TestLoginRejectsMalformedCredential(t *testing.T) {
	t.Parallel()

	backend := newCountingBackend(serveProfile("PATIENT"))
	defer backend.srv.Close()

	st := &memStore{}
	c := newTestController(t, backend.srv.URL, st)
	c.Start(context.Background())

	err := c.Login(context.Background(), "not.a.token")
	require.ErrorIs(t, err, ErrInvalidCredential)
	require.Zero(t, st.saves, "a rejected credential must never be persisted")
	require.Equal(t, domain.Unauthenticated, c.Snapshot().State)
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	backend := newCountingBackend(serveProfile("PATIENT"))
	defer backend.srv.Close()

	st := &memStore{}
	c := newTestController(t, backend.srv.URL, st)
	c.Start(context.Background())

	token := mintToken(t, "PATIENT", time.Hour)
	require.NoError(t, c.Login(context.Background(), token))

	snap := c.Snapshot()
	require.Equal(t, domain.Authenticated, snap.State)
	require.NotNil(t, snap.User)
	require.Equal(t, "Pat", snap.User.Name)
	require.False(t, snap.ConnectionDegraded)

	persisted := st.snapshot()
	require.Equal(t, token, persisted.Credential)
	require.True(t, persisted.Authenticated)
	require.Equal(t, "PATIENT", persisted.RoleHint)
}

func TestLoginOptimisticOnProfileTimeout(t *testing.T) {
	t.Parallel()

	backend := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	defer backend.srv.Close()

	st := &memStore{}
	c := newTestController(t, backend.srv.URL, st)
	c.Start(context.Background())

	token := mintToken(t, "DOCTOR", time.Hour)
	require.NoError(t, c.Login(context.Background(), token))

	snap := c.Snapshot()
	require.Equal(t, domain.Authenticated, snap.State)
	require.Nil(t, snap.User, "profile is still pending after a timeout")
	require.True(t, snap.ConnectionDegraded)
	require.False(t, st.snapshot().IsEmpty())

	// The role claim cached at login drives routing until the profile lands.
	role, ok := snap.RoleHint(c.RoleHint())
	require.True(t, ok)
	require.Equal(t, domain.RoleDoctor, role)
}

func TestLoginRollsBackOnServerFailure(t *testing.T) {
	t.Parallel()

	backend := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer backend.srv.Close()

	st := &memStore{}
	c := newTestController(t, backend.srv.URL, st)
	c.Start(context.Background())

	err := c.Login(context.Background(), mintToken(t, "PATIENT", time.Hour))
	require.Error(t, err)
	require.Equal(t, domain.Unauthenticated, c.Snapshot().State)
	require.True(t, st.snapshot().IsEmpty(), "rollback must leave no half-written session")
}

func TestLogoutAlwaysClearsLocally(t *testing.T) {
	t.Parallel()

	t.Run("backend logout fails", func(t *testing.T) {
		backend := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/logout" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			serveProfile("PATIENT")(w, r)
		})
		defer backend.srv.Close()

		st := &memStore{state: store.PersistedState{
			Credential: mintToken(t, "PATIENT", time.Hour), Authenticated: true,
		}}
		c := newTestController(t, backend.srv.URL, st)
		c.Start(context.Background())
		require.Equal(t, domain.Authenticated, c.Snapshot().State)

		c.Logout(context.Background())

		snap := c.Snapshot()
		require.Equal(t, domain.Unauthenticated, snap.State)
		require.Nil(t, snap.User)
		require.Empty(t, snap.Credential)
		require.True(t, st.snapshot().IsEmpty())
	})

	t.Run("cancels a pending startup retry", func(t *testing.T) {
		backend := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		defer backend.srv.Close()

		st := &memStore{state: store.PersistedState{
			Credential: mintToken(t, "PATIENT", time.Hour), Authenticated: true,
		}}
		c := newTestController(t, backend.srv.URL, st)
		c.retryDelay = 500 * time.Millisecond
		c.Start(context.Background())

		calls := backend.calls.Load()
		c.Logout(context.Background())

		// The scheduled retry would have fired within the delay window.
		time.Sleep(700 * time.Millisecond)
		require.Equal(t, calls, backend.calls.Load(), "logout must cancel pending verification retries")
		require.Equal(t, domain.Unauthenticated, c.Snapshot().State)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("replaces the profile wholesale", func(t *testing.T) {
		role := atomic.Value{}
		role.Store("PATIENT")
		backend := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
			serveProfile(role.Load().(string))(w, r)
		})
		defer backend.srv.Close()

		st := &memStore{state: store.PersistedState{
			Credential: mintToken(t, "PATIENT", time.Hour), Authenticated: true,
		}}
		c := newTestController(t, backend.srv.URL, st)
		c.Start(context.Background())

		role.Store("ADMIN")
		require.NoError(t, c.Refresh(context.Background()))
		require.Equal(t, "ADMIN", c.Snapshot().User.Role)
	})

	t.Run("rejects when not authenticated", func(t *testing.T) {
		backend := newCountingBackend(serveProfile("PATIENT"))
		defer backend.srv.Close()

		c := newTestController(t, backend.srv.URL, &memStore{})
		c.Start(context.Background())

		require.ErrorIs(t, c.Refresh(context.Background()), ErrNotAuthenticated)
	})

	t.Run("tears down on backend rejection", func(t *testing.T) {
		var reject atomic.Bool
		backend := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
			if reject.Load() {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			serveProfile("PATIENT")(w, r)
		})
		defer backend.srv.Close()

		st := &memStore{state: store.PersistedState{
			Credential: mintToken(t, "PATIENT", time.Hour), Authenticated: true,
		}}
		c := newTestController(t, backend.srv.URL, st)
		c.Start(context.Background())
		require.Equal(t, domain.Authenticated, c.Snapshot().State)

		reject.Store(true)
		require.ErrorIs(t, c.Refresh(context.Background()), ErrCredentialExpired)
		require.Equal(t, domain.Unauthenticated, c.Snapshot().State)
		require.True(t, st.snapshot().IsEmpty())
	})

	t.Run("absorbs connectivity trouble into the degraded flag", func(t *testing.T) {
		var hang atomic.Bool
		backend := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
			if hang.Load() {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
				return
			}
			serveProfile("PATIENT")(w, r)
		})
		defer backend.srv.Close()

		st := &memStore{state: store.PersistedState{
			Credential: mintToken(t, "PATIENT", time.Hour), Authenticated: true,
		}}
		c := newTestController(t, backend.srv.URL, st)
		c.Start(context.Background())

		hang.Store(true)
		require.NoError(t, c.Refresh(context.Background()))

		snap := c.Snapshot()
		require.Equal(t, domain.Authenticated, snap.State)
		require.True(t, snap.ConnectionDegraded)
		require.NotNil(t, snap.User, "stale profile survives a failed refresh")
	})
}

func TestStartIsIdempotent(t *testing.T) {
	t.Parallel()

	backend := newCountingBackend(serveProfile("PATIENT"))
	defer backend.srv.Close()

	st := &memStore{state: store.PersistedState{
		Credential: mintToken(t, "PATIENT", time.Hour), Authenticated: true,
	}}
	c := newTestController(t, backend.srv.URL, st)
	c.Start(context.Background())
	c.Start(context.Background())

	require.Equal(t, int64(1), backend.calls.Load())
}
