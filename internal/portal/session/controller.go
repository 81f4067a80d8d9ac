package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oakmed/carebook/internal/portal/domain"
	"github.com/oakmed/carebook/internal/portal/store"
	"github.com/oakmed/carebook/pkg/apiclient"
	"github.com/oakmed/carebook/pkg/tokenx"
)

var (
	// ErrInvalidCredential reports a login attempt with a credential that
	// failed local validation. Nothing was persisted.
	ErrInvalidCredential = errors.New("session: credential failed local validation")

	// ErrNotAuthenticated reports a refresh on a session that is not in the
	// authenticated state.
	ErrNotAuthenticated = errors.New("session: not authenticated")

	// ErrCredentialExpired reports that refresh found the stored credential
	// expired and tore the session down.
	ErrCredentialExpired = errors.New("session: credential expired")
)

const (
	defaultRetryDelay = 2 * time.Second
	defaultMaxRetries = 3
)

// Controller owns the session lifecycle: startup verification, login,
// logout, refresh, and the bounded retry dance on flaky connectivity. It is
// the only writer of session state; everything else observes snapshots.
//
// Exactly one Controller exists per process, constructor-injected at the
// application root.
type Controller struct {
	client *apiclient.Client
	store  store.SessionStore
	logger *slog.Logger

	retryDelay time.Duration
	maxRetries int

	// opMu serializes whole transitions (start, login, logout, refresh) so
	// two of them can never interleave writes to the durable store.
	opMu sync.Mutex

	// mu guards the snapshot fields and the retry bookkeeping below.
	mu         sync.Mutex
	state      domain.AuthState
	credential string
	user       *domain.UserProfile
	degraded   bool
	roleHint   string

	// generation fences async results: any result carrying a stale
	// generation is dropped instead of clobbering newer state.
	generation uint64
	retryTimer *time.Timer

	subs   map[int]func(domain.Session)
	nextID int
}

// NewController wires a controller. It starts in the unknown state; call
// Start once to run the startup verification.
func NewController(client *apiclient.Client, st store.SessionStore, logger *slog.Logger) *Controller {
	return &Controller{
		client:     client,
		store:      st,
		logger:     logger,
		retryDelay: defaultRetryDelay,
		maxRetries: defaultMaxRetries,
		state:      domain.AuthUnknown,
		subs:       make(map[int]func(domain.Session)),
	}
}

// SetRetryPolicy overrides the startup verification retry schedule. Call
// before Start.
func (c *Controller) SetRetryPolicy(delay time.Duration, maxRetries int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if delay > 0 {
		c.retryDelay = delay
	}
	if maxRetries >= 0 {
		c.maxRetries = maxRetries
	}
}

// Subscribe registers fn to run after every state change, with the fresh
// snapshot. The returned function unsubscribes.
//
// fn runs on the transition's goroutine and must not invoke controller
// transitions synchronously; dispatch to another goroutine instead.
func (c *Controller) Subscribe(fn func(domain.Session)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// RoleHint returns the cached role string persisted next to the credential.
func (c *Controller) RoleHint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roleHint
}

func (c *Controller) snapshotLocked() domain.Session {
	return domain.Session{
		State:              c.state,
		Credential:         c.credential,
		User:               c.user,
		ConnectionDegraded: c.degraded,
	}
}

// notifyLocked snapshots under the state lock, then fans out with it
// released so subscribers can read snapshots freely.
func (c *Controller) notifyLocked() {
	snap := c.snapshotLocked()
	fns := make([]func(domain.Session), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}

	c.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
	c.mu.Lock()
}

// Start runs the startup verification sequence. Credentials that fail the
// local check are dropped without a single network round trip; only a
// locally-plausible credential earns a call to the backend. Transient
// backend failures schedule bounded fixed-delay retries in the background.
func (c *Controller) Start(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.state != domain.AuthUnknown {
		c.mu.Unlock()
		return
	}
	c.state = domain.AuthVerifying
	c.notifyLocked()
	gen := c.generation
	c.mu.Unlock()

	persisted, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("failed to load persisted session, starting signed out", "error", err)
		c.clearAndRest(ctx)
		return
	}

	if persisted.IsEmpty() {
		// Also wipes a partial record (credential without flag or vice
		// versa) left behind by an interrupted write.
		c.clearAndRest(ctx)
		return
	}

	res := tokenx.Validate(persisted.Credential)
	if !res.OK() {
		c.logger.Info("persisted credential failed local validation, starting signed out",
			"status", res.Status, "reason", res.Reason.String())
		c.clearAndRest(ctx)
		return
	}

	if res.SecondsUntilExpiry != nil && *res.SecondsUntilExpiry < 300 {
		c.logger.Warn("persisted credential expires soon", "seconds_left", *res.SecondsUntilExpiry)
	}

	c.client.SetCredential(persisted.Credential)

	c.mu.Lock()
	c.credential = persisted.Credential
	c.roleHint = persisted.RoleHint
	c.mu.Unlock()

	c.verifyAttempt(gen, 0)
}

// verifyAttempt performs one startup profile fetch and applies the outcome,
// unless the generation moved on in the meantime. Callers hold opMu, which
// is what entitles this method to clear the store on a rejection.
func (c *Controller) verifyAttempt(gen uint64, attempt int) {
	ctx, cancel := context.WithTimeout(context.Background(), apiclient.DefaultTimeout+time.Second)
	defer cancel()

	user, err := c.client.CurrentUser(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		// A login or logout superseded this verification; the result is
		// stale and must not be applied.
		return
	}

	switch {
	case err == nil:
		profile := domain.UserProfile(*user)
		c.user = &profile
		c.state = domain.Authenticated
		c.degraded = false
		c.roleHint = user.Role
		c.logger.Info("startup verification succeeded", "role", user.Role)
		c.notifyLocked()

	case apiclient.IsUnauthorized(err):
		// Authoritative rejection: the credential is dead, no retry.
		c.logger.Info("credential rejected by backend, signing out", "error", err)
		c.mu.Unlock()
		c.clearAndRest(context.Background())
		c.mu.Lock()

	case apiclient.IsTransient(err):
		if attempt < c.maxRetries {
			c.degraded = true
			c.logger.Warn("startup verification unreachable, retrying",
				"attempt", attempt+1, "max", c.maxRetries, "delay", c.retryDelay)
			c.notifyLocked()
			c.retryTimer = time.AfterFunc(c.retryDelay, func() {
				c.retryVerify(gen, attempt+1)
			})
			return
		}
		// Retries exhausted: the credential was valid a moment ago, so keep
		// the session alive in degraded mode rather than forcing a logout
		// over pure connectivity trouble.
		c.logger.Warn("startup verification retries exhausted, staying signed in degraded")
		c.state = domain.Authenticated
		c.degraded = true
		c.notifyLocked()

	default:
		// Server-side failure: credential state unknown, keep it.
		c.logger.Warn("startup verification failed server-side", "error", err)
		c.state = domain.Authenticated
		c.degraded = true
		c.notifyLocked()
	}
}

// retryVerify runs a timer-scheduled verification attempt under the
// transition lock, so its outcome (including the clear a rejected credential
// triggers) can never interleave with a concurrent login or logout. The
// generation is re-checked once the lock is held: a transition that ran
// while the timer was pending wins and the retry is dropped.
func (c *Controller) retryVerify(gen uint64, attempt int) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	superseded := gen != c.generation
	c.mu.Unlock()
	if superseded {
		return
	}

	c.verifyAttempt(gen, attempt)
}

// Login validates and installs a freshly minted credential. A credential
// that fails local validation is rejected before anything is written. The
// post-login profile fetch is optimistic: a timeout still authenticates and
// leaves the profile to a later refresh.
func (c *Controller) Login(ctx context.Context, token string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	res := tokenx.Validate(token)
	if !res.OK() {
		if res.Status == tokenx.StatusExpired {
			return fmt.Errorf("%w: expired", ErrInvalidCredential)
		}
		return fmt.Errorf("%w: %s", ErrInvalidCredential, res.Reason.String())
	}

	c.supersede()

	hint := res.Claims.Role
	if err := c.store.Save(ctx, store.PersistedState{
		Credential:    token,
		Authenticated: true,
		RoleHint:      hint,
	}); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	c.client.SetCredential(token)

	c.mu.Lock()
	c.credential = token
	c.roleHint = hint
	c.mu.Unlock()

	user, err := c.client.CurrentUser(ctx)
	switch {
	case err == nil:
		// Refresh the cached hint with the profile's authoritative role.
		if saveErr := c.store.Save(ctx, store.PersistedState{
			Credential:    token,
			Authenticated: true,
			RoleHint:      user.Role,
		}); saveErr != nil {
			c.logger.Warn("failed to refresh persisted role hint", "error", saveErr)
		}

		profile := domain.UserProfile(*user)
		c.mu.Lock()
		c.user = &profile
		c.state = domain.Authenticated
		c.degraded = false
		c.roleHint = user.Role
		c.notifyLocked()
		c.mu.Unlock()
		c.logger.Info("login complete", "role", user.Role)
		return nil

	case apiclient.KindOf(err) == apiclient.KindTimeout:
		// The credential itself is good; authenticate now, fetch later.
		c.mu.Lock()
		c.user = nil
		c.state = domain.Authenticated
		c.degraded = true
		c.notifyLocked()
		c.mu.Unlock()
		c.logger.Warn("profile fetch timed out after login, proceeding optimistically")
		return nil

	default:
		// Roll back: no half-authenticated state survives a hard failure.
		c.clearAndRest(ctx)
		return fmt.Errorf("post-login verification failed: %w", err)
	}
}

// Logout tears the session down. The backend call is best-effort; local
// state and durable storage are cleared no matter what, and any pending
// startup retry is cancelled so it cannot resurrect the session.
func (c *Controller) Logout(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.supersede()

	if c.client.Credential() != "" {
		c.client.Logout(ctx)
	}

	c.clearAndRest(ctx)
	c.logger.Info("logged out")
}

// Refresh re-validates the stored credential and re-fetches the profile,
// replacing it wholesale. An expired credential tears the session down and
// reports ErrCredentialExpired. Connectivity trouble is absorbed into the
// degraded flag rather than surfaced.
func (c *Controller) Refresh(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.state != domain.Authenticated {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}
	credential := c.credential
	c.state = domain.AuthVerifying
	c.notifyLocked()
	c.mu.Unlock()

	if res := tokenx.Validate(credential); !res.OK() {
		c.supersede()
		c.clearAndRest(ctx)
		return ErrCredentialExpired
	}

	user, err := c.client.CurrentUser(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err == nil:
		profile := domain.UserProfile(*user)
		c.user = &profile
		c.state = domain.Authenticated
		c.degraded = false
		c.roleHint = user.Role
		c.notifyLocked()
		return nil

	case apiclient.IsUnauthorized(err):
		c.mu.Unlock()
		c.supersede()
		c.clearAndRest(ctx)
		c.mu.Lock()
		return ErrCredentialExpired

	default:
		// Keep the session; mark it stale.
		c.logger.Warn("refresh failed, keeping stale session", "error", err)
		c.state = domain.Authenticated
		c.degraded = true
		c.notifyLocked()
		return nil
	}
}

// Retry is the degraded-connection banner's manual action: it re-runs the
// profile fetch and logs, never throws into the render path.
func (c *Controller) Retry(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("manual retry failed", "error", err)
	}
}

// Close cancels any pending retry and fences outstanding results. Further
// state changes require a fresh controller.
func (c *Controller) Close() {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.supersede()
}

// supersede bumps the generation and cancels any pending retry timer, so no
// in-flight or scheduled verification can apply its result anymore.
func (c *Controller) supersede() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}

// clearAndRest wipes durable and in-memory state and settles in the
// unauthenticated rest state.
func (c *Controller) clearAndRest(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("failed to clear persisted session", "error", err)
	}
	c.client.ClearCredential()

	c.mu.Lock()
	c.credential = ""
	c.user = nil
	c.roleHint = ""
	c.degraded = false
	c.state = domain.Unauthenticated
	c.notifyLocked()
	c.mu.Unlock()
}
