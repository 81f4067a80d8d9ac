package store

import "context"

// PersistedState is the durable session record. The invariant is all-or-
// nothing: either a credential and its authenticated flag are both present,
// or the record is empty.
type PersistedState struct {
	Credential    string
	Authenticated bool

	// RoleHint caches the signed-in user's role so the UI can pick a landing
	// view before the profile fetch completes. Advisory only.
	RoleHint string
}

// IsEmpty reports whether nothing usable was persisted.
func (p PersistedState) IsEmpty() bool {
	return p.Credential == "" || !p.Authenticated
}

// SessionStore is the only component allowed to touch the durable layer.
// Exactly one SessionController writes through it at a time.
type SessionStore interface {
	// Load returns the last persisted state, or a zero PersistedState when
	// nothing was saved. Called once at startup.
	Load(ctx context.Context) (PersistedState, error)

	// Save persists credential, flag and role hint as one atomic write.
	Save(ctx context.Context, state PersistedState) error

	// Clear removes all persisted session state. Idempotent.
	Clear(ctx context.Context) error

	Close() error
}
