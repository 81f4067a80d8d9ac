package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oakmed/carebook/internal/portal/store"
	"github.com/oakmed/carebook/pkg/cryptox"

	_ "modernc.org/sqlite"
)

// Store persists session state in a local SQLite file, the durable key-value
// substrate standing in for the browser's localStorage. The credential is
// sealed at rest; the flag and role hint are stored plain.
type Store struct {
	db     *sql.DB
	sealer *cryptox.Sealer
}

func NewStore(dsn string, sealer *cryptox.Sealer) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, sealer: sealer}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load returns the persisted session state, or a zero state when nothing was
// saved. A credential that fails unsealing (key rotated, file tampered) is
// reported as an error alongside the zero state so the caller can start
// unauthenticated and log the cause.
func (s *Store) Load(ctx context.Context) (store.PersistedState, error) {
	var (
		sealed        []byte
		authenticated bool
		roleHint      string
	)

	row := s.db.QueryRowContext(ctx,
		`SELECT credential, authenticated, role_hint FROM session_state WHERE id = 1`)
	if err := row.Scan(&sealed, &authenticated, &roleHint); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.PersistedState{}, nil
		}
		return store.PersistedState{}, fmt.Errorf("load session state: %w", err)
	}

	credential, err := s.sealer.Open(sealed)
	if err != nil {
		return store.PersistedState{}, fmt.Errorf("unseal persisted credential: %w", err)
	}

	return store.PersistedState{
		Credential:    string(credential),
		Authenticated: authenticated,
		RoleHint:      roleHint,
	}, nil
}

// Save upserts the single session row. The pinned row id makes the write
// atomic as a set: credential, flag and hint land together or not at all.
func (s *Store) Save(ctx context.Context, state store.PersistedState) error {
	sealed, err := s.sealer.Seal([]byte(state.Credential))
	if err != nil {
		return fmt.Errorf("seal credential: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_state (id, credential, authenticated, role_hint, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			credential    = excluded.credential,
			authenticated = excluded.authenticated,
			role_hint     = excluded.role_hint,
			updated_at    = excluded.updated_at`,
		sealed, state.Authenticated, state.RoleHint)
	if err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Deleting an absent row is a no-op,
// which makes Clear idempotent.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_state WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session state: %w", err)
	}
	return nil
}
