package db

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
)

// DefaultCredentialName is the row holding the text-generation API key
const DefaultCredentialName = "generation-api-key"

// CredentialStore keeps one opaque string, sealed in the credentials table.
// An empty value means no credential is stored.
type CredentialStore struct {
	db     *DB
	sealer *Sealer
	name   string
}

// NewCredentialStore creates a store for the named credential
func NewCredentialStore(db *DB, sealer *Sealer, name string) *CredentialStore {
	if name == "" {
		name = DefaultCredentialName
	}
	return &CredentialStore{db: db, sealer: sealer, name: name}
}

// GetCredential returns the stored value, or "" when none is set
func (s *CredentialStore) GetCredential(ctx context.Context) (string, error) {
	var sealed []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT sealed FROM credentials WHERE name = $1`,
		s.name,
	).Scan(&sealed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", &CredentialError{Op: "get", Message: "query failed", Cause: err}
	}

	plain, err := s.sealer.Open(s.name, sealed)
	if err != nil {
		return "", &CredentialError{Op: "get", Message: "failed to unseal", Cause: err}
	}
	return string(plain), nil
}

// SetCredential stores value; an empty value removes the credential
func (s *CredentialStore) SetCredential(ctx context.Context, value string) error {
	if value == "" {
		if _, err := s.db.pool.Exec(ctx, `DELETE FROM credentials WHERE name = $1`, s.name); err != nil {
			return &CredentialError{Op: "set", Message: "delete failed", Cause: err}
		}
		return nil
	}

	sealed, err := s.sealer.Seal(s.name, []byte(value))
	if err != nil {
		return &CredentialError{Op: "set", Message: "failed to seal", Cause: err}
	}
	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO credentials (name, sealed)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET sealed = $2, updated_at = NOW()`,
		s.name, sealed,
	)
	if err != nil {
		return &CredentialError{Op: "set", Message: "upsert failed", Cause: err}
	}
	return nil
}

// MemoryCredentials is an in-process credential holder for the CLI and tests
type MemoryCredentials struct {
	mu    sync.RWMutex
	value string
}

// GetCredential returns the held value
func (m *MemoryCredentials) GetCredential(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value, nil
}

// SetCredential replaces the held value
func (m *MemoryCredentials) SetCredential(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = value
	return nil
}
