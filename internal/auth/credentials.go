// Package auth implements credential verification against a YAML file of
// username -> bcrypt hash mappings, the sign-in/sign-out HTTP handlers, and
// the sign-in guard that protects mutating document operations.
package auth

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tmcfarlane/inkwell/internal/apperror"
)

// Credentials maps usernames to bcrypt password hashes.
type Credentials map[string]string

// CredentialStore loads the credential mapping. Implementations read fresh
// on every call -- the mapping is read-only at runtime, so there is no
// cache to invalidate and edits to the underlying file take effect on the
// next sign-in attempt.
type CredentialStore interface {
	Load(ctx context.Context) (Credentials, error)
}

// FileStore reads credentials from a YAML file on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a credential store backed by the YAML file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and parses the credentials file. A missing or malformed file
// is a deployment problem, surfaced as a config error (500) rather than
// a sign-in failure.
func (s *FileStore) Load(ctx context.Context) (Credentials, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperror.NewConfig(fmt.Errorf("reading credentials file %s: %w", s.path, err))
	}

	var creds Credentials
	if err := yaml.Unmarshal(raw, &creds); err != nil {
		return nil, apperror.NewConfig(fmt.Errorf("parsing credentials file %s: %w", s.path, err))
	}

	return creds, nil
}
