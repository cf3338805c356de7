package auth

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Service defines the credential verification contract. Handlers call
// Verify -- they never touch the credential store directly.
type Service interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// authService implements Service against a CredentialStore.
type authService struct {
	store CredentialStore
}

// NewService creates an auth service backed by the given credential store.
func NewService(store CredentialStore) Service {
	return &authService{store: store}
}

// dummyHash is compared against when the username is unknown, so a
// rejection takes roughly as long as a wrong password for a real account.
// The username lookup itself is still a map access; this only narrows the
// timing channel, it does not close it.
var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

func loadDummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("inkwell-no-such-user"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// Verify reports whether the username exists and the password matches its
// stored bcrypt hash. Unknown usernames return false with no distinguishing
// error. Credentials are loaded fresh on every call.
func (s *authService) Verify(ctx context.Context, username, password string) (bool, error) {
	creds, err := s.store.Load(ctx)
	if err != nil {
		return false, err
	}

	hash, ok := creds[username]
	if !ok {
		// Burn a comparison so unknown users don't fail instantly.
		_ = bcrypt.CompareHashAndPassword(loadDummyHash(), []byte(password))
		return false, nil
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}
