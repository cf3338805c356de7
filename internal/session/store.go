// Package session implements Redis-backed session state. A session is keyed
// by an opaque random token carried in a cookie and holds two fields: the
// signed-in username (presence means authenticated) and a one-shot flash
// message. Flash semantics are write-once, read-once: PopFlash returns the
// message and clears it in the same call.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix is the Redis key prefix for session records.
const keyPrefix = "session:"

// tokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const tokenBytes = 32

// Data is the session record stored in Redis as JSON.
type Data struct {
	// Username is the signed-in user, empty when anonymous.
	Username string `json:"username,omitempty"`

	// Flash is the pending one-shot message, empty when none.
	Flash string `json:"flash,omitempty"`
}

// SignedIn reports whether the session holds an authenticated identity.
func (d *Data) SignedIn() bool {
	return d.Username != ""
}

// Store reads and writes session records in Redis.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStore creates a session store with the given Redis client and TTL.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: rdb, ttl: ttl}
}

// NewToken creates a cryptographically random hex-encoded session token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Get returns the session record for the token. An unknown or expired
// token yields a fresh empty record rather than an error, so every request
// always has a usable session.
func (s *Store) Get(ctx context.Context, token string) (*Data, error) {
	raw, err := s.redis.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Data{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session from Redis: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}
	return &data, nil
}

// SetUsername marks the session as signed in. Called after a successful
// credential check.
func (s *Store) SetUsername(ctx context.Context, token, username string) error {
	return s.update(ctx, token, func(d *Data) {
		d.Username = username
	})
}

// ClearUsername signs the session out. Only the username is cleared; a
// pending flash message survives so the sign-out notice still renders.
func (s *Store) ClearUsername(ctx context.Context, token string) error {
	return s.update(ctx, token, func(d *Data) {
		d.Username = ""
	})
}

// SetFlash stores a one-shot message to be shown on the next rendered page.
// A second SetFlash before the first is read overwrites it.
func (s *Store) SetFlash(ctx context.Context, token, message string) error {
	return s.update(ctx, token, func(d *Data) {
		d.Flash = message
	})
}

// PopFlash returns the pending flash message and clears it. Returns the
// empty string when no message is pending.
func (s *Store) PopFlash(ctx context.Context, token string) (string, error) {
	data, err := s.Get(ctx, token)
	if err != nil {
		return "", err
	}
	if data.Flash == "" {
		return "", nil
	}

	msg := data.Flash
	data.Flash = ""
	if err := s.save(ctx, token, data); err != nil {
		return "", err
	}
	return msg, nil
}

// update applies a mutation to the session record and persists it.
func (s *Store) update(ctx context.Context, token string, fn func(*Data)) error {
	data, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	fn(data)
	return s.save(ctx, token, data)
}

// save writes the session record back to Redis, refreshing the TTL.
func (s *Store) save(ctx context.Context, token string, data *Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := s.redis.Set(ctx, keyPrefix+token, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing session in Redis: %w", err)
	}
	return nil
}
