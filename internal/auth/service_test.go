package auth

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/tmcfarlane/inkwell/internal/apperror"
)

// writeCredentialsFile writes a YAML credentials file mapping each username
// to a bcrypt hash of its password. MinCost keeps the tests fast.
func writeCredentialsFile(t *testing.T, users map[string]string) string {
	t.Helper()

	content := ""
	for username, password := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hashing password: %v", err)
		}
		content += username + ": " + string(hash) + "\n"
	}

	path := filepath.Join(t.TempDir(), "users.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing credentials file: %v", err)
	}
	return path
}

func TestVerify_CorrectPassword(t *testing.T) {
	path := writeCredentialsFile(t, map[string]string{"admin": "secret"})
	svc := NewService(NewFileStore(path))

	ok, err := svc.Verify(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Error("expected correct credentials to verify")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	path := writeCredentialsFile(t, map[string]string{"admin": "secret"})
	svc := NewService(NewFileStore(path))

	ok, err := svc.Verify(context.Background(), "admin", "wrong")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ok {
		t.Error("expected wrong password to fail")
	}
}

func TestVerify_UnknownUsername(t *testing.T) {
	path := writeCredentialsFile(t, map[string]string{"admin": "secret"})
	svc := NewService(NewFileStore(path))

	// Unknown users fail regardless of password, including the password
	// of a real account.
	for _, password := range []string{"secret", "", "anything"} {
		ok, err := svc.Verify(context.Background(), "nobody", password)
		if err != nil {
			t.Fatalf("Verify returned error: %v", err)
		}
		if ok {
			t.Errorf("expected unknown user to fail with password %q", password)
		}
	}
}

func TestVerify_MissingCredentialsFile(t *testing.T) {
	svc := NewService(NewFileStore(filepath.Join(t.TempDir(), "missing.yml")))

	_, err := svc.Verify(context.Background(), "admin", "secret")
	assertConfigError(t, err)
}

func TestVerify_MalformedCredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yml")
	if err := os.WriteFile(path, []byte("{{{ not yaml"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	svc := NewService(NewFileStore(path))

	_, err := svc.Verify(context.Background(), "admin", "secret")
	assertConfigError(t, err)
}

// assertConfigError checks that err is a config_error AppError.
func assertConfigError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected config error, got nil")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Type != "config_error" {
		t.Errorf("expected config_error type, got %s", appErr.Type)
	}
	if appErr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", appErr.Code)
	}
}
