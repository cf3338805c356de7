package documents

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/tmcfarlane/inkwell/internal/apperror"
)

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func TestRepository_WriteReadRoundTrip(t *testing.T) {
	repo := NewRepository(t.TempDir())
	ctx := context.Background()

	content := []byte("# Heading\n\nsome *markdown* content\n")
	if err := repo.Write(ctx, "notes.md", content); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := repo.Read(ctx, "notes.md")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("round-trip mismatch: got %q, want %q", got, content)
	}
}

func TestRepository_WriteReplacesContent(t *testing.T) {
	repo := NewRepository(t.TempDir())
	ctx := context.Background()

	if err := repo.Write(ctx, "a.txt", []byte("first version, rather long")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := repo.Write(ctx, "a.txt", []byte("second")); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	got, err := repo.Read(ctx, "a.txt")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("expected full replacement, got %q", got)
	}
}

func TestRepository_ListSorted(t *testing.T) {
	root := t.TempDir()
	repo := NewRepository(root)
	ctx := context.Background()

	for _, name := range []string{"zebra.txt", "about.md", "middle.txt"} {
		if err := repo.Write(ctx, name, nil); err != nil {
			t.Fatalf("Write %s failed: %v", name, err)
		}
	}

	// Subdirectories are not documents and must not be listed.
	if err := os.Mkdir(filepath.Join(root, "subdir"), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	names, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"about.md", "middle.txt", "zebra.txt"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d: %v", len(want), len(names), names)
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("expected sorted names, got %v", names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("names[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestRepository_ListMissingDirIsEmpty(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "does-not-exist"))

	names, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List of absent dir should not error, got %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected empty list, got %v", names)
	}
}

func TestRepository_ReadMissing(t *testing.T) {
	repo := NewRepository(t.TempDir())

	_, err := repo.Read(context.Background(), "ghost.txt")
	assertAppError(t, err, http.StatusNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo := NewRepository(t.TempDir())
	ctx := context.Background()

	if err := repo.Write(ctx, "gone.txt", []byte("bye")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := repo.Delete(ctx, "gone.txt"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	names, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, name := range names {
		if name == "gone.txt" {
			t.Error("deleted document still listed")
		}
	}
}

func TestRepository_DeleteMissing(t *testing.T) {
	repo := NewRepository(t.TempDir())

	err := repo.Delete(context.Background(), "ghost.txt")
	assertAppError(t, err, http.StatusNotFound)
}

func TestRepository_RejectsTraversal(t *testing.T) {
	root := t.TempDir()
	repo := NewRepository(root)
	ctx := context.Background()

	bad := []string{
		"../escape.txt",
		"..",
		".",
		"nested/name.txt",
		`back\slash.txt`,
		"",
	}
	for _, name := range bad {
		if err := repo.Write(ctx, name, []byte("x")); err == nil {
			t.Errorf("Write(%q) should have been rejected", name)
		}
		if _, err := repo.Read(ctx, name); err == nil {
			t.Errorf("Read(%q) should have been rejected", name)
		}
	}

	// Nothing escaped the root.
	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "escape.txt")); err == nil {
		t.Error("traversal escaped the data root")
	}
}
