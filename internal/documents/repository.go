// Package documents implements storage and CRUD handlers for the document
// files that make up the site's content.
package documents

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmcfarlane/inkwell/internal/apperror"
)

// Repository defines the storage contract for documents. The service calls
// these methods -- handlers never touch storage directly.
type Repository interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, content []byte) error
	Delete(ctx context.Context, name string) error
}

// fsRepository implements Repository directly on the filesystem. Every
// operation hits the disk; concurrent writers to the same name race with
// last-writer-wins semantics (known limitation, acceptable for the
// single-small-team use case).
type fsRepository struct {
	root string
}

// NewRepository creates a filesystem repository rooted at the given
// directory. The root is fixed for the process lifetime.
func NewRepository(root string) Repository {
	return &fsRepository{root: root}
}

// resolve maps a document name to its storage path under the repository
// root. Names containing path separators or parent references are rejected
// so a crafted name cannot escape the data root.
func (r *fsRepository) resolve(name string) (string, error) {
	if name == "" {
		return "", apperror.NewValidation("A name is required.")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", apperror.NewValidation("That document name is not allowed.")
	}
	return filepath.Join(r.root, name), nil
}

// List returns the names of all documents, sorted lexicographically. An
// absent data directory is treated as empty, not as an error.
func (r *fsRepository) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing documents: %w", err))
	}

	// os.ReadDir sorts entries by filename already.
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Read returns the raw content of the named document.
func (r *fsRepository) Read(ctx context.Context, name string) ([]byte, error) {
	path, err := r.resolve(name)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperror.NewNotFound(fmt.Sprintf("%s does not exist.", name))
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading document %s: %w", name, err))
	}
	return content, nil
}

// Write creates the named document or replaces its content entirely.
func (r *fsRepository) Write(ctx context.Context, name string, content []byte) error {
	path, err := r.resolve(name)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return apperror.NewInternal(fmt.Errorf("writing document %s: %w", name, err))
	}
	return nil
}

// Delete removes the named document. Deleting a document that does not
// exist is a NotFound error, surfaced to the user as a flash message.
func (r *fsRepository) Delete(ctx context.Context, name string) error {
	path, err := r.resolve(name)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return apperror.NewNotFound(fmt.Sprintf("%s does not exist.", name))
	}
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting document %s: %w", name, err))
	}
	return nil
}
