package documents

import (
	"context"
	"path/filepath"

	"github.com/tmcfarlane/inkwell/internal/apperror"
)

// Service defines the business logic contract for documents. Validation
// lives here; the repository below it only knows about storage.
type Service interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (*Document, error)
	Create(ctx context.Context, name string) error
	Update(ctx context.Context, name string, content []byte) error
	Delete(ctx context.Context, name string) error
}

// docService implements Service on top of a Repository.
type docService struct {
	repo Repository
}

// NewService creates a document service with the given repository.
func NewService(repo Repository) Service {
	return &docService{repo: repo}
}

// List returns all document names in stable (lexicographic) order.
func (s *docService) List(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}

// Get loads the named document from storage.
func (s *docService) Get(ctx context.Context, name string) (*Document, error) {
	content, err := s.repo.Read(ctx, name)
	if err != nil {
		return nil, err
	}
	return NewDocument(name, content), nil
}

// Create validates the name and writes a new empty document. The name must
// be non-empty and carry a file extension; validation failures leave
// storage untouched.
func (s *docService) Create(ctx context.Context, name string) error {
	if name == "" {
		return apperror.NewValidation("A name is required.")
	}
	if filepath.Ext(name) == "" {
		return apperror.NewValidation("A file extension (.doc, .txt, etc.) is required.")
	}
	return s.repo.Write(ctx, name, []byte{})
}

// Update replaces the document's content entirely.
func (s *docService) Update(ctx context.Context, name string, content []byte) error {
	return s.repo.Write(ctx, name, content)
}

// Delete removes the document from storage.
func (s *docService) Delete(ctx context.Context, name string) error {
	return s.repo.Delete(ctx, name)
}
