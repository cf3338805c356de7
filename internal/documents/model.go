package documents

import "path/filepath"

// Document is a stored file: a basename identifying it, its extension, and
// its raw content. The filesystem is the sole owner of document state --
// there is no in-memory copy beyond the lifetime of a single request.
type Document struct {
	// Name is the document's basename, including extension.
	Name string

	// Extension is the file extension with leading dot (e.g., ".md").
	Extension string

	// Content is the raw file content.
	Content []byte
}

// NewDocument builds a Document from a name and content, deriving the
// extension from the name.
func NewDocument(name string, content []byte) *Document {
	return &Document{
		Name:      name,
		Extension: filepath.Ext(name),
		Content:   content,
	}
}
