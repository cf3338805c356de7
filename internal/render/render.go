// Package render converts raw document content into a response body based
// on the file extension. The dispatch is a closed set of content kinds:
// plain text passes through, markdown becomes sanitized HTML, and every
// other extension is served as an opaque download.
package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Kind classifies how a document's content is served.
type Kind int

const (
	// KindText serves raw bytes as text/plain (.txt).
	KindText Kind = iota

	// KindMarkdown serves markdown converted to sanitized HTML (.md).
	KindMarkdown

	// KindBinary serves raw bytes as application/octet-stream (any other
	// extension). This is the explicit fallthrough case.
	KindBinary
)

// Result is the rendered output: a content type and the body to send.
type Result struct {
	Kind        Kind
	ContentType string
	Body        []byte
}

// markdown is the shared goldmark instance. Convert is safe for concurrent
// use, so one instance serves all requests.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// policy is the shared bluemonday policy for sanitizing rendered markdown.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on
// first call. The UGC policy keeps standard formatting tags and strips
// script tags, event handlers, and javascript: URLs.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy
}

// Detect returns the content kind for a document name, dispatching on its
// extension (case-insensitive).
func Detect(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return KindText
	case ".md":
		return KindMarkdown
	default:
		return KindBinary
	}
}

// Render produces the response body for a document. Text and binary
// content pass through unchanged; markdown is converted to HTML and
// sanitized before it ever reaches a browser.
func Render(name string, content []byte) (Result, error) {
	switch Detect(name) {
	case KindText:
		return Result{
			Kind:        KindText,
			ContentType: "text/plain; charset=utf-8",
			Body:        content,
		}, nil

	case KindMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert(content, &buf); err != nil {
			return Result{}, fmt.Errorf("rendering markdown for %s: %w", name, err)
		}
		return Result{
			Kind:        KindMarkdown,
			ContentType: "text/html; charset=utf-8",
			Body:        getPolicy().SanitizeBytes(buf.Bytes()),
		}, nil

	default:
		return Result{
			Kind:        KindBinary,
			ContentType: "application/octet-stream",
			Body:        content,
		}, nil
	}
}
