// Package extract turns uploaded presentation documents into ordered
// per-slide plain-text strings.
package extract

import (
	"errors"
	"io"
	"strings"
)

// ErrBadDocument means the document could not be opened or parsed. An upload
// that hits this error leaves no state behind.
var ErrBadDocument = errors.New("document cannot be parsed")

// Extractor produces one text string per slide, in slide order. Slides with
// no extractable text yield an empty string; no slide is ever skipped.
type Extractor interface {
	Extract(r io.ReaderAt, size int64) ([]string, error)
}

// Registry maps lowercase file extensions (without the dot) to extractors.
type Registry struct {
	extractors map[string]Extractor
}

func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// DefaultRegistry returns a registry with all built-in extractors registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	pptx := NewPptxExtractor()
	r.Register("pptx", pptx)
	r.Register("ppt", pptx)
	r.Register("pdf", NewPDFExtractor())
	return r
}

func (r *Registry) Register(ext string, e Extractor) {
	r.extractors[strings.ToLower(ext)] = e
}

// Lookup returns the extractor for ext, or false when the format is unknown.
func (r *Registry) Lookup(ext string) (Extractor, bool) {
	e, ok := r.extractors[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return e, ok
}
