package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/normalisers/epub"
	"github.com/custodia-labs/novelrag/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.BookExtractor = (*Registry)(nil)

// Registry maps file extensions to book extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]driven.BookExtractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]driven.BookExtractor),
	}
}

// NewDefaultRegistry creates a registry for .epub and .txt files.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".epub", epub.New())
	r.Register(".txt", plaintext.New())
	return r
}

// Register adds an extractor for an extension, replacing any previous one.
// Extensions are matched case-insensitively and the leading dot is optional.
func (r *Registry) Register(ext string, e driven.BookExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[normaliseExt(ext)] = e
}

// Get returns the extractor for a file path.
func (r *Registry) Get(path string) (driven.BookExtractor, error) {
	ext := normaliseExt(filepath.Ext(path))

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.extractors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: e-book format %q", domain.ErrUnsupportedType, ext)
	}
	return e, nil
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract delegates to the extractor registered for the path's extension.
func (r *Registry) Extract(ctx context.Context, path string) (*domain.Book, error) {
	e, err := r.Get(path)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, path)
}

func normaliseExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
