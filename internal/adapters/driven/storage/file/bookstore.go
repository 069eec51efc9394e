package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
)

// Ensure BookStore implements the interface.
var _ driven.BookStore = (*BookStore)(nil)

// BookStore reads and writes processed books and chunk files as JSON.
type BookStore struct{}

// NewBookStore creates a JSON book store.
func NewBookStore() *BookStore {
	return &BookStore{}
}

// SaveBook writes a processed book document.
func (s *BookStore) SaveBook(path string, book *domain.Book) error {
	if book == nil {
		return fmt.Errorf("saving book: %w", domain.ErrInvalidInput)
	}
	if err := writeJSON(path, book); err != nil {
		return fmt.Errorf("saving book: %w", err)
	}
	return nil
}

// LoadBook reads a processed book document.
func (s *BookStore) LoadBook(path string) (*domain.Book, error) {
	var book domain.Book
	if err := readJSON(path, &book); err != nil {
		return nil, fmt.Errorf("loading book: %w", err)
	}
	return &book, nil
}

// SaveChunks writes the chunk array, creating parent directories.
func (s *BookStore) SaveChunks(path string, chunks []domain.Chunk) error {
	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	if err := writeJSON(path, chunks); err != nil {
		return fmt.Errorf("saving chunks: %w", err)
	}
	return nil
}

// LoadChunks reads a chunk array.
func (s *BookStore) LoadChunks(path string) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	if err := readJSON(path, &chunks); err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}
	return chunks, nil
}

// writeJSON encodes v with two-space indentation and no HTML escaping.
func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// readJSON decodes path into v, mapping a missing file to domain.ErrNotFound.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
