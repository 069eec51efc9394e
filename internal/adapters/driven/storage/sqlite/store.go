package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/novelrag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/vectormath"
)

// DatabaseFile is the database file name inside the persist directory.
const DatabaseFile = "vectors.db"

const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// Store is a SQLite-backed vector store.
type Store struct {
	db  *sql.DB
	dir string
}

var _ driven.VectorStore = (*Store)(nil)

// NewStore opens or creates the vector database in dataDir.
// If dataDir is empty, defaults to ./vector_db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = "vector_db"
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Pragmas in the DSN apply to every pooled connection.
	db, err := sql.Open("sqlite", dbPath+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:  db,
		dir: dataDir,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Location returns the persist directory.
func (s *Store) Location() string {
	return s.dir
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_vectors.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Collections ====================

// CreateCollection ensures the collection exists, dropping it first when reset is set.
func (s *Store) CreateCollection(ctx context.Context, name string, metadata map[string]any, reset bool) error {
	if name == "" {
		return fmt.Errorf("%w: collection name is required", domain.ErrInvalidInput)
	}

	metaJSON, err := marshalMetadata(metadata)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if reset {
		if _, err := dropCollection(ctx, tx, name); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO collections (name, metadata, created_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, metaJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return tx.Commit()
}

// DeleteCollection drops a collection and its entries.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	found, err := dropCollection(ctx, tx, name)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	return tx.Commit()
}

// dropCollection removes the entries and then the collection row. Entries are
// deleted explicitly so the result does not depend on the cascade.
func dropCollection(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	if _, err := tx.ExecContext(ctx, "DELETE FROM embeddings WHERE collection = ?", name); err != nil {
		return false, fmt.Errorf("dropping entries: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("dropping collection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("dropping collection: %w", err)
	}
	return n > 0, nil
}

// Collection returns the collection description.
func (s *Store) Collection(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	var (
		metaJSON  string
		createdAt time.Time
	)
	row := s.db.QueryRowContext(ctx, "SELECT metadata, created_at FROM collections WHERE name = ?", name)
	if err := row.Scan(&metaJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
		}
		return nil, fmt.Errorf("reading collection: %w", err)
	}

	metadata, err := unmarshalMetadata(metaJSON)
	if err != nil {
		return nil, err
	}

	return &domain.CollectionInfo{
		Name:      name,
		Metadata:  metadata,
		CreatedAt: createdAt,
	}, nil
}

// exists reports whether the collection row is present.
func (s *Store) exists(ctx context.Context, name string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM collections WHERE name = ?", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}
	return nil
}

// ==================== Entries ====================

// Upsert inserts or replaces entries in a single transaction.
func (s *Store) Upsert(ctx context.Context, name string, entries []domain.VectorEntry) error {
	if err := s.exists(ctx, name); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (collection, id, embedding, dimension, metadata, document)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			embedding = excluded.embedding,
			dimension = excluded.dimension,
			metadata = excluded.metadata,
			document = excluded.document
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if entry.ID == "" {
			return fmt.Errorf("%w: entry id is required", domain.ErrInvalidInput)
		}
		if len(entry.Embedding) == 0 {
			return fmt.Errorf("%w: entry %s has no embedding", domain.ErrInvalidInput, entry.ID)
		}
		metaJSON, err := marshalMetadata(entry.Metadata)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			name,
			entry.ID,
			float32SliceToBytes(entry.Embedding),
			len(entry.Embedding),
			metaJSON,
			entry.Document,
		)
		if err != nil {
			return fmt.Errorf("upserting entry %s: %w", entry.ID, err)
		}
	}

	return tx.Commit()
}

// Query returns at most k entries ordered by ascending cosine distance.
func (s *Store) Query(ctx context.Context, name string, vector []float32, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: query vector is empty", domain.ErrInvalidInput)
	}
	if err := s.exists(ctx, name); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, embedding, dimension, metadata, document
		FROM embeddings WHERE collection = ? ORDER BY rowid
	`, name)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var (
		candidates []domain.RetrievalResult
		scored     []vectormath.Scored
	)
	for rows.Next() {
		var (
			result    domain.RetrievalResult
			blob      []byte
			dimension int
			metaJSON  string
		)
		if err := rows.Scan(&result.ID, &blob, &dimension, &metaJSON, &result.Document); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		if dimension != len(vector) {
			return nil, fmt.Errorf("%w: collection has %d, query has %d",
				domain.ErrDimensionMismatch, dimension, len(vector))
		}
		if result.Metadata, err = unmarshalMetadata(metaJSON); err != nil {
			return nil, err
		}
		result.Distance = vectormath.CosineDistance(vector, bytesToFloat32Slice(blob))
		scored = append(scored, vectormath.Scored{Index: len(candidates), Distance: result.Distance})
		candidates = append(candidates, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}

	top := vectormath.TopK(scored, k)
	results := make([]domain.RetrievalResult, 0, len(top))
	for _, sc := range top {
		results = append(results, candidates[sc.Index])
	}
	return results, nil
}

// Count returns the number of entries in the collection.
func (s *Store) Count(ctx context.Context, name string) (int, error) {
	if err := s.exists(ctx, name); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings WHERE collection = ?", name).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return n, nil
}

// Peek returns up to limit entries in insertion order.
func (s *Store) Peek(ctx context.Context, name string, limit int) ([]domain.RetrievalResult, error) {
	if err := s.exists(ctx, name); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []domain.RetrievalResult{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, metadata, document FROM embeddings
		WHERE collection = ? ORDER BY rowid LIMIT ?
	`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("peeking embeddings: %w", err)
	}
	defer rows.Close()

	results := []domain.RetrievalResult{}
	for rows.Next() {
		var (
			result   domain.RetrievalResult
			metaJSON string
		)
		if err := rows.Scan(&result.ID, &metaJSON, &result.Document); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		if result.Metadata, err = unmarshalMetadata(metaJSON); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// ==================== Helpers ====================

// marshalMetadata encodes a metadata map, treating nil as empty.
func marshalMetadata(metadata map[string]any) (string, error) {
	if metadata == nil {
		return "{}", nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("marshalling metadata: %w", err)
	}
	return string(data), nil
}

// unmarshalMetadata decodes a metadata map. Integral numbers decode as int.
func unmarshalMetadata(raw string) (map[string]any, error) {
	metadata := map[string]any{}
	if raw == "" {
		return metadata, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	if err := dec.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}

	for key, value := range metadata {
		num, ok := value.(json.Number)
		if !ok {
			continue
		}
		if i, err := num.Int64(); err == nil {
			metadata[key] = int(i)
		} else if f, err := num.Float64(); err == nil {
			metadata[key] = f
		}
	}
	return metadata, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
