package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/vectormath"
)

// --- Mock implementations ---

// mockExtractor implements driven.BookExtractor for testing.
type mockExtractor struct {
	book *domain.Book
	err  error
	path string
}

func (m *mockExtractor) Extract(_ context.Context, path string) (*domain.Book, error) {
	m.path = path
	if m.err != nil {
		return nil, m.err
	}
	return m.book, nil
}

// mockBookStore implements driven.BookStore in memory, keyed by path.
type mockBookStore struct {
	mu       sync.Mutex
	books    map[string]*domain.Book
	chunks   map[string][]domain.Chunk
	saveErr  error
	loadErr  error
	chunkErr error
}

func newMockBookStore() *mockBookStore {
	return &mockBookStore{
		books:  make(map[string]*domain.Book),
		chunks: make(map[string][]domain.Chunk),
	}
}

func (m *mockBookStore) SaveBook(path string, book *domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.books[path] = book
	return nil
}

func (m *mockBookStore) LoadBook(path string) (*domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	book, ok := m.books[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return book, nil
}

func (m *mockBookStore) SaveChunks(path string, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.chunks[path] = chunks
	return nil
}

func (m *mockBookStore) LoadChunks(path string) ([]domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.chunkErr != nil {
		return nil, m.chunkErr
	}
	chunks, ok := m.chunks[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return chunks, nil
}

// mockEmbedder implements driven.BatchEmbedder.
// Texts listed in vectors get that vector; others get a vector derived
// from their runes so equal texts embed identically.
type mockEmbedder struct {
	vectors  map[string][]float32
	dims     int
	err      error
	embedAll int
	queries  []string
}

func newMockEmbedder(dims int) *mockEmbedder {
	return &mockEmbedder{vectors: make(map[string][]float32), dims: dims}
}

func (m *mockEmbedder) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		out := make([]float32, len(v))
		copy(out, v)
		return vectormath.Normalize(out)
	}
	v := make([]float32, m.dims)
	for _, r := range text {
		v[int(r)%m.dims]++
	}
	return vectormath.Normalize(v)
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.queries = append(m.queries, text)
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedAll(_ context.Context, texts []string) ([][]float32, error) {
	m.embedAll++
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int   { return m.dims }
func (m *mockEmbedder) ModelName() string { return "mock-embed" }

// mockRetriever implements driving.RetrievalService with canned results per query.
type mockRetriever struct {
	results  map[string][]domain.RetrievalResult
	err      error
	stats    *domain.CollectionStats
	statsErr error
	queries  []string
	ks       []int
}

func (m *mockRetriever) Search(_ context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	m.queries = append(m.queries, query)
	m.ks = append(m.ks, k)
	if m.err != nil {
		return nil, m.err
	}
	return m.results[query], nil
}

func (m *mockRetriever) SearchMany(ctx context.Context, queries []string, k int) ([]domain.QueryResults, error) {
	out := make([]domain.QueryResults, 0, len(queries))
	for _, q := range queries {
		r, err := m.Search(ctx, q, k)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.QueryResults{Query: q, Results: r})
	}
	return out, nil
}

func (m *mockRetriever) Stats(_ context.Context) (*domain.CollectionStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	if m.stats == nil {
		return nil, domain.ErrCollectionNotFound
	}
	return m.stats, nil
}

// mockLLM implements driven.LLMService.
type mockLLM struct {
	answer   string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.messages = messages
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return m.err }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptAnalysisSystem: "system %[1]s|%[2]s|%[3]s",
		driven.PromptAnalysisUser:   "user %[1]s|%[2]s|%[3]s",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found: " + name)
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockReportWriter implements driven.ReportWriter.
type mockReportWriter struct {
	path   string
	report *domain.AnalysisReport
	err    error
}

func (m *mockReportWriter) WriteReport(path string, report *domain.AnalysisReport) error {
	if m.err != nil {
		return m.err
	}
	m.path = path
	m.report = report
	return nil
}

// mockValidator implements driven.AIConfigValidator.
type mockValidator struct {
	embedErr error
	llmErr   error
}

func (m *mockValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error { return m.embedErr }
func (m *mockValidator) ValidateLLM(_ *domain.LLMSettings) error             { return m.llmErr }

// --- Fixtures ---

func testSettings() *domain.AppSettings {
	s := domain.DefaultAppSettings()
	s.Book.Key = "test"
	s.Paths.ProcessedDir = "processed"
	s.Paths.ChunksDir = "chunks"
	s.Paths.Report = "report.txt"
	s.Vector.Collection = "test_collection"
	return &s
}

func testChapter(num int, title, content string) domain.Chapter {
	return domain.Chapter{
		Number:     num,
		Title:      title,
		Content:    content,
		WordCount:  domain.RuneCount(content),
		FileName:   "ch.xhtml",
		BookTitle:  "骆驼祥子",
		BookAuthor: "老舍",
	}
}

func testBook() *domain.Book {
	return domain.NewBook("骆驼祥子", "老舍", []domain.Chapter{
		testChapter(1, "第一章", strings.Repeat("祥子拉着车在街上跑。", 30)),
		testChapter(2, "第二章", strings.Repeat("虎妞站在门口看着。", 30)),
		testChapter(3, "第三章", strings.Repeat("祥子和虎妞说话了。", 30)),
	})
}
