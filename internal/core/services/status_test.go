package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/novelrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/novelrag/internal/core/domain"
)

type statusFixture struct {
	settings  *domain.AppSettings
	books     *mockBookStore
	retriever *mockRetriever
	files     map[string]bool
	service   *StatusService
}

func newStatusFixture(t *testing.T, healthy bool) *statusFixture {
	t.Helper()
	f := &statusFixture{
		settings:  testSettings(),
		books:     newMockBookStore(),
		retriever: &mockRetriever{results: map[string][]domain.RetrievalResult{}},
		files:     map[string]bool{},
	}
	f.settings.LLM.APIKey = "sk-or-v1-abc"

	if healthy {
		bookPath := f.settings.Paths.ProcessedBookPath("test")
		chunksPath := f.settings.Paths.ChunksPath("test")
		require.NoError(t, f.books.SaveBook(bookPath, testBook()))
		require.NoError(t, f.books.SaveChunks(chunksPath, []domain.Chunk{{ID: "chunk_0001"}}))
		for _, p := range []string{f.settings.Book.EPUBPath, bookPath, chunksPath, f.settings.Vector.PersistDir} {
			f.files[p] = true
		}
		f.retriever.stats = &domain.CollectionStats{CollectionName: "test_collection", TotalDocuments: 1, ModelName: "m"}
		f.retriever.results[DoctorQuery] = []domain.RetrievalResult{{
			Document: "祥子拉车",
			Metadata: map[string]any{domain.MetaChapterTitle: "第一章"},
			Distance: 0.25,
		}}
	}

	settingsSvc := newTestSettingsService(memory.NewConfigStore(), &mockValidator{})
	f.service = NewStatusService(f.settings, f.books, f.retriever, settingsSvc)
	f.service.exists = func(path string) bool { return f.files[path] }
	return f
}

func checkByName(t *testing.T, report *domain.StatusReport, name string) domain.CheckResult {
	t.Helper()
	for _, c := range report.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %s not found", name)
	return domain.CheckResult{}
}

func TestStatusService_Check_AllPass(t *testing.T) {
	f := newStatusFixture(t, true)

	report := f.service.Check(context.Background())

	require.Equal(t, 7, report.Total())
	for _, c := range report.Checks {
		assert.True(t, c.Passed, "%s: %v", c.Name, c.Details)
	}
	assert.True(t, report.OK())

	search := checkByName(t, report, CheckSearch)
	assert.Contains(t, search.Details, "相似度: 0.750")
	assert.Equal(t, []int{DoctorK}, f.retriever.ks)

	book := checkByName(t, report, CheckBookJSON)
	assert.Contains(t, book.Details, "书名: 骆驼祥子")
	assert.Contains(t, book.Details, "章节数: 3")
}

func TestStatusService_Check_FreshCheckout(t *testing.T) {
	f := newStatusFixture(t, false)

	report := f.service.Check(context.Background())

	assert.False(t, report.OK())
	assert.Equal(t, []string{CheckAPIKey, CheckEmbedding}, passedNames(report))

	vector := checkByName(t, report, CheckVectorStore)
	assert.Contains(t, vector.Hint, "novelrag index")
	assert.Empty(t, f.retriever.queries, "search is skipped without a populated collection")
}

func TestStatusService_Check_APIKey(t *testing.T) {
	tests := []struct {
		name     string
		provider domain.AIProvider
		key      string
		passed   bool
	}{
		{"valid", domain.AIProviderOpenRouter, "sk-or-v1-abc", true},
		{"missing", domain.AIProviderOpenRouter, "", false},
		{"wrong prefix", domain.AIProviderOpenRouter, "sk-proj-abc", false},
		{"local provider", domain.AIProviderOllama, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStatusFixture(t, true)
			f.settings.LLM.Provider = tt.provider
			f.settings.LLM.APIKey = tt.key

			check := checkByName(t, f.service.Check(context.Background()), CheckAPIKey)

			assert.Equal(t, tt.passed, check.Passed)
			if !tt.passed {
				assert.NotEmpty(t, check.Hint)
			}
		})
	}
}

func TestStatusService_Check_EmbeddingUnreachable(t *testing.T) {
	f := newStatusFixture(t, true)
	validator := &mockValidator{embedErr: errors.New("connection refused")}
	f.service.validator = newTestSettingsService(memory.NewConfigStore(), validator)

	check := checkByName(t, f.service.Check(context.Background()), CheckEmbedding)

	assert.False(t, check.Passed)
	assert.Equal(t, []string{"connection refused"}, check.Details)
}

func TestStatusService_Check_EmptyCollection(t *testing.T) {
	f := newStatusFixture(t, true)
	f.retriever.stats.TotalDocuments = 0

	report := f.service.Check(context.Background())

	assert.False(t, checkByName(t, report, CheckVectorStore).Passed)
	assert.False(t, checkByName(t, report, CheckSearch).Passed)
	assert.Equal(t, 5, report.Passed())
}

func TestStatusService_Check_SearchEmpty(t *testing.T) {
	f := newStatusFixture(t, true)
	delete(f.retriever.results, DoctorQuery)

	check := checkByName(t, f.service.Check(context.Background()), CheckSearch)

	assert.False(t, check.Passed)
	assert.Equal(t, []string{"搜索返回空结果"}, check.Details)
}

func TestStatusService_Check_WithoutRetriever(t *testing.T) {
	f := newStatusFixture(t, true)
	f.service.retriever = nil

	report := f.service.Check(context.Background())

	assert.False(t, checkByName(t, report, CheckVectorStore).Passed)
	assert.False(t, checkByName(t, report, CheckSearch).Passed)
}

func passedNames(report *domain.StatusReport) []string {
	var names []string
	for _, c := range report.Checks {
		if c.Passed {
			names = append(names, c.Name)
		}
	}
	return names
}
