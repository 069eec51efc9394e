package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/core/ports/driving"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// Doctor smoke test.
const (
	DoctorQuery = "祥子做了什么"
	DoctorK     = 2
)

// Check names, in run order.
const (
	CheckDataFiles   = "数据文件"
	CheckBookJSON    = "JSON处理"
	CheckAPIKey      = "API连接"
	CheckEmbedding   = "嵌入服务"
	CheckPipeline    = "完整流程"
	CheckVectorStore = "向量数据库"
	CheckSearch      = "搜索功能"
)

// StatusService runs the system checks behind `novelrag doctor`.
type StatusService struct {
	settings  *domain.AppSettings
	bookStore driven.BookStore
	retriever driving.RetrievalService
	validator driving.SettingsService

	exists func(path string) bool
}

// NewStatusService creates a status service.
// The retriever and validator are optional; missing ones fail their checks.
func NewStatusService(
	settings *domain.AppSettings,
	bookStore driven.BookStore,
	retriever driving.RetrievalService,
	validator driving.SettingsService,
) *StatusService {
	return &StatusService{
		settings:  settings,
		bookStore: bookStore,
		retriever: retriever,
		validator: validator,
		exists:    fileExists,
	}
}

// Check runs every check in order.
func (s *StatusService) Check(ctx context.Context) *domain.StatusReport {
	report := &domain.StatusReport{}
	report.Checks = append(report.Checks,
		s.checkDataFiles(),
		s.checkBookJSON(),
		s.checkAPIKey(),
		s.checkEmbedding(),
		s.checkPipeline(),
	)

	vectorCheck, populated := s.checkVectorStore(ctx)
	report.Checks = append(report.Checks, vectorCheck, s.checkSearch(ctx, populated))
	return report
}

func (s *StatusService) checkDataFiles() domain.CheckResult {
	result := domain.CheckResult{Name: CheckDataFiles, Passed: true}

	epub := s.settings.Book.EPUBPath
	if s.exists(epub) {
		result.Details = append(result.Details, epub+" 存在")
	} else {
		result.Passed = false
		result.Details = append(result.Details, epub+" 不存在")
		result.Hint = "确保有EPUB文件，或用 `novelrag config set book.epub <path>` 指定"
	}

	for _, optional := range []string{
		s.settings.Paths.ProcessedBookPath(s.settings.Book.Key),
		s.settings.Paths.ChunksPath(s.settings.Book.Key),
	} {
		if s.exists(optional) {
			result.Details = append(result.Details, optional+" 存在")
		} else {
			result.Details = append(result.Details, optional+" 不存在（可通过处理流程生成）")
		}
	}
	return result
}

func (s *StatusService) checkBookJSON() domain.CheckResult {
	result := domain.CheckResult{Name: CheckBookJSON}

	path := s.settings.Paths.ProcessedBookPath(s.settings.Book.Key)
	book, err := s.bookStore.LoadBook(path)
	if err != nil {
		result.Details = []string{fmt.Sprintf("%s: %v", path, err)}
		result.Hint = "运行 `novelrag extract` 从EPUB文件生成JSON文件"
		return result
	}

	result.Passed = true
	result.Details = []string{
		"书名: " + book.Info.Title,
		fmt.Sprintf("章节数: %d", book.Info.TotalChapters),
		fmt.Sprintf("总字数: %d", book.Info.TotalWords),
	}
	return result
}

func (s *StatusService) checkAPIKey() domain.CheckResult {
	result := domain.CheckResult{Name: CheckAPIKey}
	llm := s.settings.LLM

	switch {
	case !llm.Provider.RequiresAPIKey():
		result.Passed = true
		result.Details = []string{fmt.Sprintf("%s 不需要API密钥", llm.Provider.Description())}
	case llm.APIKey == "":
		result.Details = []string{"未找到 " + EnvOpenRouterKey + " 环境变量"}
		result.Hint = "请检查 .env 文件"
	case !llm.HasValidKeyFormat():
		result.Details = []string{"API密钥格式可能不正确"}
		result.Hint = fmt.Sprintf("OpenRouter 密钥应以 %s 开头", domain.OpenRouterKeyPrefix)
	default:
		result.Passed = true
		result.Details = []string{"API密钥格式正确"}
	}
	return result
}

func (s *StatusService) checkEmbedding() domain.CheckResult {
	result := domain.CheckResult{Name: CheckEmbedding}
	emb := s.settings.Embedding

	if !emb.IsConfigured() {
		result.Details = []string{fmt.Sprintf("嵌入服务未配置 (provider=%s)", emb.Provider)}
		result.Hint = "设置 embedding.provider 为 ollama 或 openai"
		return result
	}
	if s.validator == nil {
		result.Passed = true
		result.Details = []string{fmt.Sprintf("%s / %s (未检测连接)", emb.Provider.Description(), emb.Model)}
		return result
	}
	if err := s.validator.ValidateEmbeddingConfig(); err != nil {
		result.Details = []string{err.Error()}
		result.Hint = fmt.Sprintf("确认 %s 在 %s 运行并已拉取模型 %s", emb.Provider.Description(), emb.BaseURL, emb.Model)
		return result
	}
	result.Passed = true
	result.Details = []string{fmt.Sprintf("%s / %s", emb.Provider.Description(), emb.Model)}
	return result
}

func (s *StatusService) checkPipeline() domain.CheckResult {
	result := domain.CheckResult{Name: CheckPipeline}

	processed := s.settings.Paths.ProcessedBookPath(s.settings.Book.Key)
	if !s.exists(processed) {
		result.Details = []string{"缺少 " + processed}
		result.Hint = "运行 `novelrag extract`"
		return result
	}

	chunksPath := s.settings.Paths.ChunksPath(s.settings.Book.Key)
	if !s.exists(chunksPath) || !s.exists(s.settings.Vector.PersistDir) {
		result.Details = []string{"文本块或向量数据库不存在"}
		result.Hint = "运行 `novelrag chunk` 和 `novelrag index --reset`"
		return result
	}

	chunks, err := s.bookStore.LoadChunks(chunksPath)
	if err != nil {
		result.Details = []string{fmt.Sprintf("%s: %v", chunksPath, err)}
		result.Hint = "运行 `novelrag chunk` 重新生成文本块"
		return result
	}

	result.Passed = true
	result.Details = []string{fmt.Sprintf("文本块和向量数据库已存在 (%d 个文本块)", len(chunks))}
	return result
}

func (s *StatusService) checkVectorStore(ctx context.Context) (domain.CheckResult, bool) {
	result := domain.CheckResult{Name: CheckVectorStore}
	if s.retriever == nil {
		result.Details = []string{domain.ErrVectorStoreUnavailable.Error()}
		result.Hint = "检查 vector.persist_dir 设置"
		return result, false
	}

	stats, err := s.retriever.Stats(ctx)
	if err != nil {
		result.Details = []string{err.Error()}
		if errors.Is(err, domain.ErrCollectionNotFound) {
			result.Hint = "运行 `novelrag index --reset` 建立向量集合"
		}
		return result, false
	}

	result.Details = []string{
		fmt.Sprintf("文档数量: %d", stats.TotalDocuments),
		"集合名称: " + stats.CollectionName,
		"模型名称: " + stats.ModelName,
	}
	if stats.TotalDocuments == 0 {
		result.Details = append(result.Details, "向量数据库为空")
		result.Hint = "运行 `novelrag index --reset`"
		return result, false
	}

	result.Passed = true
	return result, true
}

func (s *StatusService) checkSearch(ctx context.Context, populated bool) domain.CheckResult {
	result := domain.CheckResult{Name: CheckSearch}
	if !populated {
		result.Details = []string{"向量数据库不可用，跳过搜索测试"}
		return result
	}

	results, err := s.retriever.Search(ctx, DoctorQuery, DoctorK)
	if err != nil {
		result.Details = []string{err.Error()}
		return result
	}
	if len(results) == 0 {
		result.Details = []string{"搜索返回空结果"}
		return result
	}

	first := results[0]
	result.Passed = true
	result.Details = []string{
		"查询: " + DoctorQuery,
		fmt.Sprintf("结果数量: %d", len(results)),
		fmt.Sprintf("相似度: %.3f", first.Similarity()),
		"章节: " + domain.Truncate(first.ChapterTitle(), 30),
		"内容: " + domain.Truncate(first.Document, 50),
	}
	return result
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
