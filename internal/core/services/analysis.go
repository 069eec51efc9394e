package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/core/ports/driving"
	"github.com/custodia-labs/novelrag/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// contextSeparatorWidth is the dash rule closing each chapter block.
const contextSeparatorWidth = 50

// AnalysisService finds the chapters a character appears in, gathers
// passages for each, and asks the LLM for a combined analysis.
type AnalysisService struct {
	bookStore   driven.BookStore
	retriever   driving.RetrievalService
	llmService  driven.LLMService
	promptStore driven.PromptStore
	reports     driven.ReportWriter
	settings    *domain.AppSettings

	now func() time.Time
}

// NewAnalysisService creates an analysis service.
// The llmService is optional; without it every report is degraded.
func NewAnalysisService(
	bookStore driven.BookStore,
	retriever driving.RetrievalService,
	llmService driven.LLMService,
	promptStore driven.PromptStore,
	reports driven.ReportWriter,
	settings *domain.AppSettings,
) *AnalysisService {
	return &AnalysisService{
		bookStore:   bookStore,
		retriever:   retriever,
		llmService:  llmService,
		promptStore: promptStore,
		reports:     reports,
		settings:    settings,
		now:         time.Now,
	}
}

// FindChapters lists chapters whose content contains the character name.
func (s *AnalysisService) FindChapters(_ context.Context, character string) ([]domain.ChapterMatch, error) {
	character = s.character(character)

	book, err := s.loadBook()
	if err != nil {
		return nil, err
	}

	matches := make([]domain.ChapterMatch, 0)
	for i := range book.Chapters {
		ch := &book.Chapters[i]
		if !strings.Contains(ch.Content, character) {
			continue
		}
		matches = append(matches, domain.ChapterMatch{
			ChapterNum:     ch.Number,
			ChapterTitle:   domain.Truncate(ch.Title, domain.ChapterTitleLimit),
			ContentPreview: domain.Truncate(ch.Content, domain.ContentPreviewLimit),
			WordCount:      domain.RuneCount(ch.Content),
		})
	}

	logger.Info("找到 %d 个包含%s的章节", len(matches), character)
	for _, m := range matches {
		logger.Debug("第%d章: %s", m.ChapterNum, m.ChapterTitle)
	}
	return matches, nil
}

// GatherContext runs the templated queries for every chapter and keeps
// passages whose similarity exceeds the threshold.
func (s *AnalysisService) GatherContext(
	ctx context.Context, character string, chapters []domain.ChapterMatch,
) ([]domain.ChapterContext, error) {
	character = s.character(character)
	cfg := s.settings.Analysis

	templates := cfg.QueryTemplates
	if len(templates) == 0 {
		templates = domain.DefaultQueryTemplates()
	}

	logger.Section("Context")
	logger.Info("开始分析 %d 个章节中%s的行为", len(chapters), character)

	out := make([]domain.ChapterContext, 0, len(chapters))
	for _, ch := range chapters {
		var b strings.Builder
		passages := 0

		for _, tmpl := range templates {
			query := fmt.Sprintf(tmpl, ch.ChapterNum, character)
			logger.Debug("查询: %s", query)

			results, err := s.retriever.Search(ctx, query, cfg.TopK)
			if err != nil {
				return nil, fmt.Errorf("chapter %d query %q: %w", ch.ChapterNum, query, err)
			}

			for _, r := range results {
				sim := r.Similarity()
				if sim <= cfg.Threshold {
					continue
				}
				fmt.Fprintf(&b, "相关内容 (相似度: %.3f): %s\n\n", sim, r.Document)
				passages++
				logger.Debug("找到相关内容 (相似度: %.3f)", sim)
			}
		}

		if passages == 0 {
			logger.Warn("第%d章未找到足够相关的内容", ch.ChapterNum)
			continue
		}

		out = append(out, domain.ChapterContext{
			ChapterNum:   ch.ChapterNum,
			ChapterTitle: ch.ChapterTitle,
			Context:      b.String(),
			Passages:     passages,
		})
		logger.Info("第%d章分析完成 (%d 段)", ch.ChapterNum, passages)
	}
	return out, nil
}

// Synthesize asks the LLM for the combined analysis.
// Any failure yields a degraded report holding excerpts instead of an error.
func (s *AnalysisService) Synthesize(
	ctx context.Context, character string, contexts []domain.ChapterContext,
) (*domain.AnalysisReport, error) {
	character = s.character(character)

	report := &domain.AnalysisReport{
		Character:   character,
		BookTitle:   s.settings.Book.Key,
		BookAuthor:  domain.UnknownBookAuthor,
		Chapters:    contexts,
		GeneratedAt: s.now(),
	}
	if book, err := s.loadBook(); err == nil {
		report.BookTitle = book.Info.Title
		report.BookAuthor = book.Info.Author
	} else {
		logger.Debug("Book info unavailable: %v", err)
	}

	answer, err := s.chat(ctx, report)
	if err != nil {
		logger.Error("生成综合分析时出错: %v", err)
		report.Degraded = true
		report.Err = err
		report.Answer = FallbackAnswer(character, contexts)
		return report, nil
	}

	report.Answer = answer
	report.Model = s.llmService.ModelName()
	return report, nil
}

// Analyze runs FindChapters, GatherContext and Synthesize.
func (s *AnalysisService) Analyze(ctx context.Context, character string) (*domain.AnalysisReport, error) {
	character = s.character(character)

	chapters, err := s.FindChapters(ctx, character)
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		logger.Warn("没有章节包含%s", character)
	}

	contexts, err := s.GatherContext(ctx, character, chapters)
	if err != nil {
		return nil, err
	}
	if len(contexts) == 0 {
		return nil, fmt.Errorf("analyse %s: %w", character, domain.ErrNoContext)
	}

	logger.Info("成功分析了 %d 个章节的内容", len(contexts))
	return s.Synthesize(ctx, character, contexts)
}

// SaveReport writes a non-degraded report to the configured path.
func (s *AnalysisService) SaveReport(report *domain.AnalysisReport) (string, error) {
	if report == nil || report.Degraded {
		return "", fmt.Errorf("save report: degraded reports are not written: %w", domain.ErrInvalidInput)
	}
	path := s.settings.Paths.Report
	if err := s.reports.WriteReport(path, report); err != nil {
		return "", err
	}
	logger.Info("分析结果已保存到: %s", path)
	return path, nil
}

func (s *AnalysisService) chat(ctx context.Context, report *domain.AnalysisReport) (string, error) {
	if s.llmService == nil {
		return "", domain.ErrLLMUnavailable
	}
	if s.promptStore == nil {
		return "", fmt.Errorf("prompts: %w", domain.ErrNotFound)
	}

	systemTmpl, err := s.promptStore.Load(driven.PromptAnalysisSystem)
	if err != nil {
		return "", fmt.Errorf("load system prompt: %w", err)
	}
	userTmpl, err := s.promptStore.Load(driven.PromptAnalysisUser)
	if err != nil {
		return "", fmt.Errorf("load user prompt: %w", err)
	}

	messages := []driven.ChatMessage{
		{
			Role:    driven.RoleSystem,
			Content: fmt.Sprintf(systemTmpl, report.BookTitle, report.Character, report.BookAuthor),
		},
		{
			Role:    driven.RoleUser,
			Content: fmt.Sprintf(userTmpl, report.BookTitle, report.Character, CombineContexts(report.Chapters)),
		},
	}

	logger.Info("正在使用 %s 生成综合分析...", s.llmService.ModelName())

	temperature := s.settings.LLM.Temperature
	answer, err := s.llmService.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   s.settings.LLM.MaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", errors.New("empty completion")
	}
	return answer, nil
}

func (s *AnalysisService) character(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.settings.Analysis.Character
	}
	return name
}

func (s *AnalysisService) loadBook() (*domain.Book, error) {
	path := s.settings.Paths.ProcessedBookPath(s.settings.Book.Key)
	book, err := s.bookStore.LoadBook(path)
	if err != nil {
		return nil, fmt.Errorf("load processed book %s: %w", path, err)
	}
	return book, nil
}

// CombineContexts joins chapter contexts into the LLM user payload.
func CombineContexts(contexts []domain.ChapterContext) string {
	var b strings.Builder
	for _, c := range contexts {
		fmt.Fprintf(&b, "\n=== 第%d章: %s ===\n", c.ChapterNum, c.ChapterTitle)
		b.WriteString(c.Context)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", contextSeparatorWidth))
		b.WriteString("\n")
	}
	return b.String()
}

// FallbackAnswer lists each chapter's context cut to a short excerpt.
func FallbackAnswer(character string, contexts []domain.ChapterContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "从检索到的内容可以看出，%s的主要行为包括：\n", character)
	for _, c := range contexts {
		fmt.Fprintf(&b, "\n第%d章:\n", c.ChapterNum)
		fmt.Fprintf(&b, "  %s\n", domain.Truncate(c.Context, domain.FallbackExcerptLimit))
	}
	return b.String()
}
