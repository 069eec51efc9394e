package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

var (
	analyzeCharacter  string
	analyzeNoSave     bool
	chaptersCharacter string
	chaptersJSON      bool
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List chapters that mention a character",
	Args:  cobra.NoArgs,
	RunE:  runChapters,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse a character's actions across chapters",
	Long: `Finds every chapter mentioning the character, retrieves the most
relevant passages for each one and asks the LLM for a combined analysis.

The report is written to the configured paths.report file. When the LLM
call fails an excerpt-based fallback is printed and nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	chaptersCmd.Flags().StringVarP(&chaptersCharacter, "character", "c", "", "character name (default from analysis.character)")
	chaptersCmd.Flags().BoolVar(&chaptersJSON, "json", false, "output chapters as JSON")
	analyzeCmd.Flags().StringVarP(&analyzeCharacter, "character", "c", "", "character name (default from analysis.character)")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "print the report without writing it")
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func runChapters(cmd *cobra.Command, _ []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	character := resolveCharacter(chaptersCharacter)
	chapters, err := analysisService.FindChapters(cmd.Context(), character)
	if err != nil {
		return fmt.Errorf("failed to find chapters: %w", err)
	}

	if chaptersJSON {
		return printJSON(cmd, chapters)
	}

	printChapterList(cmd, character, chapters)
	return nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	ctx := cmd.Context()
	p := newPrinter(cmd)
	character := resolveCharacter(analyzeCharacter)

	chapters, err := analysisService.FindChapters(ctx, character)
	if err != nil {
		return fmt.Errorf("failed to find chapters: %w", err)
	}
	printChapterList(cmd, character, chapters)

	contexts, err := analysisService.GatherContext(ctx, character, chapters)
	if err != nil {
		return fmt.Errorf("failed to gather context: %w", err)
	}
	if len(contexts) == 0 {
		cmd.Println(p.failure("未找到足够的相关内容进行分析"))
		return domain.ErrNoContext
	}
	for i := range contexts {
		cmd.Printf("  第%d章: %d 段相关内容\n", contexts[i].ChapterNum, contexts[i].Passages)
	}
	cmd.Printf("\n成功分析了 %d 个章节的内容\n", len(contexts))

	report, err := analysisService.Synthesize(ctx, character, contexts)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	if report.Degraded {
		cmd.Println(p.failure(fmt.Sprintf("生成综合分析时出错: %v", report.Err)))
		p.heading("基于检索内容的基础分析")
		cmd.Println(report.Answer)
		return nil
	}

	p.heading(fmt.Sprintf("《%s》%s行为综合分析", report.BookTitle, report.Character))
	cmd.Println(report.Answer)
	cmd.Println(rule)

	if analyzeNoSave {
		return nil
	}

	path, err := analysisService.SaveReport(report)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	cmd.Println(p.success("分析结果已保存到: " + path))
	return nil
}

func printChapterList(cmd *cobra.Command, character string, chapters []domain.ChapterMatch) {
	cmd.Printf("找到 %d 个包含%s的章节:\n", len(chapters), character)
	for i := range chapters {
		cmd.Printf("  第%d章: %s\n", chapters[i].ChapterNum, chapters[i].ChapterTitle)
	}
}

// resolveCharacter falls back to the configured analysis.character.
func resolveCharacter(flag string) string {
	if flag != "" || settingsService == nil {
		return flag
	}
	settings, err := settingsService.Get()
	if err != nil {
		return flag
	}
	return settings.Analysis.Character
}
