package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	indexReset bool
	dropYes    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [book]",
	Short: "Extract chapters from an EPUB or text novel",
	Long: `Reads the book, cleans every chapter to plain text and writes the
processed book JSON. EPUB containers and .txt files (UTF-8 or GB18030) are
supported. Without an argument the configured book.epub path is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Split the processed book into overlapping chunks",
	Long: `Runs the configured post-processors (chunker, tagger) over every chapter
of the processed book and writes the chunk file.`,
	Args: cobra.NoArgs,
	RunE: runChunk,
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the chunks into the vector collection",
	Long: `Embeds every chunk, writes the vectors to the persistent collection and
runs a few test queries against it.

Use --reset to drop the collection before indexing.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the vector collection",
	Long: `Deletes the configured collection and every vector in it. The chunk file
is kept, so "novelrag index" can rebuild the collection.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	indexCmd.Flags().BoolVar(&indexReset, "reset", false, "drop and recreate the collection")
	dropCmd.Flags().BoolVar(&dropYes, "yes", false, "confirm deletion")
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(chunkCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(dropCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	book, err := indexingService.ProcessBook(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	cmd.Printf("成功提取 %d 个章节\n", book.Info.TotalChapters)
	cmd.Printf("书名: %s\n", book.Info.Title)
	cmd.Printf("作者: %s\n", book.Info.Author)
	cmd.Printf("总字数: %d\n", book.Info.TotalWords)
	if len(book.Chapters) > 0 {
		cmd.Printf("第一章标题: %s\n", book.Chapters[0].Title)
		cmd.Printf("第一章字数: %d\n", book.Chapters[0].WordCount)
	}
	return nil
}

func runChunk(cmd *cobra.Command, _ []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}

	chunks, err := indexingService.BuildChunks(cmd.Context())
	if err != nil {
		return fmt.Errorf("chunking failed: %w", err)
	}

	cmd.Printf("创建了 %d 个文本块\n", len(chunks))
	if len(chunks) > 0 {
		first := chunks[0]
		cmd.Println()
		cmd.Println("第一个文本块信息:")
		cmd.Printf("ID: %s\n", first.ID)
		cmd.Printf("章节: %s\n", first.ChapterTitle)
		cmd.Printf("字数: %d\n", first.WordCount)
		cmd.Printf("人物: %v\n", first.Characters)
		cmd.Printf("内容预览: %s\n", truncateRunes(first.Content, 100))
	}
	return nil
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}

	stats, smoke, err := indexingService.Run(cmd.Context(), indexReset)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	p := newPrinter(cmd)
	p.heading("处理完成！")
	cmd.Printf("总文本块数: %d\n", stats.TotalChunks)
	cmd.Printf("向量维度: %d\n", stats.VectorDimension)
	cmd.Printf("数据库中的向量数: %d\n", stats.CollectionCount)
	cmd.Printf("使用的模型: %s\n", stats.ModelName)
	cmd.Printf("运行ID: %s\n", p.muted(stats.RunID))

	if retrievalService != nil {
		if cs, err := retrievalService.Stats(cmd.Context()); err == nil {
			cmd.Printf("集合名称: %s\n", cs.CollectionName)
			cmd.Printf("数据库路径: %s\n", cs.PersistDirectory)
		}
	}

	p.heading("测试搜索功能")
	for _, q := range smoke {
		cmd.Printf("\n查询: %s\n", q.Query)
		p.printResults(q.Results)
	}
	return nil
}

func runDrop(cmd *cobra.Command, _ []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}
	if !dropYes {
		return errors.New("refusing to delete the collection without --yes")
	}

	if err := indexingService.Drop(cmd.Context()); err != nil {
		return fmt.Errorf("drop failed: %w", err)
	}
	cmd.Println("向量集合已删除")
	return nil
}

// truncateRunes mirrors the chunk preview: always suffixed, never split mid-rune.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + "..."
}
