package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchJSON  bool
	statsJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the indexed novel",
	Long: `Embeds the query and returns the most similar chunks from the vector
collection, ordered by cosine distance.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector collection statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statsCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	results, err := retrievalService.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, results)
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("查询: %s\n\n", query)
	newPrinter(cmd).printResults(results)
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	stats, err := retrievalService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read collection: %w", err)
	}

	if statsJSON {
		return printJSON(cmd, stats)
	}

	newPrinter(cmd).heading("向量数据库统计")
	cmd.Printf("集合名称: %s\n", stats.CollectionName)
	if stats.Description != "" {
		cmd.Printf("集合描述: %s\n", stats.Description)
	}
	if stats.RunID != "" {
		cmd.Printf("索引批次: %s\n", stats.RunID)
	}
	if !stats.CreatedAt.IsZero() {
		cmd.Printf("创建时间: %s\n", stats.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("向量数: %d\n", stats.TotalDocuments)
	cmd.Printf("向量维度: %d\n", stats.VectorDimension)
	cmd.Printf("使用的模型: %s\n", stats.ModelName)
	cmd.Printf("数据库路径: %s\n", stats.PersistDirectory)
	if len(stats.SampleMetadataKeys) > 0 {
		cmd.Printf("元数据字段: %v\n", stats.SampleMetadataKeys)
	}
	return nil
}
