// Package cli provides the novelrag command-line interface built on cobra.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/novelrag/internal/core/ports/driving"
	"github.com/custodia-labs/novelrag/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose bool
	quiet   bool
)

// Services injected by the composition root.
var (
	indexingService  driving.IndexingService
	retrievalService driving.RetrievalService
	analysisService  driving.AnalysisService
	settingsService  driving.SettingsService
	statusService    driving.StatusService
)

var rootCmd = &cobra.Command{
	Use:   "novelrag",
	Short: "Retrieval-augmented analysis of a Chinese novel",
	Long: `novelrag extracts chapters from an EPUB, splits them into overlapping
chunks, embeds the chunks into a local vector collection and answers
questions about a character's actions across chapters.

Typical pipeline:
  novelrag extract book.epub
  novelrag chunk
  novelrag index --reset
  novelrag analyze --character 祥子`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		logger.SetQuiet(quiet)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "hide progress output")
}

// Services holds the driving ports the commands dispatch to.
type Services struct {
	Indexing  driving.IndexingService
	Retrieval driving.RetrievalService
	Analysis  driving.AnalysisService
	Settings  driving.SettingsService
	Status    driving.StatusService
}

// SetServices wires the core services into the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	indexingService = s.Indexing
	retrievalService = s.Retrieval
	analysisService = s.Analysis
	settingsService = s.Settings
	statusService = s.Status
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
