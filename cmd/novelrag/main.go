// Command novelrag is the composition root: it loads settings, builds the
// driven adapters and hands the core services to the CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/novelrag/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/novelrag/internal/adapters/driven/config/file"
	storagefile "github.com/custodia-labs/novelrag/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/core/services"
	"github.com/custodia-labs/novelrag/internal/logger"
	"github.com/custodia-labs/novelrag/internal/normalisers"
	"github.com/custodia-labs/novelrag/internal/postprocessors"
)

// version is set at build time via ldflags.
var version = "dev"

// envInMemory selects the in-memory vector store for dry runs.
const envInMemory = "NOVELRAG_IN_MEMORY"

func main() {
	os.Exit(run())
}

// run returns the process exit code. Command errors are already printed by cobra.
func run() int {
	svc, cleanup, err := wire()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	defer cleanup()

	cli.SetVersion(version)
	cli.SetServices(svc)
	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

// wire builds the driven adapters and core services from the stored settings.
func wire() (*cli.Services, func(), error) {
	// A missing .env is normal; the environment may already hold the keys.
	_ = godotenv.Load()

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}

	promptStore, err := configfile.NewPromptStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("opening prompts: %w", err)
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := registry.BuildPipeline(
		settings.Chunking.Processors,
		postprocessors.ConfigFromSettings(settings.Chunking),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("building chunking pipeline: %w", err)
	}
	logger.Debug("chunking pipeline: %s", strings.Join(pipeline.Names(), " -> "))

	// AI services are optional: extract, chunk, config and doctor work without them.
	var (
		embedder driven.BatchEmbedder
		vectors  driven.VectorStore
		llm      driven.LLMService
	)
	cleanup := func() {}
	aiResult, err := ai.Initialise(settings, os.Getenv(envInMemory) != "")
	if err != nil {
		logger.Warn("AI services unavailable: %v", err)
	} else {
		cleanup = aiResult.Close
		for _, w := range aiResult.Warnings {
			logger.Warn("%s", w)
		}
		if aiResult.Embedder != nil {
			embedder = aiResult.Embedder
		}
		vectors = aiResult.VectorStore
		llm = aiResult.LLMService
	}

	bookStore := storagefile.NewBookStore()

	indexingService := services.NewIndexingService(
		normalisers.NewDefaultRegistry(), bookStore, pipeline, embedder, vectors, settings,
	)
	retrievalService := services.NewRetrievalService(embedder, vectors, &settings.Vector)
	analysisService := services.NewAnalysisService(
		bookStore, retrievalService, llm, promptStore, storagefile.NewReportWriter(), settings,
	)
	statusService := services.NewStatusService(settings, bookStore, retrievalService, settingsService)

	return &cli.Services{
		Indexing:  indexingService,
		Retrieval: retrievalService,
		Analysis:  analysisService,
		Settings:  settingsService,
		Status:    statusService,
	}, cleanup, nil
}
