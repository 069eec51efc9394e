package postprocessors

import (
	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/postprocessors/chunker"
	"github.com/custodia-labs/novelrag/internal/postprocessors/tagger"
)

// Config keys understood by the built-in processors.
const (
	KeyChunkSize   = "chunk_size"
	KeyOverlap     = "overlap"
	KeyMinLength   = "min_length"
	KeyTerminators = "terminators"
	KeyVocabulary  = "vocabulary"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("tagger", buildTagger)
}

// ConfigFromSettings converts chunking settings into processor config.
func ConfigFromSettings(s domain.ChunkingSettings) map[string]any {
	cfg := map[string]any{
		KeyChunkSize: s.Size,
		KeyOverlap:   s.Overlap,
		KeyMinLength: s.MinLength,
	}
	if s.Terminators != "" {
		cfg[KeyTerminators] = s.Terminators
	}
	if len(s.Vocabulary) > 0 {
		cfg[KeyVocabulary] = s.Vocabulary
	}
	return cfg
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 400)
//   - overlap (int): Overlapping characters between chunks (default: 80)
//   - min_length (int): Minimum trailing chunk length (default: 50)
//   - terminators (string): Sentence-final marks (default: 。！？)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, KeyChunkSize); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if _, ok := cfg[KeyOverlap]; ok {
			opts = append(opts, chunker.WithOverlap(getIntFromConfig(cfg, KeyOverlap)))
		}
		if _, ok := cfg[KeyMinLength]; ok {
			opts = append(opts, chunker.WithMinLength(getIntFromConfig(cfg, KeyMinLength)))
		}
		if marks, ok := cfg[KeyTerminators].(string); ok {
			opts = append(opts, chunker.WithTerminators(marks))
		}
	}

	return chunker.New(opts...), nil
}

// buildTagger creates a character tagger from generic config.
// Supported config keys:
//   - vocabulary ([]string): Names to tag (default: domain.CharacterVocabulary)
func buildTagger(cfg map[string]any) (driven.PostProcessor, error) {
	return tagger.New(getStringsFromConfig(cfg, KeyVocabulary)), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getStringsFromConfig extracts a string list, accepting []any from TOML.
func getStringsFromConfig(cfg map[string]any, key string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
