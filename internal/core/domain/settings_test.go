package domain

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.True(t, AIProviderOpenRouter.IsValid())
	assert.False(t, AIProvider("anthropic").IsValid())
	assert.False(t, AIProvider("").IsValid())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestDefaultAppSettings_ReferencePipeline(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, 400, s.Chunking.Size)
	assert.Equal(t, 80, s.Chunking.Overlap)
	assert.Equal(t, 50, s.Chunking.MinLength)
	assert.Equal(t, 512, s.Embedding.Dimensions)
	assert.Equal(t, 32, s.Embedding.BatchSize)
	assert.Equal(t, "luotuo_xiangzi_collection", s.Vector.Collection)
	assert.Equal(t, "google/gemini-2.5-pro", s.LLM.Model)
	assert.Equal(t, 3, s.Analysis.TopK)
	assert.InDelta(t, 0.3, s.Analysis.Threshold, 1e-9)
	assert.NoError(t, s.Chunking.Validate())
}

func TestPathSettings_ArtefactPaths(t *testing.T) {
	p := DefaultAppSettings().Paths

	assert.Equal(t, "processed_luotuoxiangzi.json", p.ProcessedBookPath("luotuoxiangzi"))
	assert.Equal(t, filepath.Join("data", "processed", "luotuoxiangzi_chunks.json"), p.ChunksPath("luotuoxiangzi"))
}

func TestChunkingSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		s       ChunkingSettings
		wantErr bool
	}{
		{"valid", ChunkingSettings{Size: 400, Overlap: 80}, false},
		{"zero overlap", ChunkingSettings{Size: 400}, false},
		{"zero size", ChunkingSettings{Size: 0}, true},
		{"overlap equals size", ChunkingSettings{Size: 100, Overlap: 100}, true},
		{"negative overlap", ChunkingSettings{Size: 100, Overlap: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLLMSettings_KeyChecks(t *testing.T) {
	s := LLMSettings{Provider: AIProviderOpenRouter}
	assert.False(t, s.IsConfigured())

	s.APIKey = "sk-abc"
	assert.True(t, s.IsConfigured())
	assert.False(t, s.HasValidKeyFormat())

	s.APIKey = "sk-or-v1-abc"
	assert.True(t, s.HasValidKeyFormat())
}

func TestDefaultQueryTemplates_Render(t *testing.T) {
	templates := DefaultQueryTemplates()

	assert.Len(t, templates, 4)
	assert.Equal(t, "第3章祥子做了什么", fmt.Sprintf(templates[0], 3, "祥子"))
	assert.Equal(t, "祥子在第3章的活动", fmt.Sprintf(templates[3], 3, "祥子"))
}
