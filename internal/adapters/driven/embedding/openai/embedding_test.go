package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc, err := NewEmbeddingService(Config{})

	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 512, svc.Dimensions())
}

func TestNewEmbeddingService_UnknownModelNeedsDimensions(t *testing.T) {
	_, err := NewEmbeddingService(Config{Model: "custom-model"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	svc, err := NewEmbeddingService(Config{Model: "custom-model", Dimensions: 64})
	require.NoError(t, err)
	assert.Equal(t, 64, svc.Dimensions())
}

func TestEmbedBatch_OrdersByIndex(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"祥子", "虎妞"}, req.Input)
		assert.Equal(t, DefaultModel, req.Model)

		// Reversed on purpose.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"index":1,"embedding":[0,2]},
			{"index":0,"embedding":[1,0]}
		]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{BaseURL: server.URL + "/v1", APIKey: "secret", Dimensions: 2})
	require.NoError(t, err)

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"祥子", "虎妞"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 2}}, embeddings)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestEmbed_SingleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1,0]}]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{BaseURL: server.URL, Dimensions: 2})
	require.NoError(t, err)

	embedding, err := svc.Embed(context.Background(), "祥子")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, embedding)
}

func TestEmbedBatch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
		is      error
	}{
		{"http status", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, "status 500", nil},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"bad model"}}`, "status 400", nil},
		{"wrong dimension", http.StatusOK, `{"data":[{"index":0,"embedding":[1,2,3]}]}`, "", domain.ErrDimensionMismatch},
		{"index out of range", http.StatusOK, `{"data":[{"index":5,"embedding":[1,2]}]}`, "out of range", nil},
		{"missing entry", http.StatusOK, `{"data":[]}`, "no embedding for input 0", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc, err := NewEmbeddingService(Config{BaseURL: server.URL, Dimensions: 2})
			require.NoError(t, err)

			_, err = svc.EmbedBatch(context.Background(), []string{"祥子"})
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestPing_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{BaseURL: server.URL})
	require.NoError(t, err)

	err = svc.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), server.URL)
}
