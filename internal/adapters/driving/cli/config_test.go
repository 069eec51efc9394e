package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

func TestConfigCmd_List(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	for _, args := range [][]string{{"config"}, {"config", "list"}} {
		out, err := execute(t, args...)

		require.NoError(t, err)
		assert.Contains(t, out, "[book]\n  book.key = luotuo\n")
		assert.Contains(t, out, "[llm]\n")
		assert.Contains(t, out, "  llm.api_key = (not set)\n")
		assert.Contains(t, out, "  llm.model = google/gemini-2.5-pro\n")
	}
}

func TestConfigCmd_Get(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "config", "get", "llm.model")

	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-pro\n", out)
}

func TestConfigCmd_Get_UnknownKey(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "config", "get", "nope")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigCmd_Set(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "config", "set", "book.key", "sishitongtang")

	require.NoError(t, err)
	assert.Equal(t, "sishitongtang", ts.settings.values["book.key"])
	assert.Contains(t, out, "book.key = sishitongtang")
}

func TestConfigCmd_Set_Rejected(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.setErr = domain.ErrInvalidInput

	_, err := execute(t, "config", "set", "analysis.k", "three")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "failed to set analysis.k")
}

func TestConfigCmd_Set_MissingValue(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "config", "set", "book.key")

	require.EqualError(t, err, "missing value for book.key")
}

func TestConfigCmd_Validate(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "config", "validate")

	require.NoError(t, err)
	assert.Contains(t, out, "Validating embedding provider... OK")
	assert.Contains(t, out, "Validating LLM provider... OK")
}

func TestConfigCmd_Validate_Failures(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.embedErr = errBoom
	ts.settings.llmErr = domain.ErrLLMUnavailable

	out, err := execute(t, "config", "validate")

	require.EqualError(t, err, "validation failed: embedding, llm")
	assert.Contains(t, out, "FAILED: boom")
}

func TestDisplayValue(t *testing.T) {
	assert.Equal(t, "(not set)", displayValue(""))
	assert.Equal(t, "x", displayValue("x"))
}
