package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

func TestChaptersCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "chapters", "-c", "虎妞")

	require.NoError(t, err)
	assert.Equal(t, "虎妞", ts.analysis.lastCharacter)
	assert.Contains(t, out, "找到 1 个包含虎妞的章节:")
	assert.Contains(t, out, "第1章: 第一章")
}

func TestChaptersCmd_DefaultCharacter(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "chapters")

	require.NoError(t, err)
	assert.Equal(t, "祥子", ts.analysis.lastCharacter)
}

func TestChaptersCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "chapters", "--json")

	require.NoError(t, err)
	var chapters []domain.ChapterMatch
	require.NoError(t, json.Unmarshal([]byte(out), &chapters))
	require.Len(t, chapters, 1)
	assert.Equal(t, "第一章", chapters[0].ChapterTitle)
}

func TestChaptersCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.analysis.err = domain.ErrNotFound

	_, err := execute(t, "chapters")

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalyzeCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "analyze")

	require.NoError(t, err)
	assert.Equal(t, "祥子", ts.analysis.lastCharacter)
	assert.Contains(t, out, "找到 1 个包含祥子的章节:")
	assert.Contains(t, out, "第1章: 2 段相关内容")
	assert.Contains(t, out, "成功分析了 1 个章节的内容")
	assert.Contains(t, out, "《骆驼祥子》祥子行为综合分析")
	assert.Contains(t, out, "祥子勤劳而倔强")
	assert.Contains(t, out, "分析结果已保存到: reports/xiangzi.txt")
	assert.True(t, ts.analysis.saved)
}

func TestAnalyzeCmd_NoSave(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "analyze", "--no-save")

	require.NoError(t, err)
	assert.False(t, ts.analysis.saved)
	assert.NotContains(t, out, "分析结果已保存到")
}

func TestAnalyzeCmd_NoContext(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.analysis.contexts = nil

	out, err := execute(t, "analyze")

	require.ErrorIs(t, err, domain.ErrNoContext)
	assert.Contains(t, out, "未找到足够的相关内容进行分析")
	assert.False(t, ts.analysis.saved)
}

func TestAnalyzeCmd_Degraded(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.analysis.report = &domain.AnalysisReport{
		Character: "祥子",
		Answer:    "第一章: 祥子拉车",
		Degraded:  true,
		Err:       errors.New("rate limited"),
	}

	out, err := execute(t, "analyze")

	require.NoError(t, err)
	assert.Contains(t, out, "生成综合分析时出错: rate limited")
	assert.Contains(t, out, "基于检索内容的基础分析")
	assert.Contains(t, out, "第一章: 祥子拉车")
	assert.False(t, ts.analysis.saved, "degraded reports are never written")
}

func TestAnalyzeCmd_SaveError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.analysis.saveErr = errBoom

	_, err := execute(t, "analyze")

	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "failed to save report")
}

func TestResolveCharacter(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	assert.Equal(t, "虎妞", resolveCharacter("虎妞"))
	assert.Equal(t, "祥子", resolveCharacter(""))

	SetServices(nil)
	assert.Empty(t, resolveCharacter(""))
}
