package html

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToText_StripsScriptsAndStyles(t *testing.T) {
	markup := `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE html>
<html><head><title>第一章</title><style>p{margin:0}</style></head>
<body><script>alert(1)</script><h2>第一章 北平的洋车夫</h2><p>　　我们所要介绍的是祥子。</p></body></html>`

	text := ToText(markup)

	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "margin")
	assert.Equal(t, "第一章 北平的洋车夫\n我们所要介绍的是祥子。", text)
}

func TestToText_DecodesEntities(t *testing.T) {
	text := ToText("<p>祥子&amp;虎妞&nbsp;&lt;车&gt;</p>")

	assert.Equal(t, "祥子&虎妞 <车>", text)
}

func TestToText_BreakTagsBecomeLines(t *testing.T) {
	text := ToText("一<br/>二<br>三<hr/>四")

	assert.Equal(t, []string{"一", "二", "三", "四"}, strings.Split(text, "\n"))
}

func TestCleanText_RemovesArtefacts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"page number", "祥子拉车第 12 页走了", "祥子拉车走了"},
		{"page number no spaces", "第3页", ""},
		{"url", "下载 www.example.com 电子书", "下载 电子书"},
		{"curly double quotes", "“祥子！”", `"祥子！"`},
		{"curly single quotes", "‘车’", "'车'"},
		{"ideographic spaces", "　　祥子　　拉车", "祥子 拉车"},
		{"tabs and runs", "祥子\t\t  拉车", "祥子 拉车"},
		{"blank lines dropped", "一\n\n\n二\n  \n三", "一\n二\n三"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCleanText_KeepsChapterNumbersThatAreNotPages(t *testing.T) {
	assert.Equal(t, "第十二章", CleanText("第十二章"))
	assert.Equal(t, "第12章", CleanText("第12章"))
}

func TestToText_DropsHeadTitle(t *testing.T) {
	markup := `<html><head><title>骆驼 &amp; 祥子</title></head><body><p>正文</p></body></html>`

	assert.Equal(t, "正文", ToText(markup))
}
