package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// rule is the separator printed under report headings.
var rule = strings.Repeat("=", 50)

// printer styles headings when stdout is a terminal and stays plain when piped.
type printer struct {
	cmd    *cobra.Command
	styles *styles.Styles
	styled bool
}

func newPrinter(cmd *cobra.Command) *printer {
	styled := false
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return &printer{cmd: cmd, styles: styles.DefaultStyles(), styled: styled}
}

func (p *printer) heading(title string) {
	p.cmd.Println()
	if p.styled {
		p.cmd.Println(p.styles.Title.Render(title))
	} else {
		p.cmd.Println(title)
	}
	p.cmd.Println(rule)
}

func (p *printer) success(msg string) string {
	if p.styled {
		return p.styles.Success.Render(msg)
	}
	return msg
}

func (p *printer) failure(msg string) string {
	if p.styled {
		return p.styles.Error.Render(msg)
	}
	return msg
}

func (p *printer) muted(msg string) string {
	if p.styled {
		return p.styles.Muted.Render(msg)
	}
	return msg
}

// printResults prints retrieval results in the search listing format.
func (p *printer) printResults(results []domain.RetrievalResult) {
	for i := range results {
		r := &results[i]
		p.cmd.Printf("  结果 %d (相似度: %.3f):\n", i+1, r.Similarity())
		p.cmd.Printf("    章节: %s\n", domain.Truncate(r.ChapterTitle(), 50))
		p.cmd.Printf("    人物: %s\n", p.muted(r.Characters()))
		p.cmd.Printf("    内容: %s\n", domain.Truncate(r.Document, 100))
		p.cmd.Println()
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
