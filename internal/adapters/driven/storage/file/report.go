package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
)

// Ensure ReportWriter implements the interface.
var _ driven.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes analysis reports as plain text.
type ReportWriter struct{}

// NewReportWriter creates a report writer.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// ReportHeader returns the first line of a report, e.g. 《骆驼祥子》主角行为综合分析.
func ReportHeader(report *domain.AnalysisReport) string {
	return fmt.Sprintf("《%s》%s行为综合分析", report.BookTitle, roleLabel(report.Character))
}

// WriteReport writes the header, a rule, and the answer.
// Degraded reports are refused so only real analyses reach disk.
func (w *ReportWriter) WriteReport(path string, report *domain.AnalysisReport) error {
	if report == nil || report.Degraded || report.Answer == "" {
		return fmt.Errorf("writing report: %w", domain.ErrInvalidInput)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}

	var b strings.Builder
	b.WriteString(ReportHeader(report))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 80))
	b.WriteString("\n\n")
	b.WriteString(report.Answer)

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// roleLabel names the analysed character in the header.
func roleLabel(character string) string {
	if character == "" || character == "祥子" {
		return "主角"
	}
	return character
}
