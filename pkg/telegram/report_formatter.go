package telegram

import (
	"fmt"
	"strings"
)

// FormatReportMessage renders a short completion notice for a finished
// analysis report: one line per section with its score, plus a note when
// the PDF could not be produced.
func FormatReportMessage(symbol, name string, sectionScores map[string]int, order []string, hasDocument bool) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("*分析报告完成* %s (%s)\n", name, symbol))
	for _, title := range order {
		score, ok := sectionScores[title]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %d\n", title, score))
	}
	if !hasDocument {
		b.WriteString("_PDF 报告生成失败，仅提供图表与数据_\n")
	}
	return b.String()
}
