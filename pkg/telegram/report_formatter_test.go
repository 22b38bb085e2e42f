package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatReportMessage(t *testing.T) {
	scores := map[string]int{"基本面分析": 80, "行业分析": 65}
	order := []string{"基本面分析", "行业分析", "技术面分析"}

	msg := FormatReportMessage("600519.SH", "贵州茅台", scores, order, true)
	assert.Contains(t, msg, "贵州茅台 (600519.SH)")
	assert.Contains(t, msg, "基本面分析: 80")
	assert.Contains(t, msg, "行业分析: 65")
	assert.NotContains(t, msg, "技术面分析")
	assert.NotContains(t, msg, "PDF 报告生成失败")

	msg = FormatReportMessage("600519.SH", "贵州茅台", scores, order, false)
	assert.Contains(t, msg, "PDF 报告生成失败")
}
