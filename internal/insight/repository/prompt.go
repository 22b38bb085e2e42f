package repository

import (
	"fmt"
	"strings"

	"golang-stock-insight/internal/entity"
)

// Section labels the combined analysis response is expected to carry. The
// model is asked for this template but is not trusted to follow it; see the
// narrative parser.
const (
	LabelFundamental = "基本面分析"
	LabelIndustry    = "行业分析"
	LabelTechnical   = "技术面分析"
)

// BuildSectionAnalysisPrompt assembles the combined fundamentals/industry/
// technical prompt from both news digests. Chart images ride along as
// attachments, not in the text.
func BuildSectionAnalysisPrompt(stockName string, symbolNews, industryNews entity.NewsDigest) string {
	var news strings.Builder
	news.WriteString("股票相关新闻摘要：\n")
	for _, item := range symbolNews {
		news.WriteString(fmt.Sprintf("- %s\n", item.Summary))
	}
	news.WriteString("行业相关新闻摘要：\n")
	for _, item := range industryNews {
		news.WriteString(fmt.Sprintf("- %s\n", item.Summary))
	}

	prompt := fmt.Sprintf(
		"下面是关于股票「%s」的近期股票新闻摘要和行业新闻摘要，以及该股票的收盘价与成交量图表。\n"+
			"请综合以上图像和文本信息，从基本面、行业面、技术面三个方面对「%s」进行详细分析。\n"+
			"请用中文回答，格式如下：\n"+
			"%s：<分析内容>\n"+
			"%s：<分析内容>\n"+
			"%s：<分析内容>",
		stockName, stockName, LabelFundamental, LabelIndustry, LabelTechnical,
	)
	return prompt + "\n" + news.String()
}

// BuildMacroPrompt requests the macro-economic narrative. No images, no
// stock-specific context.
func BuildMacroPrompt() string {
	return "请从宏观角度分析当前中国的宏观经济环境和整个A股市场的投资价值，并给出详细的宏观分析。请用中文回答。"
}

// BuildFreeAnalysisPrompt supplies the four prior sections and asks for
// supplementary commentary that avoids overlap.
func BuildFreeAnalysisPrompt(stockName, fundamental, industry, technical, macro string) string {
	return fmt.Sprintf(
		"以下是关于股票「%s」的分析：\n"+
			"基本面分析：%s\n"+
			"行业分析：%s\n"+
			"技术面分析：%s\n"+
			"宏观分析：%s\n"+
			"请你作为AI，从整体上进一步分析该股票，不要包含和上述分析重叠的部分，"+
			"并自由阐述任何上述分析未充分覆盖的重要内容。请给出详细的 AI 分析。",
		stockName, fundamental, industry, technical, macro,
	)
}

// BuildNewsDigestPrompt asks for a one-line summary plus a sentiment tag for
// a single news document.
func BuildNewsDigestPrompt(title, content string) string {
	text := content
	if title != "" {
		text = fmt.Sprintf("标题：%s\n%s", title, content)
	}
	return "你是一个智能助手，请阅读新闻内容并用不超过30字总结其主要内容，" +
		"并判断该新闻的情绪是乐观、悲观或中性。回答格式为：摘要（情绪）。\n\n" + text
}

// BuildScorePrompt asks for a single 0-100 numeric rating of one section.
func BuildScorePrompt(aspectTitle, analysisText string) string {
	return fmt.Sprintf(
		"以下是对股票的%s。\n%s\n"+
			"请你根据上述分析内容，从0到100对该股票的此方面表现进行评分。"+
			"请大胆给出评分，并且只输出一个数字。",
		aspectTitle, analysisText,
	)
}
