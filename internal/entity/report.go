package entity

// SectionLabel identifies one of the five analysis sections of a report.
type SectionLabel string

const (
	SectionFundamental SectionLabel = "fundamental"
	SectionIndustry    SectionLabel = "industry"
	SectionTechnical   SectionLabel = "technical"
	SectionMacro       SectionLabel = "macro"
	SectionFree        SectionLabel = "free"
)

// SectionOrder is the fixed presentation order of a completed report.
var SectionOrder = []SectionLabel{
	SectionFundamental,
	SectionIndustry,
	SectionTechnical,
	SectionMacro,
	SectionFree,
}

var sectionTitles = map[SectionLabel]string{
	SectionFundamental: "基本面分析",
	SectionIndustry:    "行业分析",
	SectionTechnical:   "技术面分析",
	SectionMacro:       "宏观分析",
	SectionFree:        "AI分析",
}

// Title returns the user-facing Chinese heading for the section.
func (l SectionLabel) Title() string {
	return sectionTitles[l]
}

// AnalysisSection is one labeled narrative block. Score stays nil until the
// scoring stage has run (and for data-mode placeholder sections).
type AnalysisSection struct {
	Label SectionLabel `json:"label"`
	Text  string       `json:"text"`
	Score *int         `json:"score"`
}

// Sentiment tags one news item.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// NewsItem is one summarized news document.
type NewsItem struct {
	Summary   string    `json:"summary"`
	Sentiment Sentiment `json:"sentiment,omitempty"`
	Link      string    `json:"link,omitempty"`
}

// NewsDigest is an ordered, capped sequence of summarized news items.
type NewsDigest []NewsItem

// ReportArtifact is the terminal output of one pipeline run. DocumentPath is
// empty when PDF assembly failed; that is a reportable state, not an error.
type ReportArtifact struct {
	Query           *StructuredQuery  `json:"query"`
	Sections        []AnalysisSection `json:"sections"`
	PriceChartPath  string            `json:"price_chart_path"`
	VolumeChartPath string            `json:"volume_chart_path"`
	DataTablePath   string            `json:"data_table_path"`
	DocumentPath    string            `json:"document_path,omitempty"`
	NewsMarkdown    string            `json:"news_markdown,omitempty"`
	Dir             string            `json:"-"`
}
