package dto

// CreateReportRequest is the HTTP payload for submitting a free-text query.
type CreateReportRequest struct {
	Query string `json:"query"`
}

// SectionResponse is one analysis section in the HTTP response.
type SectionResponse struct {
	Label string `json:"label"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Score *int   `json:"score,omitempty"`
}

// ReportResponse is the HTTP projection of a completed ReportArtifact.
type ReportResponse struct {
	Intent          string            `json:"intent"`
	Symbol          string            `json:"symbol"`
	DisplayName     string            `json:"display_name"`
	Industry        string            `json:"industry,omitempty"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	Sections        []SectionResponse `json:"sections"`
	PriceChartPath  string            `json:"price_chart_path"`
	VolumeChartPath string            `json:"volume_chart_path"`
	DataTablePath   string            `json:"data_table_path"`
	DocumentPath    string            `json:"document_path,omitempty"`
	NewsMarkdown    string            `json:"news_markdown,omitempty"`
}
