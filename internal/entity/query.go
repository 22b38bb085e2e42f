package entity

// Intent distinguishes a raw market-data request from a full analysis request.
type Intent string

const (
	IntentData     Intent = "data"
	IntentAnalysis Intent = "analysis"
)

// StructuredQuery is the interpreted form of one free-text user query.
// It is created once by the query parser and never mutated afterwards.
type StructuredQuery struct {
	Intent      Intent `json:"intent"`
	Symbol      string `json:"symbol"`
	DisplayName string `json:"display_name"`
	Industry    string `json:"industry"`
	StartDate   string `json:"start_date"` // YYYYMMDD
	EndDate     string `json:"end_date"`   // YYYYMMDD
}

// StockBasic is one row of the exchange directory listing.
type StockBasic struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
}
