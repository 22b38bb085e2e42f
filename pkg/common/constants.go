package common

const (
	// Date layout used on the wire by the market-data provider.
	DateLayoutCompact = "20060102"

	// Report directory timestamp layout, e.g. 600519_SH_20240301_153012.
	ReportDirTimeLayout = "20060102_150405"

	// News digest caps. Symbol-level news carries more weight than
	// industry-level news, so it gets the larger search budget.
	SymbolNewsCount   = 10
	IndustryNewsCount = 5

	// Fixed number of scoring samples per analysis section.
	ScoreSampleCount = 5
)
