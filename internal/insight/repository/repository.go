package repository

import (
	"context"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/internal/insight/dto"
)

// AIRepository is the generative-text collaborator. The returned text has no
// schema guarantee; callers own the parsing fallbacks.
type AIRepository interface {
	Complete(ctx context.Context, prompt string, images [][]byte) (string, error)
}

// MarketDataRepository serves OHLCV history and the exchange directory.
type MarketDataRepository interface {
	// FetchDaily returns bars sorted ascending by date. An empty slice is a
	// valid result and must be handled by the caller, not treated as an error.
	FetchDaily(ctx context.Context, symbol, startDate, endDate string) ([]entity.DailyBar, error)
	ListStocks(ctx context.Context) ([]entity.StockBasic, error)
}

// SearchRepository is the web-search collaborator. Results are normalized to
// SearchDocument at this boundary; fewer than count results is valid.
type SearchRepository interface {
	Search(ctx context.Context, query, domainFilter, recencyFilter string, count int) ([]dto.SearchDocument, error)
}

// StockDirectoryRepository serves the directory listing used for resolving a
// display name into a canonical symbol.
type StockDirectoryRepository interface {
	ListStocks(ctx context.Context) ([]entity.StockBasic, error)
}
