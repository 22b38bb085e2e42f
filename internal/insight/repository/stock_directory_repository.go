package repository

import (
	"context"
	"time"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/internal/insight/config"
	"golang-stock-insight/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
)

const directoryCacheKey = "stock_directory"

// stockDirectoryRepository caches the full exchange listing so that one name
// lookup per user request does not refetch several thousand rows.
type stockDirectoryRepository struct {
	market MarketDataRepository
	log    *logger.Logger
	cache  *gocache.Cache
}

// NewStockDirectoryRepository wraps the market-data repository with a cached
// directory view.
func NewStockDirectoryRepository(cfg *config.Config, log *logger.Logger, market MarketDataRepository) StockDirectoryRepository {
	ttl := 6 * time.Hour
	if cfg.Tushare.DirectoryCacheTTL != "" {
		if parsed, err := time.ParseDuration(cfg.Tushare.DirectoryCacheTTL); err == nil {
			ttl = parsed
		}
	}
	return &stockDirectoryRepository{
		market: market,
		log:    log,
		cache:  gocache.New(ttl, ttl),
	}
}

// ListStocks returns the directory listing, from cache when fresh.
func (r *stockDirectoryRepository) ListStocks(ctx context.Context) ([]entity.StockBasic, error) {
	if cached, found := r.cache.Get(directoryCacheKey); found {
		return cached.([]entity.StockBasic), nil
	}

	stocks, err := r.market.ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(directoryCacheKey, stocks, gocache.DefaultExpiration)

	r.log.DebugContext(ctx, "Stock directory refreshed", logger.IntField("rows", len(stocks)))
	return stocks, nil
}
