package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/internal/insight/config"
	"golang-stock-insight/internal/insight/dto"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"

	"golang.org/x/time/rate"
)

type tushareRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewTushareRepository creates a MarketDataRepository backed by the Tushare
// HTTP API.
func NewTushareRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Tushare.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	return &tushareRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		requestLimiter: requestLimiter,
	}
}

// FetchDaily returns the OHLCV rows for symbol within [startDate, endDate],
// sorted ascending by trade date. Tushare returns rows newest-first.
func (r *tushareRepository) FetchDaily(ctx context.Context, symbol, startDate, endDate string) ([]entity.DailyBar, error) {
	resp, err := r.call(ctx, dto.TushareRequest{
		APIName: "daily",
		Token:   r.cfg.Tushare.Token,
		Params: map[string]string{
			"ts_code":    symbol,
			"start_date": startDate,
			"end_date":   endDate,
		},
		Fields: "trade_date,open,high,low,close,vol",
	})
	if err != nil {
		return nil, err
	}

	idx := fieldIndex(resp.Data.Fields)
	bars := make([]entity.DailyBar, 0, len(resp.Data.Items))
	for _, item := range resp.Data.Items {
		dateStr, ok := itemString(item, idx, "trade_date")
		if !ok {
			continue
		}
		date, err := time.Parse(common.DateLayoutCompact, dateStr)
		if err != nil {
			continue
		}
		bars = append(bars, entity.DailyBar{
			Date:   date,
			Open:   itemFloat(item, idx, "open"),
			High:   itemFloat(item, idx, "high"),
			Low:    itemFloat(item, idx, "low"),
			Close:  itemFloat(item, idx, "close"),
			Volume: itemFloat(item, idx, "vol"),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	r.log.DebugContext(ctx, "Fetched daily bars",
		logger.StringField("symbol", symbol),
		logger.IntField("rows", len(bars)),
	)
	return bars, nil
}

// ListStocks returns the full listed-stock directory (symbol, name, industry).
func (r *tushareRepository) ListStocks(ctx context.Context) ([]entity.StockBasic, error) {
	resp, err := r.call(ctx, dto.TushareRequest{
		APIName: "stock_basic",
		Token:   r.cfg.Tushare.Token,
		Params: map[string]string{
			"exchange":    "",
			"list_status": "L",
		},
		Fields: "ts_code,name,industry",
	})
	if err != nil {
		return nil, err
	}

	idx := fieldIndex(resp.Data.Fields)
	stocks := make([]entity.StockBasic, 0, len(resp.Data.Items))
	for _, item := range resp.Data.Items {
		symbol, ok := itemString(item, idx, "ts_code")
		if !ok {
			continue
		}
		name, _ := itemString(item, idx, "name")
		industry, _ := itemString(item, idx, "industry")
		stocks = append(stocks, entity.StockBasic{Symbol: symbol, Name: name, Industry: industry})
	}
	return stocks, nil
}

func (r *tushareRepository) call(ctx context.Context, payload dto.TushareRequest) (*dto.TushareResponse, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Tushare.BaseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Tushare API", logger.ErrorField(err), logger.StringField("api_name", payload.APIName))
		return nil, fmt.Errorf("failed to send request to Tushare API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-OK response from Tushare API: %d - %s", resp.StatusCode, string(body))
	}

	var tsResp dto.TushareResponse
	if err := json.NewDecoder(resp.Body).Decode(&tsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	if tsResp.Code != 0 {
		return nil, fmt.Errorf("tushare api error: %d - %s", tsResp.Code, tsResp.Msg)
	}
	return &tsResp, nil
}

func fieldIndex(fields []string) map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f] = i
	}
	return idx
}

func itemString(item []interface{}, idx map[string]int, field string) (string, bool) {
	i, ok := idx[field]
	if !ok || i >= len(item) {
		return "", false
	}
	s, ok := item[i].(string)
	return s, ok
}

func itemFloat(item []interface{}, idx map[string]int, field string) float64 {
	i, ok := idx[field]
	if !ok || i >= len(item) {
		return 0
	}
	switch v := item[i].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
