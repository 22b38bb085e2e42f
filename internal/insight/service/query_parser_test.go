package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/logger"
)

var parserNow = time.Date(2024, 8, 27, 10, 0, 0, 0, time.UTC)

func TestResolveDateRange(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		now   time.Time
		start string
		end   string
	}{
		{
			name:  "two absolute dates kept verbatim in text order",
			text:  "查询 2023-06-30 到 2023-01-01 的走势",
			now:   parserNow,
			start: "20230630",
			end:   "20230101",
		},
		{
			name:  "two compact absolute dates",
			text:  "20230101到20230630",
			now:   parserNow,
			start: "20230101",
			end:   "20230630",
		},
		{
			name:  "single absolute date runs to now",
			text:  "从2023-01-01开始",
			now:   parserNow,
			start: "20230101",
			end:   "20240827",
		},
		{
			name:  "relative years",
			text:  "最近1年",
			now:   parserNow,
			start: "20230828",
			end:   "20240827",
		},
		{
			name:  "relative days",
			text:  "最近30天",
			now:   parserNow,
			start: "20240728",
			end:   "20240827",
		},
		{
			name:  "relative months clamp to the last valid day",
			text:  "最近1月",
			now:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			start: "20240229",
			end:   "20240331",
		},
		{
			name:  "last relative expression wins",
			text:  "最近1年还是最近30天",
			now:   parserNow,
			start: "20240728",
			end:   "20240827",
		},
		{
			name:  "no date expression defaults to the past year",
			text:  "贵州茅台",
			now:   parserNow,
			start: "20230828",
			end:   "20240827",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := ResolveDateRange(tt.text, tt.now)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestExtractEntity(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		intent entity.Intent
		symbol string
		dname  string
	}{
		{
			name:   "code and name with analysis intent",
			text:   "600519贵州茅台最近1年情况如何",
			intent: entity.IntentAnalysis,
			symbol: "600519.SH",
			dname:  "贵州茅台",
		},
		{
			name:   "bare shenzhen code with data intent",
			text:   "000001行情",
			intent: entity.IntentData,
			symbol: "000001.SZ",
		},
		{
			name:   "explicit suffix is uppercased",
			text:   "512480.sh怎么样",
			intent: entity.IntentAnalysis,
			symbol: "512480.SH",
		},
		{
			name:   "chinext code maps to shenzhen",
			text:   "300750宁德时代",
			intent: entity.IntentAnalysis,
			symbol: "300750.SZ",
			dname:  "宁德时代",
		},
		{
			name:   "nine-prefix maps to shanghai",
			text:   "900901",
			intent: entity.IntentAnalysis,
			symbol: "900901.SH",
		},
		{
			name:   "data keywords never leak into the display name",
			text:   "教育行业行情数据",
			intent: entity.IntentData,
			dname:  "教育行业",
		},
		{
			name:   "no entity at all",
			text:   "how is the market",
			intent: entity.IntentAnalysis,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, symbol, name := ExtractEntity(tt.text)
			assert.Equal(t, tt.intent, intent)
			assert.Equal(t, tt.symbol, symbol)
			assert.Equal(t, tt.dname, name)
		})
	}
}

func TestInterpret(t *testing.T) {
	directory := &fakeDirectory{stocks: []entity.StockBasic{
		{Symbol: "600519.SH", Name: "贵州茅台", Industry: "白酒"},
		{Symbol: "000002.SZ", Name: "万科A", Industry: "房地产"},
	}}
	parser := NewQueryParser(directory, logger.NewNop())

	t.Run("name resolves through the directory", func(t *testing.T) {
		q, err := parser.Interpret(context.Background(), "贵州茅台 2023-01-01 2023-06-30", parserNow)
		require.NoError(t, err)
		assert.Equal(t, entity.IntentAnalysis, q.Intent)
		assert.Equal(t, "600519.SH", q.Symbol)
		assert.Equal(t, "贵州茅台", q.DisplayName)
		assert.Equal(t, "白酒", q.Industry)
		assert.Equal(t, "20230101", q.StartDate)
		assert.Equal(t, "20230630", q.EndDate)
	})

	t.Run("partial name matches by containment", func(t *testing.T) {
		q, err := parser.Interpret(context.Background(), "茅台怎么样", parserNow)
		require.NoError(t, err)
		assert.Equal(t, "600519.SH", q.Symbol)
		assert.Equal(t, "贵州茅台", q.DisplayName)
	})

	t.Run("explicit symbol skips the directory", func(t *testing.T) {
		q, err := parser.Interpret(context.Background(), "601318行情数据", parserNow)
		require.NoError(t, err)
		assert.Equal(t, entity.IntentData, q.Intent)
		assert.Equal(t, "601318.SH", q.Symbol)
		assert.Empty(t, q.Industry)
	})

	t.Run("unknown name is rejected", func(t *testing.T) {
		_, err := parser.Interpret(context.Background(), "不知名公司", parserNow)
		assert.ErrorIs(t, err, ErrUnresolvedEntity)
	})

	t.Run("no symbol and no name is rejected", func(t *testing.T) {
		_, err := parser.Interpret(context.Background(), "how is it", parserNow)
		assert.ErrorIs(t, err, ErrUnresolvedEntity)
	})

	t.Run("directory failure is reported as unresolved", func(t *testing.T) {
		broken := NewQueryParser(&fakeDirectory{err: assert.AnError}, logger.NewNop())
		_, err := broken.Interpret(context.Background(), "贵州茅台", parserNow)
		assert.ErrorIs(t, err, ErrUnresolvedEntity)
	})
}
