package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/internal/insight/repository"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
)

// ErrUnresolvedEntity means no symbol could be resolved from the query text,
// directly or via the directory. The only user-facing pipeline failure.
var ErrUnresolvedEntity = errors.New("unresolved stock entity")

var (
	absoluteDateRe = regexp.MustCompile(`\d{4}-?\d{2}-?\d{2}`)
	relYearsRe     = regexp.MustCompile(`(\d+)\s*年`)
	relMonthsRe    = regexp.MustCompile(`(\d+)\s*月`)
	relDaysRe      = regexp.MustCompile(`(\d+)\s*(天|日)`)

	symbolWithSuffixRe = regexp.MustCompile(`(?i)\d{6}\.(sh|sz)`)
	bareSymbolRe       = regexp.MustCompile(`\d{6}`)
	cjkRunRe           = regexp.MustCompile(`[\x{4e00}-\x{9fff}]{2,}`)
)

// Filler words stripped from the text before display-name extraction.
// Includes the data keywords so that a quote request like 行情数据 never
// leaks into the display name.
var nameStoplist = []string{"最近", "过去", "情况", "如何", "怎么样", "的", "股票", "行情", "数据"}

// Generic terms that disqualify a CJK run from being a stock name.
var nameBlacklist = map[string]bool{"行情": true, "数据": true, "情况": true}

// Keywords that flip the intent from analysis to a raw data request.
var dataKeywords = []string{"行情", "数据"}

// QueryParser interprets a free-text stock query into a StructuredQuery.
type QueryParser interface {
	Interpret(ctx context.Context, text string, now time.Time) (*entity.StructuredQuery, error)
}

type queryParser struct {
	directory repository.StockDirectoryRepository
	logger    *logger.Logger
}

// NewQueryParser creates a new QueryParser.
func NewQueryParser(directory repository.StockDirectoryRepository, log *logger.Logger) QueryParser {
	return &queryParser{directory: directory, logger: log}
}

// ResolveDateRange converts the date expressions in text into a concrete
// [start, end] pair of YYYYMMDD strings. Total: it always yields a range.
//
// Absolute dates are taken first (two: verbatim in text order, unsorted; one:
// start with end = now). Relative expressions are then checked in the order
// years, months, days, and each match overwrites whatever came before, so the
// last relative expression wins. With no match at all the window defaults to
// the past 365 days.
func ResolveDateRange(text string, now time.Time) (string, string) {
	var start, end string

	if dates := absoluteDateRe.FindAllString(text, -1); len(dates) >= 2 {
		start = strings.ReplaceAll(dates[0], "-", "")
		end = strings.ReplaceAll(dates[1], "-", "")
	} else if len(dates) == 1 {
		start = strings.ReplaceAll(dates[0], "-", "")
		end = now.Format(common.DateLayoutCompact)
	}

	if m := relYearsRe.FindStringSubmatch(text); m != nil {
		years, _ := strconv.Atoi(m[1])
		start = now.AddDate(0, 0, -365*years).Format(common.DateLayoutCompact)
		end = now.Format(common.DateLayoutCompact)
	}
	if m := relMonthsRe.FindStringSubmatch(text); m != nil {
		months, _ := strconv.Atoi(m[1])
		start = subtractMonths(now, months).Format(common.DateLayoutCompact)
		end = now.Format(common.DateLayoutCompact)
	}
	if m := relDaysRe.FindStringSubmatch(text); m != nil {
		days, _ := strconv.Atoi(m[1])
		start = now.AddDate(0, 0, -days).Format(common.DateLayoutCompact)
		end = now.Format(common.DateLayoutCompact)
	}

	if start == "" && end == "" {
		start = now.AddDate(0, 0, -365).Format(common.DateLayoutCompact)
		end = now.Format(common.DateLayoutCompact)
	}
	return start, end
}

// subtractMonths walks the month index back calendar-correctly, rolling into
// prior years as needed, and clamps the day to the target month's last valid
// day (2024-03-31 minus one month is 2024-02-29).
func subtractMonths(now time.Time, months int) time.Time {
	year, month := now.Year(), int(now.Month())-months
	for month <= 0 {
		month += 12
		year--
	}
	day := now.Day()
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
}

func lastDayOfMonth(year, month int) int {
	// Day zero of the following month.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ExtractEntity pulls the intent, market symbol and display name out of the
// query text. Total: missing pieces come back as empty strings.
func ExtractEntity(text string) (entity.Intent, string, string) {
	intent := entity.IntentAnalysis
	for _, kw := range dataKeywords {
		if strings.Contains(text, kw) {
			intent = entity.IntentData
			break
		}
	}

	var symbol string
	if m := symbolWithSuffixRe.FindString(text); m != "" {
		symbol = strings.ToUpper(m)
	} else if digits := bareSymbolRe.FindString(text); digits != "" {
		switch digits[0] {
		case '5', '6', '9':
			symbol = digits + ".SH"
		default:
			symbol = digits + ".SZ"
		}
	}

	stripped := text
	for _, kw := range nameStoplist {
		stripped = strings.ReplaceAll(stripped, kw, " ")
	}
	var name string
	for _, run := range cjkRunRe.FindAllString(stripped, -1) {
		// Strictly longer wins, so ties keep the first occurrence.
		if len([]rune(run)) > len([]rune(name)) {
			name = run
		}
	}
	if nameBlacklist[name] {
		name = ""
	}

	return intent, symbol, name
}

// Interpret composes date resolution, entity extraction and, when only a
// display name was found, the directory lookup. A query that still has no
// symbol afterwards is rejected with ErrUnresolvedEntity; there is no retry
// and no guessing.
func (p *queryParser) Interpret(ctx context.Context, text string, now time.Time) (*entity.StructuredQuery, error) {
	start, end := ResolveDateRange(text, now)
	intent, symbol, name := ExtractEntity(text)

	query := &entity.StructuredQuery{
		Intent:      intent,
		Symbol:      symbol,
		DisplayName: name,
		StartDate:   start,
		EndDate:     end,
	}

	if symbol == "" && name != "" {
		match, err := p.lookupByName(ctx, name)
		if err != nil {
			p.logger.ErrorContext(ctx, "Stock directory lookup failed", logger.ErrorField(err), logger.StringField("name", name))
			return nil, ErrUnresolvedEntity
		}
		if match == nil {
			return nil, ErrUnresolvedEntity
		}
		query.Symbol = match.Symbol
		query.DisplayName = match.Name
		query.Industry = match.Industry
	}

	if query.Symbol == "" {
		return nil, ErrUnresolvedEntity
	}

	p.logger.DebugContext(ctx, "Interpreted query",
		logger.StringField("symbol", query.Symbol),
		logger.StringField("display_name", query.DisplayName),
		logger.StringField("intent", string(query.Intent)),
		logger.StringField("start_date", query.StartDate),
		logger.StringField("end_date", query.EndDate),
	)
	return query, nil
}

// lookupByName resolves a display name against the directory: exact name
// first, then substring containment, first match in directory order.
func (p *queryParser) lookupByName(ctx context.Context, name string) (*entity.StockBasic, error) {
	stocks, err := p.directory.ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stocks {
		if stocks[i].Name == name {
			return &stocks[i], nil
		}
	}
	for i := range stocks {
		if strings.Contains(stocks[i].Name, name) {
			return &stocks[i], nil
		}
	}
	return nil, nil
}
