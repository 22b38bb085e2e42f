package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/internal/insight/config"
	"golang-stock-insight/internal/insight/report"
	"golang-stock-insight/internal/insight/repository"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/telegram"
	"golang-stock-insight/pkg/utils"
)

// Placeholder body for data-mode sections; no narrative is generated.
const dataModeNotice = "（本次查询为行情数据请求，未生成分析结论。）"

// ReportService runs one query through the full pipeline and returns a
// terminal ReportArtifact, or ErrUnresolvedEntity when interpretation fails.
type ReportService interface {
	Submit(ctx context.Context, rawQuery string) (*entity.ReportArtifact, error)
}

type reportService struct {
	cfg       *config.Config
	log       *logger.Logger
	parser    QueryParser
	market    repository.MarketDataRepository
	news      NewsService
	narrative NarrativeService
	score     ScoreService
	assembler report.Assembler
	notifier  telegram.Notifier
}

// NewReportService creates a new ReportService. notifier may be nil when
// Telegram notification is disabled.
func NewReportService(
	cfg *config.Config,
	log *logger.Logger,
	parser QueryParser,
	market repository.MarketDataRepository,
	news NewsService,
	narrative NarrativeService,
	score ScoreService,
	assembler report.Assembler,
	notifier telegram.Notifier,
) ReportService {
	return &reportService{
		cfg:       cfg,
		log:       log,
		parser:    parser,
		market:    market,
		news:      news,
		narrative: narrative,
		score:     score,
		assembler: assembler,
		notifier:  notifier,
	}
}

// Submit moves the request through interpretation, market data and charts,
// then for analysis intent through news, narrative, scoring and assembly.
// Every stage past interpretation degrades instead of aborting: the only
// error this returns is an unresolvable or infrastructure-level failure
// before the pipeline proper starts.
func (s *reportService) Submit(ctx context.Context, rawQuery string) (*entity.ReportArtifact, error) {
	now := utils.TimeNowCST()

	query, err := s.parser.Interpret(ctx, rawQuery, now)
	if err != nil {
		return nil, err
	}

	codeForFile := strings.ReplaceAll(query.Symbol, ".", "_")
	dir := filepath.Join(s.cfg.Report.Dir, fmt.Sprintf("%s_%s", codeForFile, now.Format(common.ReportDirTimeLayout)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	bars, err := s.market.FetchDaily(ctx, query.Symbol, query.StartDate, query.EndDate)
	if err != nil {
		s.log.WarnContext(ctx, "Market data fetch failed, substituting empty series", logger.ErrorField(err), logger.StringField("symbol", query.Symbol))
		bars = nil
	}
	if len(bars) == 0 {
		bars = report.EmptySeries(query.StartDate, query.EndDate)
	}
	indicators := report.ComputeIndicators(bars)

	stockName := query.DisplayName
	if stockName == "" {
		stockName = query.Symbol
	}

	artifact := &entity.ReportArtifact{Query: query, Dir: dir}

	pricePNG := s.renderChart(ctx, func() ([]byte, error) { return report.RenderPriceChart(stockName, bars, indicators) },
		filepath.Join(dir, "price_chart.png"), &artifact.PriceChartPath)
	volumePNG := s.renderChart(ctx, func() ([]byte, error) { return report.RenderVolumeChart(stockName, bars, indicators) },
		filepath.Join(dir, "volume_chart.png"), &artifact.VolumeChartPath)

	tablePath := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.csv", codeForFile, query.StartDate, query.EndDate))
	if err := report.WriteCSV(tablePath, bars, indicators); err != nil {
		s.log.WarnContext(ctx, "Data table write failed", logger.ErrorField(err))
	} else {
		artifact.DataTablePath = tablePath
	}

	if query.Intent == entity.IntentData {
		artifact.Sections = placeholderSections()
		s.log.InfoContext(ctx, "Data report completed", logger.StringField("symbol", query.Symbol))
		return artifact, nil
	}

	symbolNews, industryNews, newsMarkdown := s.news.BuildDigests(ctx, stockName, query.Industry)
	artifact.NewsMarkdown = newsMarkdown

	narrative := s.narrative.Synthesize(ctx, query, symbolNews, industryNews, pricePNG, volumePNG)

	texts := map[entity.SectionLabel]string{
		entity.SectionFundamental: narrative.Fundamental,
		entity.SectionIndustry:    narrative.Industry,
		entity.SectionTechnical:   narrative.Technical,
		entity.SectionMacro:       narrative.Macro,
		entity.SectionFree:        narrative.Free,
	}
	sections := make([]entity.AnalysisSection, 0, len(entity.SectionOrder))
	for _, label := range entity.SectionOrder {
		score := s.score.Score(ctx, texts[label], label.Title())
		sections = append(sections, entity.AnalysisSection{Label: label, Text: texts[label], Score: &score})
	}
	artifact.Sections = sections

	title := fmt.Sprintf("%s（%s）分析报告", stockName, query.Symbol)
	docPath := filepath.Join(dir, fmt.Sprintf("%s_报告.pdf", codeForFile))
	if path, err := s.assembler.Assemble(sections, artifact.PriceChartPath, artifact.VolumeChartPath, docPath, title); err != nil {
		// Soft failure: the report completes without a document.
		s.log.WarnContext(ctx, "Report completed without document", logger.ErrorField(err), logger.StringField("symbol", query.Symbol))
	} else {
		artifact.DocumentPath = path
	}

	s.notify(query, sections, artifact.DocumentPath != "")
	s.log.InfoContext(ctx, "Analysis report completed",
		logger.StringField("symbol", query.Symbol),
		logger.StringField("document", artifact.DocumentPath),
	)
	return artifact, nil
}

// renderChart renders one chart to disk, records the path on success, and
// returns the PNG bytes for the vision prompt.
func (s *reportService) renderChart(ctx context.Context, render func() ([]byte, error), path string, target *string) []byte {
	png, err := render()
	if err != nil {
		s.log.WarnContext(ctx, "Chart render failed", logger.ErrorField(err), logger.StringField("path", path))
		return nil
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		s.log.WarnContext(ctx, "Chart write failed", logger.ErrorField(err), logger.StringField("path", path))
		return png
	}
	*target = path
	return png
}

func placeholderSections() []entity.AnalysisSection {
	sections := make([]entity.AnalysisSection, 0, len(entity.SectionOrder))
	for _, label := range entity.SectionOrder {
		sections = append(sections, entity.AnalysisSection{Label: label, Text: dataModeNotice})
	}
	return sections
}

func (s *reportService) notify(query *entity.StructuredQuery, sections []entity.AnalysisSection, hasDocument bool) {
	if s.notifier == nil {
		return
	}
	scores := make(map[string]int, len(sections))
	order := make([]string, 0, len(sections))
	for _, section := range sections {
		if section.Score != nil {
			scores[section.Label.Title()] = *section.Score
		}
		order = append(order, section.Label.Title())
	}
	msg := telegram.FormatReportMessage(query.Symbol, query.DisplayName, scores, order, hasDocument)
	if err := s.notifier.SendMessage(msg); err != nil {
		s.log.Warn("Telegram notification failed", logger.ErrorField(err))
	}
}
