package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/internal/insight/config"
	"golang-stock-insight/internal/insight/dto"
	"golang-stock-insight/internal/insight/repository"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"
)

// NewsService builds the symbol-level and industry-level news digests. It
// never fails: any collaborator error degrades to an empty digest.
type NewsService interface {
	BuildDigests(ctx context.Context, stockName, industryName string) (symbolNews, industryNews entity.NewsDigest, markdown string)
}

type newsService struct {
	cfg    *config.Config
	log    *logger.Logger
	search repository.SearchRepository
	ai     repository.AIRepository
}

// NewNewsService creates a new NewsService.
func NewNewsService(cfg *config.Config, log *logger.Logger, search repository.SearchRepository, ai repository.AIRepository) NewsService {
	return &newsService{cfg: cfg, log: log, search: search, ai: ai}
}

func (s *newsService) BuildDigests(ctx context.Context, stockName, industryName string) (entity.NewsDigest, entity.NewsDigest, string) {
	var symbolNews, industryNews entity.NewsDigest

	if stockName != "" {
		symbolNews = s.digest(ctx, fmt.Sprintf("%s 股票 新闻", stockName), common.SymbolNewsCount)
	}
	if industryName != "" {
		industryNews = s.digest(ctx, fmt.Sprintf("%s 行业 新闻", industryName), common.IndustryNewsCount)
	}

	return symbolNews, industryNews, buildNewsMarkdown(symbolNews, industryNews)
}

// digest searches for documents and summarizes each one concurrently. The
// order of the search results is preserved in the digest.
func (s *newsService) digest(ctx context.Context, query string, count int) entity.NewsDigest {
	docs, err := s.search.Search(ctx, query, s.cfg.Search.DomainFilter, s.cfg.Search.RecencyFilter, count)
	if err != nil {
		s.log.WarnContext(ctx, "Search failed, digest degraded to empty", logger.ErrorField(err), logger.StringField("query", query))
		return nil
	}
	if len(docs) > count {
		docs = docs[:count]
	}

	items := make([]entity.NewsItem, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		i, doc := i, doc
		utils.GoSafe(func() {
			defer wg.Done()
			items[i] = s.summarize(ctx, doc)
		})
	}
	wg.Wait()

	digest := make(entity.NewsDigest, 0, len(items))
	for _, item := range items {
		if item.Summary != "" {
			digest = append(digest, item)
		}
	}
	return digest
}

// summarize turns one document into a short summary with a sentiment tag.
// When the model call fails, the raw content is truncated instead so a usable
// digest line survives.
func (s *newsService) summarize(ctx context.Context, doc dto.SearchDocument) entity.NewsItem {
	resp, err := s.ai.Complete(ctx, repository.BuildNewsDigestPrompt(doc.Title, doc.Content), nil)
	if err != nil || resp == "" {
		return entity.NewsItem{Summary: truncateRunes(doc.Content, 120), Link: doc.Link}
	}
	summary := strings.TrimSpace(strings.Trim(resp, "`"))
	return entity.NewsItem{
		Summary:   summary,
		Sentiment: parseSentiment(summary),
		Link:      doc.Link,
	}
}

// parseSentiment reads the 乐观/悲观/中性 tag the digest prompt asks for.
// An answer without a recognizable tag stays untagged.
func parseSentiment(summary string) entity.Sentiment {
	switch {
	case strings.Contains(summary, "乐观"):
		return entity.SentimentPositive
	case strings.Contains(summary, "悲观"):
		return entity.SentimentNegative
	case strings.Contains(summary, "中性"):
		return entity.SentimentNeutral
	default:
		return ""
	}
}

func truncateRunes(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max]) + "..."
}

func buildNewsMarkdown(symbolNews, industryNews entity.NewsDigest) string {
	var b strings.Builder
	b.WriteString("### 股票新闻\n")
	for _, item := range symbolNews {
		b.WriteString(fmt.Sprintf("- %s [🔗原文链接](%s)\n", item.Summary, item.Link))
	}
	b.WriteString("\n### 行业新闻\n")
	for _, item := range industryNews {
		b.WriteString(fmt.Sprintf("- %s [🔗原文链接](%s)\n", item.Summary, item.Link))
	}
	return b.String()
}
