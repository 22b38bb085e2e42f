package service

import (
	"context"
	"strings"
	"sync"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/internal/insight/repository"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"
)

// NarrativeResult carries the five narrative blocks of one analysis run.
// Scores are attached later by the scoring stage.
type NarrativeResult struct {
	Fundamental string
	Industry    string
	Technical   string
	Macro       string
	Free        string
}

// NarrativeService drives the generative collaborator through the three
// analysis prompts. A failed call yields empty sections for that prompt; it
// never aborts the run.
type NarrativeService interface {
	Synthesize(ctx context.Context, query *entity.StructuredQuery, symbolNews, industryNews entity.NewsDigest, priceChart, volumeChart []byte) *NarrativeResult
}

type narrativeService struct {
	log *logger.Logger
	ai  repository.AIRepository
}

// NewNarrativeService creates a new NarrativeService.
func NewNarrativeService(log *logger.Logger, ai repository.AIRepository) NarrativeService {
	return &narrativeService{log: log, ai: ai}
}

func (s *narrativeService) Synthesize(ctx context.Context, query *entity.StructuredQuery, symbolNews, industryNews entity.NewsDigest, priceChart, volumeChart []byte) *NarrativeResult {
	stockName := query.DisplayName
	if stockName == "" {
		stockName = query.Symbol
	}

	result := &NarrativeResult{}

	// The combined prompt and the macro prompt are independent; the free
	// prompt needs all four prior sections, so it runs afterwards.
	var wg sync.WaitGroup
	wg.Add(2)
	utils.GoSafe(func() {
		defer wg.Done()
		prompt := repository.BuildSectionAnalysisPrompt(stockName, symbolNews, industryNews)
		images := [][]byte{priceChart, volumeChart}
		resp, err := s.ai.Complete(ctx, prompt, images)
		if err != nil {
			s.log.WarnContext(ctx, "Combined analysis prompt failed, sections degraded to empty", logger.ErrorField(err))
			return
		}
		result.Fundamental, result.Industry, result.Technical = parseThreeSections(resp)
	})
	utils.GoSafe(func() {
		defer wg.Done()
		resp, err := s.ai.Complete(ctx, repository.BuildMacroPrompt(), nil)
		if err != nil {
			s.log.WarnContext(ctx, "Macro prompt failed, section degraded to empty", logger.ErrorField(err))
			return
		}
		result.Macro = strings.TrimSpace(resp)
	})
	wg.Wait()

	freePrompt := repository.BuildFreeAnalysisPrompt(stockName, result.Fundamental, result.Industry, result.Technical, result.Macro)
	resp, err := s.ai.Complete(ctx, freePrompt, nil)
	if err != nil {
		s.log.WarnContext(ctx, "Free analysis prompt failed, section degraded to empty", logger.ErrorField(err))
	} else {
		result.Free = strings.TrimSpace(resp)
	}

	return result
}

const sectionTrimCutset = "：: \n"

// parseThreeSections splits the combined response into the fundamental,
// industry and technical blocks. Total over any input:
//
//  1. Strict template: all three labels present in order. Slice the text
//     between consecutive label positions.
//  2. Label subset: at least one label present. Each found section runs to
//     the next found label, missing sections stay empty.
//  3. No labels at all: split into non-empty lines and assign the first
//     three in order; fewer than three lines puts the whole response into
//     the fundamental slot.
func parseThreeSections(text string) (string, string, string) {
	labels := []string{repository.LabelFundamental, repository.LabelIndustry, repository.LabelTechnical}
	positions := make([]int, len(labels))
	found := 0
	for i, label := range labels {
		positions[i] = strings.Index(text, label)
		if positions[i] >= 0 {
			found++
		}
	}

	if found > 0 && positionsOrdered(positions) {
		parts := make([]string, len(labels))
		for i, label := range labels {
			if positions[i] < 0 {
				continue
			}
			start := positions[i] + len(label)
			end := len(text)
			for j := i + 1; j < len(labels); j++ {
				if positions[j] >= 0 {
					end = positions[j]
					break
				}
			}
			parts[i] = strings.Trim(text[start:end], sectionTrimCutset)
		}
		return parts[0], parts[1], parts[2]
	}

	var segments []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	if len(segments) >= 3 {
		return segments[0], segments[1], segments[2]
	}
	return strings.TrimSpace(text), "", ""
}

// positionsOrdered reports whether the found label positions are strictly
// increasing. Out-of-order labels fall through to the line-split path so the
// slicing arithmetic can never go negative.
func positionsOrdered(positions []int) bool {
	prev := -1
	for _, p := range positions {
		if p < 0 {
			continue
		}
		if prev >= 0 && p <= prev {
			return false
		}
		prev = p
	}
	return true
}
