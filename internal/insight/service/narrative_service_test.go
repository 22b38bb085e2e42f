package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/logger"
)

func TestParseThreeSections(t *testing.T) {
	t.Run("strict template", func(t *testing.T) {
		text := "基本面分析：营收稳健增长。\n行业分析：行业景气度回升。\n技术面分析：均线多头排列。"
		fundamental, industry, technical := parseThreeSections(text)
		assert.Equal(t, "营收稳健增长。", fundamental)
		assert.Equal(t, "行业景气度回升。", industry)
		assert.Equal(t, "均线多头排列。", technical)
	})

	t.Run("missing label leaves its section empty", func(t *testing.T) {
		text := "基本面分析：营收稳健增长。\n行业分析：行业景气度回升。"
		fundamental, industry, technical := parseThreeSections(text)
		assert.Equal(t, "营收稳健增长。", fundamental)
		assert.Equal(t, "行业景气度回升。", industry)
		assert.Empty(t, technical)
	})

	t.Run("no labels falls back to line split", func(t *testing.T) {
		text := "第一段。\n\n第二段。\n第三段。\n多余的一段。"
		fundamental, industry, technical := parseThreeSections(text)
		assert.Equal(t, "第一段。", fundamental)
		assert.Equal(t, "第二段。", industry)
		assert.Equal(t, "第三段。", technical)
	})

	t.Run("too few lines collapse into the first section", func(t *testing.T) {
		fundamental, industry, technical := parseThreeSections("只有一段话。")
		assert.Equal(t, "只有一段话。", fundamental)
		assert.Empty(t, industry)
		assert.Empty(t, technical)
	})

	t.Run("out-of-order labels fall back to line split", func(t *testing.T) {
		text := "技术面分析：C\n基本面分析：A\n行业分析：B"
		fundamental, industry, technical := parseThreeSections(text)
		assert.Equal(t, "技术面分析：C", fundamental)
		assert.Equal(t, "基本面分析：A", industry)
		assert.Equal(t, "行业分析：B", technical)
	})

	t.Run("empty input", func(t *testing.T) {
		fundamental, industry, technical := parseThreeSections("")
		assert.Empty(t, fundamental)
		assert.Empty(t, industry)
		assert.Empty(t, technical)
	})
}

func TestSynthesize(t *testing.T) {
	query := &entity.StructuredQuery{Symbol: "600519.SH", DisplayName: "贵州茅台"}

	t.Run("routes the three prompts", func(t *testing.T) {
		ai := &fakeAI{complete: func(prompt string, images [][]byte) (string, error) {
			switch {
			case len(images) > 0:
				return "基本面分析：A\n行业分析：B\n技术面分析：C", nil
			case strings.Contains(prompt, "宏观角度"):
				return "宏观向好。", nil
			default:
				return "补充观点。", nil
			}
		}}
		svc := NewNarrativeService(logger.NewNop(), ai)

		result := svc.Synthesize(context.Background(), query, nil, nil, []byte("png1"), []byte("png2"))
		assert.Equal(t, "A", result.Fundamental)
		assert.Equal(t, "B", result.Industry)
		assert.Equal(t, "C", result.Technical)
		assert.Equal(t, "宏观向好。", result.Macro)
		assert.Equal(t, "补充观点。", result.Free)
		assert.Equal(t, 3, ai.callCount())
	})

	t.Run("free prompt carries the prior sections", func(t *testing.T) {
		var freePrompt string
		ai := &fakeAI{complete: func(prompt string, images [][]byte) (string, error) {
			switch {
			case len(images) > 0:
				return "基本面分析：A\n行业分析：B\n技术面分析：C", nil
			case strings.Contains(prompt, "宏观角度"):
				return "宏观向好。", nil
			default:
				freePrompt = prompt
				return "补充观点。", nil
			}
		}}
		NewNarrativeService(logger.NewNop(), ai).Synthesize(context.Background(), query, nil, nil, []byte("p"), []byte("v"))
		assert.Contains(t, freePrompt, "宏观向好。")
		assert.Contains(t, freePrompt, "贵州茅台")
	})

	t.Run("collaborator failure degrades every section to empty", func(t *testing.T) {
		ai := &fakeAI{complete: func(string, [][]byte) (string, error) {
			return "", assert.AnError
		}}
		svc := NewNarrativeService(logger.NewNop(), ai)

		result := svc.Synthesize(context.Background(), query, nil, nil, nil, nil)
		assert.Empty(t, result.Fundamental)
		assert.Empty(t, result.Industry)
		assert.Empty(t, result.Technical)
		assert.Empty(t, result.Macro)
		assert.Empty(t, result.Free)
	})
}
