package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"golang-stock-insight/pkg/logger"
)

// sequencedAI hands out one canned response per call, in order.
type sequencedAI struct {
	mu        sync.Mutex
	responses []string
}

func (f *sequencedAI) Complete(_ context.Context, _ string, _ [][]byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.responses) == 0 {
		return "", assert.AnError
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name  string
		resp  string
		want  int
		valid bool
	}{
		{name: "plain number", resp: "85", want: 85, valid: true},
		{name: "number inside prose", resp: "评分：72分", want: 72, valid: true},
		{name: "sign is ignored", resp: "-42", want: 42, valid: true},
		{name: "zero", resp: "0", want: 0, valid: true},
		{name: "hundred", resp: "100", want: 100, valid: true},
		{name: "out of range", resp: "150", valid: false},
		{name: "no digits", resp: "非常好", valid: false},
		{name: "empty", resp: "", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := parseScore(tt.resp)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, v)
			}
		})
	}
}

func TestScore(t *testing.T) {
	t.Run("averages the five samples", func(t *testing.T) {
		ai := &sequencedAI{responses: []string{"70", "80", "90", "95", "100"}}
		svc := NewScoreService(logger.NewNop(), ai)
		assert.Equal(t, 87, svc.Score(context.Background(), "分析内容", "基本面分析"))
	})

	t.Run("mean rounds half away from zero", func(t *testing.T) {
		ai := &sequencedAI{responses: []string{"87", "88", "分", "分", "分"}}
		svc := NewScoreService(logger.NewNop(), ai)
		assert.Equal(t, 88, svc.Score(context.Background(), "分析内容", "行业分析"))
	})

	t.Run("invalid samples are discarded", func(t *testing.T) {
		ai := &sequencedAI{responses: []string{"60", "150", "无", "60", "60"}}
		svc := NewScoreService(logger.NewNop(), ai)
		assert.Equal(t, 60, svc.Score(context.Background(), "分析内容", "技术面分析"))
	})

	t.Run("all samples discarded floors at zero", func(t *testing.T) {
		ai := &sequencedAI{responses: []string{"无", "无", "无", "无", "无"}}
		svc := NewScoreService(logger.NewNop(), ai)
		assert.Equal(t, 0, svc.Score(context.Background(), "分析内容", "宏观分析"))
	})

	t.Run("collaborator failure floors at zero", func(t *testing.T) {
		svc := NewScoreService(logger.NewNop(), &sequencedAI{})
		assert.Equal(t, 0, svc.Score(context.Background(), "分析内容", "AI分析"))
	})
}
