package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang-stock-insight/internal/insight/repository"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"
)

// ScoreService turns one narrative block into a bounded numeric rating by
// repeated noisy sampling with outlier rejection.
type ScoreService interface {
	Score(ctx context.Context, sectionText, aspectTitle string) int
}

type scoreService struct {
	log *logger.Logger
	ai  repository.AIRepository
}

// NewScoreService creates a new ScoreService.
func NewScoreService(log *logger.Logger, ai repository.AIRepository) ScoreService {
	return &scoreService{log: log, ai: ai}
}

// Score issues exactly five independent rating requests and averages the
// samples that survive validation. All five samples complete (or fail)
// before the aggregate is computed. If every sample is discarded the score
// is 0, a defined floor rather than an error. The mean rounds half away
// from zero.
func (s *scoreService) Score(ctx context.Context, sectionText, aspectTitle string) int {
	prompt := repository.BuildScorePrompt(aspectTitle, sectionText)

	samples := make([]int, common.ScoreSampleCount)
	valid := make([]bool, common.ScoreSampleCount)

	var wg sync.WaitGroup
	for i := 0; i < common.ScoreSampleCount; i++ {
		wg.Add(1)
		i := i
		utils.GoSafe(func() {
			defer wg.Done()
			resp, err := s.ai.Complete(ctx, prompt, nil)
			if err != nil {
				s.log.WarnContext(ctx, "Score sample failed", logger.ErrorField(err), logger.StringField("aspect", aspectTitle))
				return
			}
			if v, ok := parseScore(resp); ok {
				samples[i] = v
				valid[i] = true
			}
		})
	}
	wg.Wait()

	sum, n := 0, 0
	for i := range samples {
		if valid[i] {
			sum += samples[i]
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// parseScore concatenates every digit character of the response and parses
// the result. Signs and all other characters are ignored, so a sample can
// never be negative. Values outside [0, 100] are discarded.
func parseScore(resp string) (int, bool) {
	var digits strings.Builder
	for _, r := range resp {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(digits.String())
	if err != nil || v < 0 || v > 100 {
		return 0, false
	}
	return v, true
}
