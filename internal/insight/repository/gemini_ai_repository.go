package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-stock-insight/internal/insight/config"
	"golang-stock-insight/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository is an AIRepository backed by the Google Gemini API.
type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	genAiClient    *genai.Client
	requestLimiter *rate.Limiter
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		genAiClient:    genAiClient,
		requestLimiter: requestLimiter,
	}, nil
}

// Complete sends one prompt, with optional PNG attachments, and returns the
// trimmed model text. Image prompts go to the vision model.
func (r *geminiAIRepository) Complete(ctx context.Context, prompt string, images [][]byte) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img, "image/png"))
	}

	model := r.cfg.Gemini.Model
	if len(images) > 0 {
		model = r.cfg.Gemini.VisionModel
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "Gemini request failed", logger.ErrorField(err), logger.StringField("model", model))
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	r.logger.DebugContext(ctx, "Gemini response received",
		logger.StringField("model", model),
		logger.IntField("prompt_len", len(prompt)),
		logger.IntField("response_len", len(text)),
	)
	return text, nil
}
