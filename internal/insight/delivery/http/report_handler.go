package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/internal/insight/dto"
	"golang-stock-insight/internal/insight/service"
	"golang-stock-insight/pkg/logger"
)

// ReportHandler handles HTTP requests for reports.
type ReportHandler struct {
	reportService service.ReportService
	logger        *logger.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, logger: logger}
}

// RegisterRoutes registers the report routes to the Echo group.
func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/reports", h.CreateReport)
}

// CreateReport interprets the free-text query and runs it through the full
// report pipeline synchronously. An unresolvable stock yields 422 with a
// message the caller can act on.
func (h *ReportHandler) CreateReport(c echo.Context) error {
	var req dto.CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if strings.TrimSpace(req.Query) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query is required"})
	}

	artifact, err := h.reportService.Submit(c.Request().Context(), req.Query)
	if err != nil {
		if errors.Is(err, service.ErrUnresolvedEntity) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "无法从查询中识别股票，请提供6位股票代码或准确的股票名称",
			})
		}
		h.logger.Error("Failed to create report", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create report"})
	}

	return c.JSON(http.StatusOK, toReportResponse(artifact))
}

func toReportResponse(artifact *entity.ReportArtifact) *dto.ReportResponse {
	sections := make([]dto.SectionResponse, 0, len(artifact.Sections))
	for _, s := range artifact.Sections {
		sections = append(sections, dto.SectionResponse{
			Label: string(s.Label),
			Title: s.Label.Title(),
			Text:  s.Text,
			Score: s.Score,
		})
	}
	q := artifact.Query
	return &dto.ReportResponse{
		Intent:          string(q.Intent),
		Symbol:          q.Symbol,
		DisplayName:     q.DisplayName,
		Industry:        q.Industry,
		StartDate:       q.StartDate,
		EndDate:         q.EndDate,
		Sections:        sections,
		PriceChartPath:  artifact.PriceChartPath,
		VolumeChartPath: artifact.VolumeChartPath,
		DataTablePath:   artifact.DataTablePath,
		DocumentPath:    artifact.DocumentPath,
		NewsMarkdown:    artifact.NewsMarkdown,
	}
}
