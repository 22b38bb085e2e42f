package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/internal/insight/dto"
	"golang-stock-insight/internal/insight/service"
	"golang-stock-insight/pkg/logger"
)

type fakeReportService struct {
	artifact *entity.ReportArtifact
	err      error
}

func (f *fakeReportService) Submit(context.Context, string) (*entity.ReportArtifact, error) {
	return f.artifact, f.err
}

func performCreate(t *testing.T, svc service.ReportService, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewReportHandler(svc, logger.NewNop())
	require.NoError(t, h.CreateReport(c))
	return rec
}

func TestCreateReport(t *testing.T) {
	score := 80
	artifact := &entity.ReportArtifact{
		Query: &entity.StructuredQuery{
			Intent:      entity.IntentAnalysis,
			Symbol:      "600519.SH",
			DisplayName: "贵州茅台",
			Industry:    "白酒",
			StartDate:   "20240101",
			EndDate:     "20240630",
		},
		Sections: []entity.AnalysisSection{
			{Label: entity.SectionFundamental, Text: "向好", Score: &score},
		},
		PriceChartPath: "tmp_reports/600519_SH_20240630_120000/price_chart.png",
		DocumentPath:   "tmp_reports/600519_SH_20240630_120000/600519_SH_报告.pdf",
	}

	rec := performCreate(t, &fakeReportService{artifact: artifact}, `{"query":"600519最近半年"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "analysis", resp.Intent)
	assert.Equal(t, "600519.SH", resp.Symbol)
	require.Len(t, resp.Sections, 1)
	assert.Equal(t, "fundamental", resp.Sections[0].Label)
	assert.Equal(t, "基本面分析", resp.Sections[0].Title)
	require.NotNil(t, resp.Sections[0].Score)
	assert.Equal(t, 80, *resp.Sections[0].Score)
	assert.NotEmpty(t, resp.DocumentPath)
}

func TestCreateReportUnresolved(t *testing.T) {
	rec := performCreate(t, &fakeReportService{err: service.ErrUnresolvedEntity}, `{"query":"不知名公司"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "无法从查询中识别股票")
}

func TestCreateReportEmptyQuery(t *testing.T) {
	rec := performCreate(t, &fakeReportService{}, `{"query":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReportInternalError(t *testing.T) {
	rec := performCreate(t, &fakeReportService{err: assert.AnError}, `{"query":"贵州茅台"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
