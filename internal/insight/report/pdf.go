package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/internal/insight/config"
	"golang-stock-insight/pkg/logger"
)

// Assembler produces the paginated report document. A returned error means
// no file was kept: the output is all-or-nothing.
type Assembler interface {
	Assemble(sections []entity.AnalysisSection, priceChartPath, volumeChartPath, outputPath, title string) (string, error)
}

// PDFAssembler renders sections and charts into an A4 PDF with a manual
// pagination cursor.
type PDFAssembler struct {
	cfg *config.Config
	log *logger.Logger
}

// NewPDFAssembler creates a new PDFAssembler.
func NewPDFAssembler(cfg *config.Config, log *logger.Logger) *PDFAssembler {
	return &PDFAssembler{cfg: cfg, log: log}
}

// Assemble lays out the title, every section (header line plus its body
// wrapped strictly every WrapWidth runes) and a final chart page, breaking
// to a new page whenever the cursor crosses the bottom margin. On any
// rendering or encoding error the partial file is removed and the error
// returned.
func (a *PDFAssembler) Assemble(sections []entity.AnalysisSection, priceChartPath, volumeChartPath, outputPath, title string) (string, error) {
	rep := a.cfg.Report

	pdf := fpdf.New("P", "pt", "A4", "")
	font := "Arial"
	if rep.FontPath != "" {
		pdf.AddUTF8Font("unicode", "", rep.FontPath)
		font = "unicode"
	}
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont(font, "", 12)

	_, pageHeight := pdf.GetPageSize()
	y := rep.TopMargin

	newLine := func() {
		y += rep.LineHeight
		if y > pageHeight-rep.BottomMargin {
			pdf.AddPage()
			pdf.SetFont(font, "", 12)
			y = rep.TopMargin
		}
	}

	pdf.Text(50, y, title)
	newLine()
	newLine()

	for _, section := range sections {
		score := "-"
		if section.Score != nil {
			score = fmt.Sprintf("%d", *section.Score)
		}
		pdf.Text(50, y, fmt.Sprintf("%s (评分: %s)：", section.Label.Title(), score))
		newLine()

		for _, line := range WrapRunes(section.Text, rep.WrapWidth) {
			pdf.Text(70, y, line)
			newLine()
		}
		newLine()
	}

	// Chart page.
	pdf.AddPage()
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.ImageOptions(priceChartPath, 50, 80, 500, 300, false, opts, 0, "")
	pdf.ImageOptions(volumeChartPath, 50, 420, 500, 300, false, opts, 0, "")

	if pdf.Err() {
		a.log.Error("PDF assembly failed", logger.ErrorField(pdf.Error()))
		return "", fmt.Errorf("pdf assembly failed: %w", pdf.Error())
	}
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		os.Remove(outputPath)
		a.log.Error("PDF output failed", logger.ErrorField(err))
		return "", fmt.Errorf("pdf output failed: %w", err)
	}
	return outputPath, nil
}

// WrapRunes splits s into chunks of exactly width runes. The wrap is not
// word-aware: it counts runes so CJK text wraps at the same visual width as
// the original fixed-width layout. Newlines are flattened to spaces first.
func WrapRunes(s string, width int) []string {
	if width <= 0 {
		width = 1
	}
	runes := []rune(strings.ReplaceAll(s, "\n", " "))
	var lines []string
	for start := 0; start < len(runes); start += width {
		end := start + width
		if end > len(runes) {
			end = len(runes)
		}
		lines = append(lines, string(runes[start:end]))
	}
	return lines
}
