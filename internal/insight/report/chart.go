package report

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/common"
)

// Indicators holds the derived series plotted alongside the raw bars.
// Entries are NaN until their rolling window has filled.
type Indicators struct {
	MA5, MA10, MA20, MA60 []float64
	BollUpper, BollLower  []float64
	VolMA5, VolMA10       []float64
	VolMA20, VolMA60      []float64
}

// ComputeIndicators derives moving averages and Bollinger bands from bars.
func ComputeIndicators(bars []entity.DailyBar) *Indicators {
	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	ma20 := rollingMean(closes, 20)
	std20 := rollingStd(closes, 20)
	upper := make([]float64, len(bars))
	lower := make([]float64, len(bars))
	for i := range bars {
		upper[i] = ma20[i] + 2*std20[i]
		lower[i] = ma20[i] - 2*std20[i]
	}

	return &Indicators{
		MA5:       rollingMean(closes, 5),
		MA10:      rollingMean(closes, 10),
		MA20:      ma20,
		MA60:      rollingMean(closes, 60),
		BollUpper: upper,
		BollLower: lower,
		VolMA5:    rollingMean(volumes, 5),
		VolMA10:   rollingMean(volumes, 10),
		VolMA20:   rollingMean(volumes, 20),
		VolMA60:   rollingMean(volumes, 60),
	}
}

func rollingMean(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		out[i] = math.NaN()
		if i+1 < window {
			continue
		}
		sum := 0.0
		ok := true
		for j := i + 1 - window; j <= i; j++ {
			if math.IsNaN(vals[j]) {
				ok = false
				break
			}
			sum += vals[j]
		}
		if ok {
			out[i] = sum / float64(window)
		}
	}
	return out
}

func rollingStd(vals []float64, window int) []float64 {
	means := rollingMean(vals, window)
	out := make([]float64, len(vals))
	for i := range out {
		out[i] = math.NaN()
		if i+1 < window || math.IsNaN(means[i]) {
			continue
		}
		sum := 0.0
		for j := i + 1 - window; j <= i; j++ {
			d := vals[j] - means[i]
			sum += d * d
		}
		// Sample standard deviation, matching the indicator convention.
		out[i] = math.Sqrt(sum / float64(window-1))
	}
	return out
}

// EmptySeries builds an all-missing calendar series spanning [startDate,
// endDate] for when the market-data provider returned nothing.
func EmptySeries(startDate, endDate string) []entity.DailyBar {
	start, err := time.Parse(common.DateLayoutCompact, startDate)
	if err != nil {
		return nil
	}
	end, err := time.Parse(common.DateLayoutCompact, endDate)
	if err != nil || end.Before(start) {
		return nil
	}
	var bars []entity.DailyBar
	nan := math.NaN()
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		bars = append(bars, entity.DailyBar{Date: d, Open: nan, High: nan, Low: nan, Close: nan, Volume: nan})
	}
	return bars
}

// RenderPriceChart renders the closing-price chart with moving averages and
// Bollinger bands. Returns raw PNG bytes. A series with no plottable points
// degrades to a flat zero line so the artifact always exists.
func RenderPriceChart(stockName string, bars []entity.DailyBar, ind *Indicators) ([]byte, error) {
	dates := barDates(bars)
	closes := barValues(bars, func(b entity.DailyBar) float64 { return b.Close })

	series := []chart.Series{}
	appendSeries := func(name, hex string, dashed bool, vals []float64) {
		if s, ok := timeSeries(name, hex, dashed, dates, vals); ok {
			series = append(series, s)
		}
	}
	appendSeries("收盘价", "000000", false, closes)
	appendSeries("MA5", "e63946", false, ind.MA5)
	appendSeries("MA10", "f4a261", false, ind.MA10)
	appendSeries("MA20", "2a9d8f", false, ind.MA20)
	appendSeries("MA60", "7b2cbf", false, ind.MA60)
	appendSeries("BOLL上轨", "8d99ae", true, ind.BollUpper)
	appendSeries("BOLL下轨", "8d99ae", true, ind.BollLower)

	return renderChart(fmt.Sprintf("%s 收盘价走势", stockName), 900, 500, dates, series)
}

// RenderVolumeChart renders the trading-volume chart with volume moving
// averages. Returns raw PNG bytes.
func RenderVolumeChart(stockName string, bars []entity.DailyBar, ind *Indicators) ([]byte, error) {
	dates := barDates(bars)
	volumes := barValues(bars, func(b entity.DailyBar) float64 { return b.Volume })

	series := []chart.Series{}
	appendSeries := func(name, hex string, vals []float64) {
		if s, ok := timeSeries(name, hex, false, dates, vals); ok {
			series = append(series, s)
		}
	}
	appendSeries("成交量", "457b9d", volumes)
	appendSeries("MA5", "f4a261", ind.VolMA5)
	appendSeries("MA10", "7b2cbf", ind.VolMA10)
	appendSeries("MA20", "9c6644", ind.VolMA20)
	appendSeries("MA60", "1d3557", ind.VolMA60)

	return renderChart(fmt.Sprintf("%s 成交量", stockName), 900, 350, dates, series)
}

func renderChart(title string, width, height int, dates []time.Time, series []chart.Series) ([]byte, error) {
	if len(series) == 0 {
		series = []chart.Series{flatSeries(dates)}
	}

	graph := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("2006-01")
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// timeSeries filters out NaN points and reports whether enough remain to be
// worth plotting.
func timeSeries(name, hex string, dashed bool, dates []time.Time, vals []float64) (chart.TimeSeries, bool) {
	var xs []time.Time
	var ys []float64
	for i, v := range vals {
		if i < len(dates) && !math.IsNaN(v) {
			xs = append(xs, dates[i])
			ys = append(ys, v)
		}
	}
	if len(xs) < 2 {
		return chart.TimeSeries{}, false
	}

	style := chart.Style{
		StrokeColor: drawing.ColorFromHex(hex),
		StrokeWidth: 1.5,
	}
	if dashed {
		style.StrokeDashArray = []float64{5.0, 3.0}
	}
	return chart.TimeSeries{Name: name, Style: style, XValues: xs, YValues: ys}, true
}

// flatSeries spans the requested range with zeros so an all-missing market
// series still produces a chart file.
func flatSeries(dates []time.Time) chart.TimeSeries {
	if len(dates) < 2 {
		now := time.Now()
		dates = []time.Time{now.AddDate(0, 0, -1), now}
	}
	xs := []time.Time{dates[0], dates[len(dates)-1]}
	return chart.TimeSeries{
		Name:    "无数据",
		Style:   chart.Style{StrokeColor: drawing.ColorFromHex("9ca3af")},
		XValues: xs,
		YValues: []float64{0, 0},
	}
}

func barDates(bars []entity.DailyBar) []time.Time {
	dates := make([]time.Time, len(bars))
	for i, b := range bars {
		dates[i] = b.Date
	}
	return dates
}

func barValues(bars []entity.DailyBar, f func(entity.DailyBar) float64) []float64 {
	vals := make([]float64, len(bars))
	for i, b := range bars {
		vals[i] = f(b)
	}
	return vals
}
