package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"golang-stock-insight/internal/entity"
)

var tableHeader = []string{
	"date", "open", "high", "low", "close", "volume",
	"ma5", "ma10", "ma20", "ma60",
	"boll_upper", "boll_lower",
	"vol_ma5", "vol_ma10", "vol_ma20", "vol_ma60",
}

// WriteCSV writes the bars plus computed indicator columns to path. Missing
// values become empty cells.
func WriteCSV(path string, bars []entity.DailyBar, ind *Indicators) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create data table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tableHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, b := range bars {
		row := []string{
			b.Date.Format("2006-01-02"),
			cell(b.Open), cell(b.High), cell(b.Low), cell(b.Close), cell(b.Volume),
			cell(ind.MA5[i]), cell(ind.MA10[i]), cell(ind.MA20[i]), cell(ind.MA60[i]),
			cell(ind.BollUpper[i]), cell(ind.BollLower[i]),
			cell(ind.VolMA5[i]), cell(ind.VolMA10[i]), cell(ind.VolMA20[i]), cell(ind.VolMA60[i]),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
