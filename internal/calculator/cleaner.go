package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"CaseSignal/internal/model"
)

// DateLayout is the column label format of the source dataset (M/D/YY).
const DateLayout = "1/2/06"

// ParseDate parses a date column label.
func ParseDate(label string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(label))
}

// Clean turns a region row into a daily series. Columns whose label is not a
// date (coordinates and other metadata) are dropped. The first day's
// increment is 0 and negative increments from data corrections are clamped
// to 0.
func Clean(row model.RegionRow) (*model.DailySeries, error) {
	series := &model.DailySeries{Region: row.Key}
	for i, label := range row.Labels {
		date, err := ParseDate(label)
		if err != nil {
			continue
		}
		var cell string
		if i < len(row.Cells) {
			cell = row.Cells[i]
		}
		acc, err := parseCount(cell)
		if err != nil {
			return nil, fmt.Errorf("%w: region %q column %q value %q", ErrMalformedCount, row.Key, label, cell)
		}
		series.Points = append(series.Points, model.DailyPoint{Date: date, Accumulated: acc})
	}
	if len(series.Points) == 0 {
		return nil, fmt.Errorf("region %q: %w", row.Key, ErrEmptySeries)
	}

	pts := series.Points
	for i := 1; i < len(pts); i++ {
		d := pts[i].Accumulated - pts[i-1].Accumulated
		if d < 0 {
			d = 0
			series.Corrections++
		}
		pts[i].Daily = d
	}
	return series, nil
}

func parseCount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("count out of range: %v", v)
	}
	return v, nil
}
