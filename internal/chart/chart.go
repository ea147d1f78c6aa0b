// Package chart renders an IndicatorBundle as an interactive ECharts page.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"CaseSignal/internal/model"
)

// Kind selects which chart to draw.
type Kind string

const (
	KindLine Kind = "line"
	KindSMA  Kind = "sma"
	KindEMA  Kind = "ema"
	KindMACD Kind = "macd"
	KindRSI  Kind = "rsi"
)

var ErrUnknownKind = errors.New("unknown chart type")

var titles = map[Kind]string{
	KindLine: "Daily confirmed cases",
	KindSMA:  "Simple Moving Average",
	KindEMA:  "Exponential Moving Average",
	KindMACD: "MACD",
	KindRSI:  "Relative Strength Index",
}

// ParseKind accepts the chart names case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := titles[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Kinds lists the supported chart types in dashboard order.
func Kinds() []Kind {
	return []Kind{KindLine, KindSMA, KindEMA, KindMACD, KindRSI}
}

// Render writes a standalone HTML page with the requested chart.
func Render(w io.Writer, b *model.IndicatorBundle, kind Kind) error {
	if b == nil || b.Series == nil {
		return errors.New("chart: empty bundle")
	}
	title, ok := titles[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title + " - " + b.Region,
			Theme:     types.ThemeChalk,
			Width:     "100%",
			Height:    "800px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: b.Region}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(dateLabels(b.Series))

	switch kind {
	case KindLine:
		line.AddSeries("daily", points(model.Full(b.Series.DailyValues())))
	case KindSMA:
		for _, o := range b.SMA {
			line.AddSeries(fmt.Sprintf("%d days", o.Window), points(o.Values))
		}
	case KindEMA:
		for _, o := range b.EMA {
			line.AddSeries(fmt.Sprintf("%d days", o.Window), points(o.Values))
		}
	case KindMACD:
		line.AddSeries("MACD", points(b.MACDLine))
		line.AddSeries("Signal", points(b.MACDSignal))
		line.AddSeries("Histogram", points(b.MACDHistogram),
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dotted"}))
	case KindRSI:
		for _, r := range b.RSI {
			line.AddSeries(fmt.Sprintf("RSI %d Day", r.Length), points(r.Values))
		}
	}
	return line.Render(w)
}

func dateLabels(s *model.DailySeries) []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date.Format("2006-01-02")
	}
	return out
}

// points maps undefined entries to "-", which ECharts draws as a gap.
func points(s model.Series) []opts.LineData {
	out := make([]opts.LineData, len(s))
	for i, v := range s {
		if v.Valid {
			out[i] = opts.LineData{Value: v.V}
		} else {
			out[i] = opts.LineData{Value: "-"}
		}
	}
	return out
}
