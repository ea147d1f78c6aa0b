package model

import (
	"fmt"
	"time"
)

// RSISeries is one RSI lookback aligned to the bundle's date axis.
type RSISeries struct {
	Length      int    `json:"length"`
	Values      Series `json:"values"`
	Substituted int    `json:"substituted"` // zero-activity windows given the neutral value
}

// Name is the column name used by the dashboard and exports, e.g. "rsi_6".
func (r RSISeries) Name() string { return fmt.Sprintf("rsi_%d", r.Length) }

// Overlay is a moving-average line drawn over the daily series.
type Overlay struct {
	Kind   string `json:"kind"` // "sma" or "ema"
	Window int    `json:"window"`
	Values Series `json:"values"`
}

func (o Overlay) Name() string { return fmt.Sprintf("%s_%d", o.Kind, o.Window) }

// IndicatorBundle holds all computed indicators for one region. Every series
// has the same length as Series.Points.
type IndicatorBundle struct {
	Region        string       `json:"region"`
	SnapshotID    string       `json:"snapshot_id,omitempty"`
	Series        *DailySeries `json:"series"`
	MACDLine      Series       `json:"macd_line"`
	MACDSignal    Series       `json:"macd_signal"`
	MACDHistogram Series       `json:"macd_histogram"`
	RSI           []RSISeries  `json:"rsi"`
	SMA           []Overlay    `json:"sma,omitempty"`
	EMA           []Overlay    `json:"ema,omitempty"`
	Warnings      []string     `json:"warnings,omitempty"`
}

// BundleRow is one date of a bundle, flattened for tables and exports.
type BundleRow struct {
	Date          time.Time        `json:"date"`
	Accumulated   float64          `json:"accumulated"`
	Daily         float64          `json:"daily"`
	MACDLine      Value            `json:"macd_line"`
	MACDSignal    Value            `json:"macd_signal"`
	MACDHistogram Value            `json:"macd_histogram"`
	RSI           map[string]Value `json:"rsi"`
}

// RSINames returns the RSI column names in bundle order.
func (b *IndicatorBundle) RSINames() []string {
	names := make([]string, len(b.RSI))
	for i, r := range b.RSI {
		names[i] = r.Name()
	}
	return names
}

// Rows flattens the bundle into one record per date.
func (b *IndicatorBundle) Rows() []BundleRow {
	if b.Series == nil {
		return nil
	}
	rows := make([]BundleRow, len(b.Series.Points))
	for i, p := range b.Series.Points {
		row := BundleRow{
			Date:          p.Date,
			Accumulated:   p.Accumulated,
			Daily:         p.Daily,
			MACDLine:      at(b.MACDLine, i),
			MACDSignal:    at(b.MACDSignal, i),
			MACDHistogram: at(b.MACDHistogram, i),
			RSI:           make(map[string]Value, len(b.RSI)),
		}
		for _, r := range b.RSI {
			row.RSI[r.Name()] = at(r.Values, i)
		}
		rows[i] = row
	}
	return rows
}

func at(s Series, i int) Value {
	if i < 0 || i >= len(s) {
		return Value{}
	}
	return s[i]
}

// Substitutions sums the neutral-value substitutions across all RSI series.
func (b *IndicatorBundle) Substitutions() int {
	n := 0
	for _, r := range b.RSI {
		n += r.Substituted
	}
	return n
}
