// Package pipeline turns one region of a dataset snapshot into an
// IndicatorBundle: extract, clean, then MACD, RSI and moving-average overlays.
package pipeline

import (
	"errors"
	"fmt"

	"CaseSignal/internal/calculator"
	"CaseSignal/internal/collector"
	"CaseSignal/internal/model"
	"CaseSignal/internal/region"
)

// ErrNoSnapshot is returned before the first dataset load has finished.
var ErrNoSnapshot = errors.New("dataset not loaded")

// Params selects the indicator spans and lookbacks.
type Params struct {
	MACD       calculator.MACDParams
	RSILengths []int
	RSINeutral float64
	SMAWindows []int
	EMASpans   []int
}

// DefaultParams mirrors the dashboard: MACD 26/12/9, RSI 6 and 12, and
// 7/30/90/120-day overlays.
func DefaultParams() Params {
	return Params{
		MACD:       calculator.DefaultMACDParams(),
		RSILengths: []int{6, 12},
		RSINeutral: calculator.NeutralRSI,
		SMAWindows: []int{7, 30, 90, 120},
		EMASpans:   []int{7, 30, 90, 120},
	}
}

// Validate checks every period is positive and the neutral RSI is in range.
func (p Params) Validate() error {
	if err := p.MACD.Validate(); err != nil {
		return err
	}
	if len(p.RSILengths) == 0 {
		return errors.New("at least one rsi length is required")
	}
	for _, group := range [][]int{p.RSILengths, p.SMAWindows, p.EMASpans} {
		for _, v := range group {
			if v < 1 {
				return fmt.Errorf("%w: %d", calculator.ErrInvalidPeriod, v)
			}
		}
	}
	if p.RSINeutral < 0 || p.RSINeutral > 100 {
		return fmt.Errorf("rsi neutral value %v outside [0,100]", p.RSINeutral)
	}
	return nil
}

// Engine runs the pipeline against a snapshot. It holds no per-request state.
type Engine struct {
	Extractor *region.Extractor
}

// NewEngine creates an Engine with the given region extractor.
func NewEngine(ex *region.Extractor) *Engine {
	if ex == nil {
		ex = region.NewExtractor("", "")
	}
	return &Engine{Extractor: ex}
}

// Regions lists the composite region keys of the snapshot in row order.
func (e *Engine) Regions(snap *collector.Snapshot) ([]string, error) {
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return e.Extractor.ListRegionKeys(snap.Dataset())
}

// Run computes the full indicator bundle for one region.
func (e *Engine) Run(snap *collector.Snapshot, key string, p Params) (*model.IndicatorBundle, error) {
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	row, err := e.Extractor.Extract(snap.Dataset(), key)
	if err != nil {
		return nil, err
	}
	series, err := calculator.Clean(row)
	if err != nil {
		return nil, err
	}
	daily := series.DailyValues()
	n := len(daily)

	bundle := &model.IndicatorBundle{
		Region:     key,
		SnapshotID: snap.ID,
		Series:     series,
	}
	if series.Corrections > 0 {
		bundle.Warnings = append(bundle.Warnings,
			fmt.Sprintf("%d negative daily changes clamped to 0", series.Corrections))
	}

	macd, err := calculator.CalculateMACD(daily, p.MACD)
	if err != nil {
		return nil, fmt.Errorf("macd: %w", err)
	}
	bundle.MACDLine = model.Full(macd.Line)
	bundle.MACDSignal = model.Full(macd.Signal)
	bundle.MACDHistogram = model.Full(macd.Histogram)

	for _, l := range p.RSILengths {
		rsi, err := calculator.CalculateRSI(daily, l, p.RSINeutral)
		if err != nil {
			return nil, fmt.Errorf("rsi %d: %w", l, err)
		}
		rs := model.RSISeries{
			Length:      l,
			Values:      model.Aligned(rsi.Values, rsi.Offset, n),
			Substituted: len(rsi.Substituted),
		}
		bundle.RSI = append(bundle.RSI, rs)
		if rs.Substituted > 0 {
			bundle.Warnings = append(bundle.Warnings,
				fmt.Sprintf("%s: %d windows without activity set to %g", rs.Name(), rs.Substituted, p.RSINeutral))
		}
	}

	for _, w := range p.SMAWindows {
		s, err := calculator.RollingSMA(daily, w)
		if err != nil {
			return nil, fmt.Errorf("sma %d: %w", w, err)
		}
		bundle.SMA = append(bundle.SMA, model.Overlay{Kind: "sma", Window: w, Values: s})
	}
	for _, span := range p.EMASpans {
		s, err := calculator.EMAOverlay(daily, span)
		if err != nil {
			return nil, fmt.Errorf("ema %d: %w", span, err)
		}
		bundle.EMA = append(bundle.EMA, model.Overlay{Kind: "ema", Window: span, Values: s})
	}

	return bundle, nil
}
