package calculator

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"CaseSignal/internal/model"
)

// RollingSMA computes the simple moving average over the given window. The
// first window-1 entries are undefined, as is every entry when the series is
// shorter than the window.
func RollingSMA(values []float64, window int) (model.Series, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: window %d", ErrInvalidPeriod, window)
	}
	if len(values) < window {
		return make(model.Series, len(values)), nil
	}
	sma := talib.Sma(values, window)
	return model.Aligned(sma[window-1:], window-1, len(values)), nil
}

// EMAOverlay is the dashboard's EMA line: the bias-corrected EMA, defined at
// every index.
func EMAOverlay(values []float64, span int) (model.Series, error) {
	ema, err := AdjustedEMA(values, span)
	if err != nil {
		return nil, err
	}
	return model.Full(ema), nil
}
