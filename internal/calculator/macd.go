package calculator

import "fmt"

// Conventional MACD spans.
const (
	DefaultMACDLong   = 26
	DefaultMACDShort  = 12
	DefaultMACDSignal = 9
)

// MACDParams are the three EMA spans of a MACD.
type MACDParams struct {
	Long   int `yaml:"macd_long" json:"long"`
	Short  int `yaml:"macd_short" json:"short"`
	Signal int `yaml:"macd_signal" json:"signal"`
}

// DefaultMACDParams returns 26/12/9.
func DefaultMACDParams() MACDParams {
	return MACDParams{Long: DefaultMACDLong, Short: DefaultMACDShort, Signal: DefaultMACDSignal}
}

// Validate checks all spans are positive.
func (p MACDParams) Validate() error {
	if p.Long < 1 || p.Short < 1 || p.Signal < 1 {
		return fmt.Errorf("%w: macd spans %d/%d/%d", ErrInvalidPeriod, p.Long, p.Short, p.Signal)
	}
	return nil
}

// MACDResult holds the three MACD series, each as long as the input.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// CalculateMACD computes line = EMA(short) - EMA(long), signal = EMA(line)
// and histogram = line - signal.
func CalculateMACD(values []float64, p MACDParams) (*MACDResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("macd: %w", ErrEmptySeries)
	}

	emaLong, err := EMA(values, p.Long)
	if err != nil {
		return nil, err
	}
	emaShort, err := EMA(values, p.Short)
	if err != nil {
		return nil, err
	}

	line := make([]float64, len(values))
	for i := range values {
		line[i] = emaShort[i] - emaLong[i]
	}
	signal, err := EMA(line, p.Signal)
	if err != nil {
		return nil, err
	}
	hist := make([]float64, len(values))
	for i := range line {
		hist[i] = line[i] - signal[i]
	}
	return &MACDResult{Line: line, Signal: signal, Histogram: hist}, nil
}
