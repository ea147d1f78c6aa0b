package calculator

import "fmt"

// EMA computes the recursive exponential moving average with
// alpha = 2/(span+1), seeded with the first value. Every output index is
// defined, so there is no warm-up gap.
func EMA(values []float64, span int) ([]float64, error) {
	if span < 1 {
		return nil, fmt.Errorf("%w: span %d", ErrInvalidPeriod, span)
	}
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, nil
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}

// AdjustedEMA is the bias-corrected EMA: each output is the weighted mean of
// all values so far with weights (1-alpha)^age. It converges to EMA as the
// series grows but is less anchored to the first value.
func AdjustedEMA(values []float64, span int) ([]float64, error) {
	if span < 1 {
		return nil, fmt.Errorf("%w: span %d", ErrInvalidPeriod, span)
	}
	out := make([]float64, len(values))
	decay := 1 - 2.0/float64(span+1)
	var num, den float64
	for i, v := range values {
		num = v + decay*num
		den = 1 + decay*den
		out[i] = num / den
	}
	return out, nil
}
