package calculator

import "errors"

var (
	// ErrEmptySeries means a row has no date columns left after dropping
	// metadata columns, or an indicator was asked to run on no data.
	ErrEmptySeries = errors.New("empty series")

	// ErrMalformedCount means a date column holds something other than a
	// non-negative count.
	ErrMalformedCount = errors.New("malformed count")

	// ErrInvalidPeriod means a span, window or lookback below 1.
	ErrInvalidPeriod = errors.New("period must be positive")
)
