package calculator

import "fmt"

const (
	// DefaultRSILength is the conventional lookback.
	DefaultRSILength = 14

	// NeutralRSI replaces 0/0 for windows with neither gains nor losses.
	NeutralRSI = 50.0
)

// RSIResult is an RSI series of length max(0, n-Length). Values[k] belongs
// to date index Offset+k of the input.
type RSIResult struct {
	Length int
	Offset int
	Values []float64
	// Substituted lists the date indices whose window had no activity and
	// therefore carry the neutral value instead of a ratio.
	Substituted []int
}

// CalculateRSI computes RSI from simple rolling means of gains and losses
// over the trailing length changes (no Wilder smoothing). The value at date
// j uses the changes at j-length+1..j; the first length dates are undefined.
func CalculateRSI(values []float64, length int, neutral float64) (*RSIResult, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: rsi length %d", ErrInvalidPeriod, length)
	}
	res := &RSIResult{Length: length, Offset: length, Values: []float64{}}
	n := len(values)
	if n <= length {
		return res, nil
	}

	// Index 0 has no prior day and stays zero in both.
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		chg := values[i] - values[i-1]
		if chg > 0 {
			gains[i] = chg
		} else if chg < 0 {
			losses[i] = -chg
		}
	}

	res.Values = make([]float64, 0, n-length)
	for j := length; j < n; j++ {
		var avgGain, avgLoss float64
		for k := j - length + 1; k <= j; k++ {
			avgGain += gains[k]
			avgLoss += losses[k]
		}
		avgGain /= float64(length)
		avgLoss /= float64(length)

		if avgGain+avgLoss == 0 {
			res.Values = append(res.Values, neutral)
			res.Substituted = append(res.Substituted, j)
			continue
		}
		res.Values = append(res.Values, 100*avgGain/(avgGain+avgLoss))
	}
	return res, nil
}
