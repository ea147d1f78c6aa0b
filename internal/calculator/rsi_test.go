package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRSI_Length(t *testing.T) {
	values := []float64{1, 3, 2, 5, 4, 4, 8}
	for _, l := range []int{1, 3, 6, 7, 10} {
		res, err := CalculateRSI(values, l, NeutralRSI)
		require.NoError(t, err)
		want := len(values) - l
		if want < 0 {
			want = 0
		}
		assert.Len(t, res.Values, want, "length %d", l)
		assert.Equal(t, l, res.Offset)
	}
}

func TestCalculateRSI_ZeroActivityIsNeutral(t *testing.T) {
	res, err := CalculateRSI([]float64{0, 0, 0}, 1, NeutralRSI)
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 50}, res.Values)
	assert.Equal(t, []int{1, 2}, res.Substituted)
}

func TestCalculateRSI_ConstantZeroNeverNaN(t *testing.T) {
	values := make([]float64, 30)
	res, err := CalculateRSI(values, 14, NeutralRSI)
	require.NoError(t, err)
	require.Len(t, res.Values, 16)
	for _, v := range res.Values {
		assert.Equal(t, NeutralRSI, v)
	}
}

func TestCalculateRSI_CustomNeutral(t *testing.T) {
	res, err := CalculateRSI([]float64{7, 7, 7, 7}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, res.Values)
}

func TestCalculateRSI_SimpleRollingMean(t *testing.T) {
	// changes: +2, -1, +3, -1
	values := []float64{1, 3, 2, 5, 4}
	res, err := CalculateRSI(values, 2, NeutralRSI)
	require.NoError(t, err)
	require.Len(t, res.Values, 3)

	// date 2: changes +2,-1 -> gain 1, loss 0.5
	assert.InDelta(t, 100*1.0/1.5, res.Values[0], 1e-9)
	// date 3: changes -1,+3 -> gain 1.5, loss 0.5
	assert.InDelta(t, 75.0, res.Values[1], 1e-9)
	// date 4: changes +3,-1 -> gain 1.5, loss 0.5
	assert.InDelta(t, 75.0, res.Values[2], 1e-9)
	assert.Empty(t, res.Substituted)
}

func TestCalculateRSI_Bounds(t *testing.T) {
	up := []float64{1, 2, 3, 4, 5}
	res, err := CalculateRSI(up, 2, NeutralRSI)
	require.NoError(t, err)
	for _, v := range res.Values {
		assert.Equal(t, 100.0, v)
	}
	down := []float64{5, 4, 3, 2, 1}
	res, err = CalculateRSI(down, 2, NeutralRSI)
	require.NoError(t, err)
	for _, v := range res.Values {
		assert.Equal(t, 0.0, v)
	}
}

func TestCalculateRSI_InvalidLength(t *testing.T) {
	_, err := CalculateRSI([]float64{1, 2}, 0, NeutralRSI)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
