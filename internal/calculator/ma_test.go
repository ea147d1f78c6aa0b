package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingSMA(t *testing.T) {
	s, err := RollingSMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	require.Len(t, s, 5)
	assert.False(t, s[0].Valid)
	assert.False(t, s[1].Valid)
	assert.InDelta(t, 2.0, s[2].V, 1e-9)
	assert.InDelta(t, 3.0, s[3].V, 1e-9)
	assert.InDelta(t, 4.0, s[4].V, 1e-9)
}

func TestRollingSMA_ShorterThanWindow(t *testing.T) {
	s, err := RollingSMA([]float64{1, 2}, 7)
	require.NoError(t, err)
	require.Len(t, s, 2)
	for _, v := range s {
		assert.False(t, v.Valid)
	}
}

func TestRollingSMA_InvalidWindow(t *testing.T) {
	_, err := RollingSMA([]float64{1}, 0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestEMAOverlay_FullyDefined(t *testing.T) {
	s, err := EMAOverlay([]float64{4, 0, 2}, 7)
	require.NoError(t, err)
	for _, v := range s {
		assert.True(t, v.Valid)
	}
	assert.Equal(t, 4.0, s[0].V)
}
