package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CaseSignal/internal/model"
)

func row(cells ...string) model.RegionRow {
	labels := []string{"Lat", "Long", "1/22/20", "1/23/20", "1/24/20"}
	return model.RegionRow{Key: "Taiwan*", Labels: labels, Cells: append([]string{"23.7", "121.0"}, cells...)}
}

func TestClean_ClampsCorrectionDip(t *testing.T) {
	s, err := Clean(row("10", "8", "15"))
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	assert.Equal(t, []float64{0, 0, 7}, s.DailyValues())
	assert.Equal(t, 1, s.Corrections)
	assert.Equal(t, "Taiwan*", s.Region)
	assert.Equal(t, 8.0, s.Points[1].Accumulated)
}

func TestClean_ParsesDates(t *testing.T) {
	s, err := Clean(row("1", "1", "3"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 22, 0, 0, 0, 0, time.UTC), s.Points[0].Date)
	assert.Equal(t, time.Date(2020, 1, 24, 0, 0, 0, 0, time.UTC), s.Points[2].Date)
}

func TestClean_NonNegativeInvariant(t *testing.T) {
	s, err := Clean(row("5", "0", "3"))
	require.NoError(t, err)
	daily := s.DailyValues()
	assert.Equal(t, 0.0, daily[0])
	for i, d := range daily {
		assert.GreaterOrEqual(t, d, 0.0, "index %d", i)
	}
}

func TestClean_AcceptsFloatForm(t *testing.T) {
	s, err := Clean(row("1.0", "2.0", "4"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, s.DailyValues())
}

func TestClean_EmptySeries(t *testing.T) {
	_, err := Clean(model.RegionRow{Key: "X", Labels: []string{"Lat", "Long"}, Cells: []string{"1", "2"}})
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestClean_MalformedCount(t *testing.T) {
	for _, bad := range []string{"abc", "-3", "", "NaN"} {
		_, err := Clean(row("1", bad, "3"))
		assert.ErrorIs(t, err, ErrMalformedCount, "cell %q", bad)
	}
}
