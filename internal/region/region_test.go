package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CaseSignal/internal/model"
)

func dataset() *model.RawDataset {
	return &model.RawDataset{
		Header: []string{"Province/State", "Country/Region", "Lat", "Long", "1/22/20", "1/23/20"},
		Records: [][]string{
			{"", "Afghanistan", "33.9", "67.7", "0", "0"},
			{"Australian Capital Territory", "Australia", "-35.4", "149.0", "0", "1"},
			{"", "Taiwan*", "23.7", "121.0", "1", "1"},
		},
	}
}

func TestMergeKey(t *testing.T) {
	assert.Equal(t, "Country", MergeKey("Country", ""))
	assert.Equal(t, "Country Province", MergeKey("Country", "Province"))
}

func TestListRegionKeys(t *testing.T) {
	keys, err := NewExtractor("", "").ListRegionKeys(dataset())
	require.NoError(t, err)
	assert.Equal(t, []string{"Afghanistan", "Australia Australian Capital Territory", "Taiwan*"}, keys)
}

func TestExtract(t *testing.T) {
	row, err := NewExtractor("", "").Extract(dataset(), "Taiwan*")
	require.NoError(t, err)
	assert.Equal(t, "Taiwan*", row.Key)
	assert.Equal(t, []string{"Lat", "Long", "1/22/20", "1/23/20"}, row.Labels)
	assert.Equal(t, []string{"23.7", "121.0", "1", "1"}, row.Cells)
}

func TestExtract_ExactMatchOnly(t *testing.T) {
	ex := NewExtractor("", "")
	for _, key := range []string{"taiwan*", "Taiwan* ", "Australia"} {
		_, err := ex.Extract(dataset(), key)
		assert.ErrorIs(t, err, ErrRegionNotFound, key)
	}
}

func TestExtract_RoundTrip(t *testing.T) {
	ds := dataset()
	ex := NewExtractor("", "")
	keys, err := ex.ListRegionKeys(ds)
	require.NoError(t, err)
	for _, k := range keys {
		_, err := ex.Extract(ds, k)
		assert.NotErrorIs(t, err, ErrRegionNotFound, k)
	}
}

func TestExtract_Ambiguous(t *testing.T) {
	ds := dataset()
	ds.Records = append(ds.Records, []string{"", "Taiwan*", "0", "0", "5", "6"})
	ex := NewExtractor("", "")

	_, err := ex.Extract(ds, "Taiwan*")
	assert.ErrorIs(t, err, ErrAmbiguousRegion)

	rows, err := ex.ExtractAll(ds, "Taiwan*")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	keys, err := ex.ListRegionKeys(ds)
	require.NoError(t, err)
	assert.Len(t, keys, 4)
}

func TestExtract_NoSubColumn(t *testing.T) {
	ds := &model.RawDataset{
		Header:  []string{"Country/Region", "1/22/20"},
		Records: [][]string{{"Japan", "2"}},
	}
	ex := NewExtractor("", "")
	keys, err := ex.ListRegionKeys(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"Japan"}, keys)

	row, err := ex.Extract(ds, "Japan")
	require.NoError(t, err)
	assert.Equal(t, []string{"1/22/20"}, row.Labels)
}

func TestExtract_DoesNotAliasDataset(t *testing.T) {
	ds := dataset()
	row, err := NewExtractor("", "").Extract(ds, "Afghanistan")
	require.NoError(t, err)
	row.Cells[2] = "999"
	assert.Equal(t, "0", ds.Records[0][4])
}

func TestExtract_MissingPrimaryColumn(t *testing.T) {
	_, err := NewExtractor("Region", "").ListRegionKeys(dataset())
	assert.ErrorIs(t, err, ErrNoPrimaryColumn)
}
