package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CaseSignal/internal/recorder"
)

const sampleCSV = `Province/State,Country/Region,Lat,Long,1/22/20,1/23/20,1/24/20
,Afghanistan,33.93911,67.709953,0,0,0
Australian Capital Territory,Australia,-35.4735,149.0124,0,0,1
,Taiwan*,23.7,121.0,1,1,3
`

func TestParseCSV(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, "Province/State", ds.Header[0])
	assert.Equal(t, 1, ds.ColumnIndex("Country/Region"))
	assert.Equal(t, "Taiwan*", ds.Records[2][1])
}

func TestParseCSV_StripsBOM(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader("\ufeff" + sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.ColumnIndex("Province/State"))
}

func TestParseCSV_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"no dates":   "Country/Region,Lat\nX,1\n",
		"ragged":     "Country/Region,1/22/20,1/23/20\nX,1\n",
		"unordered":  "Country/Region,1/23/20,1/22/20\nX,1,2\n",
		"duplicated": "Country/Region,1/22/20,1/22/20\nX,1,2\n",
	}
	for name, in := range cases {
		_, err := ParseCSV(strings.NewReader(in))
		assert.ErrorIs(t, err, ErrMalformedDataset, name)
	}
}

func TestCollector_Collect(t *testing.T) {
	f := &MockFetcher{Body: []byte(sampleCSV)}
	c := NewCollector(f, nil)
	snap, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "mock://dataset", snap.Source)
	assert.False(t, snap.FromCache)
	assert.Equal(t, 3, snap.Dataset().Len())
	assert.Equal(t, 1, f.Calls())
}

func TestCollector_FallsBackToCache(t *testing.T) {
	cache, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	defer cache.Close()

	f := &MockFetcher{Body: []byte(sampleCSV)}
	c := NewCollector(f, cache)
	first, err := c.Collect(context.Background())
	require.NoError(t, err)

	f.Err = errors.New("network down")
	second, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Dataset().Records, second.Dataset().Records)
}

func TestCollector_NoCacheFails(t *testing.T) {
	c := NewCollector(&MockFetcher{Err: errors.New("network down")}, nil)
	_, err := c.Collect(context.Background())
	assert.ErrorContains(t, err, "network down")
}

func TestCollector_ParseError(t *testing.T) {
	c := NewCollector(&MockFetcher{Body: []byte("a,b\n1,2\n")}, nil)
	_, err := c.Collect(context.Background())
	assert.ErrorIs(t, err, ErrMalformedDataset)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data.csv" {
			http.Error(w, "missing", http.StatusNotFound)
			return
		}
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	body, err := NewHTTPFetcher(srv.URL+"/data.csv", "", 0).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(body))

	_, err = NewHTTPFetcher(srv.URL+"/other.csv", "", 0).Fetch(context.Background())
	assert.ErrorContains(t, err, "status 404")
}

func TestFileFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confirmed.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	f := NewFileFetcher(path)
	body, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(body))
	assert.Equal(t, path, f.Source())

	_, err = NewFileFetcher(filepath.Join(t.TempDir(), "missing.csv")).Fetch(context.Background())
	assert.Error(t, err)
}

func TestHolder(t *testing.T) {
	var h Holder
	assert.Nil(t, h.Current())
	s := NewSnapshot(nil, "x", time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), false)
	h.Store(s)
	assert.Same(t, s, h.Current())
}
