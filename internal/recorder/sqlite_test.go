package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_DatasetRoundTrip(t *testing.T) {
	r := openTemp(t)
	at := time.Unix(1700000000, 0)

	require.NoError(t, r.SaveDataset("file.csv", []byte("a,b\n1,2\n"), at))
	body, got, err := r.LoadDataset("file.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(body))
	assert.Equal(t, at.Unix(), got.Unix())

	require.NoError(t, r.SaveDataset("file.csv", []byte("new"), at.Add(time.Hour)))
	body, got, err = r.LoadDataset("file.csv")
	require.NoError(t, err)
	assert.Equal(t, "new", string(body))
	assert.Equal(t, at.Add(time.Hour).Unix(), got.Unix())
}

func TestSQLiteRecorder_MissingDataset(t *testing.T) {
	r := openTemp(t)
	_, _, err := r.LoadDataset("nope")
	assert.ErrorIs(t, err, ErrNoCachedDataset)
}

func TestSQLiteRecorder_RecordLoad(t *testing.T) {
	r := openTemp(t)
	require.NoError(t, r.RecordLoad(&LoadEvent{SnapshotID: "x", Source: "s", Trigger: "STARTUP", Rows: 3}))
	require.NoError(t, r.RecordLoad(&LoadEvent{Source: "s", Trigger: "SCHEDULED", Err: "boom"}))
	n, err := r.LoadCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoopRecorder()
	assert.NoError(t, n.SaveDataset("s", nil, time.Now()))
	_, _, err := n.LoadDataset("s")
	assert.ErrorIs(t, err, ErrNoCachedDataset)
}
