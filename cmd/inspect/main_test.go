package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CaseSignal/internal/collector"
	"CaseSignal/internal/model"
	"CaseSignal/internal/pipeline"
	"CaseSignal/internal/region"
)

func TestPrintBundle(t *testing.T) {
	csv := "Province/State,Country/Region,Lat,Long,1/22/20,1/23/20,1/24/20,1/25/20\n,Taiwan*,23.7,121.0,5,3,3,10\n"
	ds, err := collector.ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	snap := collector.NewSnapshot(ds, "test", time.Now(), false)

	p := pipeline.DefaultParams()
	p.RSILengths = []int{2}
	b, err := pipeline.NewEngine(region.NewExtractor("", "")).Run(snap, "Taiwan*", p)
	require.NoError(t, err)

	var buf bytes.Buffer
	printBundle(&buf, b, 2)
	out := buf.String()

	assert.Contains(t, out, "Taiwan*")
	assert.Contains(t, out, "rsi_2")
	assert.Contains(t, out, "2020-01-25")
	assert.NotContains(t, out, "2020-01-23")
	assert.Contains(t, out, "warning: 1 negative daily changes clamped to 0")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "-", format(model.Value{}))
	assert.Equal(t, "1.50", format(model.Some(1.5)))
}
