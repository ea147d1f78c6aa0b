package model

import "time"

// RawDataset is a parsed time-series table: one header row and one record
// per geographic area. Records share the header's column order.
type RawDataset struct {
	Header  []string
	Records [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (d *RawDataset) ColumnIndex(name string) int {
	for i, h := range d.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Len returns the number of records.
func (d *RawDataset) Len() int { return len(d.Records) }

// RegionRow is a single region's record with its composite key resolved and
// the key columns removed. Labels and Cells are parallel.
type RegionRow struct {
	Key    string
	Labels []string
	Cells  []string
}

// DailyPoint is one day of a cleaned series.
type DailyPoint struct {
	Date        time.Time `json:"date"`
	Accumulated float64   `json:"accumulated"`
	Daily       float64   `json:"daily"`
}

// DailySeries is a region's cumulative counts with derived daily increments.
type DailySeries struct {
	Region      string       `json:"region"`
	Points      []DailyPoint `json:"points"`
	Corrections int          `json:"corrections"` // negative deltas clamped to zero
}

func (s *DailySeries) Len() int { return len(s.Points) }

// DailyValues returns the daily increments in date order.
func (s *DailySeries) DailyValues() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Daily
	}
	return out
}

// Dates returns the date axis.
func (s *DailySeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}
