// Package region resolves composite region keys against a raw dataset.
package region

import (
	"errors"
	"fmt"

	"CaseSignal/internal/model"
)

// Default JHU CSSE column names.
const (
	DefaultPrimaryColumn = "Country/Region"
	DefaultSubColumn     = "Province/State"
)

var (
	ErrRegionNotFound  = errors.New("region not found")
	ErrAmbiguousRegion = errors.New("region key matches more than one row")
	ErrNoPrimaryColumn = errors.New("primary region column missing")
)

// Extractor merges the primary and sub-region columns of each row into a
// composite key.
type Extractor struct {
	PrimaryColumn string
	SubColumn     string
}

// NewExtractor returns an extractor for the given column names; empty names
// fall back to the JHU defaults.
func NewExtractor(primary, sub string) *Extractor {
	if primary == "" {
		primary = DefaultPrimaryColumn
	}
	if sub == "" {
		sub = DefaultSubColumn
	}
	return &Extractor{PrimaryColumn: primary, SubColumn: sub}
}

// MergeKey returns primary, or "primary sub" when sub is non-empty.
func MergeKey(primary, sub string) string {
	if sub == "" {
		return primary
	}
	return primary + " " + sub
}

type columns struct {
	primary, sub int
}

func (e *Extractor) resolve(ds *model.RawDataset) (columns, error) {
	c := columns{primary: ds.ColumnIndex(e.PrimaryColumn), sub: ds.ColumnIndex(e.SubColumn)}
	if c.primary < 0 {
		return c, fmt.Errorf("%w: %q", ErrNoPrimaryColumn, e.PrimaryColumn)
	}
	return c, nil
}

func (c columns) key(rec []string) string {
	var primary, sub string
	if c.primary < len(rec) {
		primary = rec[c.primary]
	}
	if c.sub >= 0 && c.sub < len(rec) {
		sub = rec[c.sub]
	}
	return MergeKey(primary, sub)
}

// ListRegionKeys returns one composite key per row in row order. Duplicates
// are kept.
func (e *Extractor) ListRegionKeys(ds *model.RawDataset) ([]string, error) {
	c, err := e.resolve(ds)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(ds.Records))
	for i, rec := range ds.Records {
		keys[i] = c.key(rec)
	}
	return keys, nil
}

// ExtractAll returns every row whose composite key equals key exactly.
func (e *Extractor) ExtractAll(ds *model.RawDataset, key string) ([]model.RegionRow, error) {
	c, err := e.resolve(ds)
	if err != nil {
		return nil, err
	}
	var rows []model.RegionRow
	for _, rec := range ds.Records {
		if c.key(rec) == key {
			rows = append(rows, c.project(ds.Header, rec, key))
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrRegionNotFound, key)
	}
	return rows, nil
}

// Extract returns the single row matching key. A key shared by several rows
// is reported as ErrAmbiguousRegion rather than resolved by guessing.
func (e *Extractor) Extract(ds *model.RawDataset, key string) (model.RegionRow, error) {
	rows, err := e.ExtractAll(ds, key)
	if err != nil {
		return model.RegionRow{}, err
	}
	if len(rows) > 1 {
		return model.RegionRow{}, fmt.Errorf("%w: %q (%d rows)", ErrAmbiguousRegion, key, len(rows))
	}
	return rows[0], nil
}

// project copies the non-key columns of rec so the dataset is never aliased.
func (c columns) project(header, rec []string, key string) model.RegionRow {
	row := model.RegionRow{
		Key:    key,
		Labels: make([]string, 0, len(header)),
		Cells:  make([]string, 0, len(header)),
	}
	for i, h := range header {
		if i == c.primary || i == c.sub {
			continue
		}
		var cell string
		if i < len(rec) {
			cell = rec[i]
		}
		row.Labels = append(row.Labels, h)
		row.Cells = append(row.Cells, cell)
	}
	return row
}
