package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"CaseSignal/internal/calculator"
	"CaseSignal/internal/model"
)

// ErrMalformedDataset is returned when the CSV cannot serve as a dataset.
var ErrMalformedDataset = errors.New("malformed dataset")

// ParseCSV reads a wide time-series table: metadata columns followed by one
// column per date. Every record must have as many fields as the header and
// the date columns must be strictly increasing.
func ParseCSV(r io.Reader) (*model.RawDataset, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDataset, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMalformedDataset)
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var (
		last  time.Time
		dates int
	)
	for _, label := range header {
		d, err := calculator.ParseDate(label)
		if err != nil {
			continue
		}
		if dates > 0 && !d.After(last) {
			return nil, fmt.Errorf("%w: date column %q is not after %s", ErrMalformedDataset, label, last.Format(calculator.DateLayout))
		}
		last = d
		dates++
	}
	if dates == 0 {
		return nil, fmt.Errorf("%w: no date columns", ErrMalformedDataset)
	}

	return &model.RawDataset{Header: header, Records: records[1:]}, nil
}
