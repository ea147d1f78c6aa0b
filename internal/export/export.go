// Package export writes indicator bundles as Excel workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"CaseSignal/internal/model"
)

const dateFormat = "2006-01-02"

// Columns returns the header row for a bundle.
func Columns(b *model.IndicatorBundle) []string {
	cols := []string{"date", "accumulated", "daily", "macd", "macd_signal", "macd_histogram"}
	return append(cols, b.RSINames()...)
}

// Workbook builds a single-sheet workbook named after the region. Undefined
// values are left as empty cells.
func Workbook(b *model.IndicatorBundle) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := sheetName(b.Region)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	header := Columns(b)
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		f.Close()
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		f.SetRowStyle(sheet, 1, 1, style)
	}

	names := b.RSINames()
	for i, r := range b.Rows() {
		cells := []interface{}{
			r.Date.Format(dateFormat),
			r.Accumulated,
			r.Daily,
			cell(r.MACDLine),
			cell(r.MACDSignal),
			cell(r.MACDHistogram),
		}
		for _, n := range names {
			cells = append(cells, cell(r.RSI[n]))
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

// Write streams the workbook for b to w.
func Write(w io.Writer, b *model.IndicatorBundle) error {
	f, err := Workbook(b)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

func cell(v model.Value) interface{} {
	if !v.Valid {
		return nil
	}
	return v.V
}

// sheetName trims characters Excel rejects and caps the length at 31.
func sheetName(region string) string {
	out := make([]rune, 0, len(region))
	for _, r := range region {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
		if len(out) == 31 {
			break
		}
	}
	if len(out) == 0 {
		return "Sheet1"
	}
	return string(out)
}
