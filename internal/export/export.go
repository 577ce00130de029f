// Package export serialises an analysis result into downloadable artifacts.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"rxintel/domain/analysis"
)

// Content types of the produced artifacts.
const (
	ContentTypeJSON = "application/json"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const sheetName = "Analysis"

// Filename names an artifact prescription_analysis_<unix_ms>.<ext>.
func Filename(at time.Time, ext string) string {
	return fmt.Sprintf("prescription_analysis_%d.%s", at.UnixMilli(), ext)
}

// JSON renders r as pretty-printed JSON with two-space indentation.
func JSON(r *analysis.Result) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("no result to export")
	}
	out := *r
	// Empty lists export as [] rather than null.
	for _, f := range []*[]string{&out.Medications, &out.Doses, &out.Routes, &out.Frequencies} {
		if *f == nil {
			*f = []string{}
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// Workbook renders r as a single-sheet XLSX workbook: one column per entity field,
// the raw text in the last column of the first data row.
func Workbook(r *analysis.Result) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("no result to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headers := make([]string, 0, len(analysis.ListFields)+1)
	for _, field := range analysis.ListFields {
		headers = append(headers, string(field))
	}
	headers = append(headers, "raw_text")

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for col, field := range analysis.ListFields {
		for row, v := range r.List(field) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}
	rawCell, _ := excelize.CoordinatesToCellName(len(headers), 2)
	if err := f.SetCellValue(sheetName, rawCell, r.RawText); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
