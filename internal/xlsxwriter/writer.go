// =============================================================================
// DDOT Validator - XLSX Writer
// =============================================================================
//
// This module writes parsed site records to a spreadsheet for review.
//
// SHEET LAYOUT:
//
//   | agencyCode | siteNumber | <attr 1> | <attr 2> | ... |
//   |------------|------------|----------|----------|-----|
//   | USGS       | 01234567   | value    |          | ... |
//
//   - The header row holds agencyCode, siteNumber, then every other
//     attribute present in any record, sorted by name.
//   - One row per record, in record order.
//   - Attributes missing from a record leave the cell empty.
//   - All cells are written as text so values such as "05" keep their
//     leading zeros and spaces.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/ddot-validator/internal/types"
)

// DefaultSheetName is the sheet that receives the site records.
const DefaultSheetName = "Sites"

// Options configures workbook generation.
type Options struct {
	// SheetName names the records sheet.
	// Default: "Sites"
	SheetName string

	// FreezeHeader keeps the header row visible while scrolling.
	// Default: true
	FreezeHeader bool
}

// DefaultOptions returns the default workbook options.
func DefaultOptions() Options {
	return Options{
		SheetName:    DefaultSheetName,
		FreezeHeader: true,
	}
}

// Columns returns the header row for records: agencyCode, siteNumber, then
// the union of the remaining attribute names in sorted order.
func Columns(records []types.SiteRecord) []string {
	seen := map[string]bool{
		types.AttrAgencyCode: true,
		types.AttrSiteNumber: true,
	}
	var rest []string
	for _, record := range records {
		for key := range record {
			if !seen[key] {
				seen[key] = true
				rest = append(rest, key)
			}
		}
	}
	sort.Strings(rest)

	return append([]string{types.AttrAgencyCode, types.AttrSiteNumber}, rest...)
}

// Build creates a workbook holding records. The caller owns the returned
// file and must close it.
func Build(records []types.SiteRecord, opts Options) (*excelize.File, error) {
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}

	f := excelize.NewFile()

	// NewFile starts with "Sheet1"; rename it rather than adding a second sheet.
	if err := f.SetSheetName(f.GetSheetName(0), opts.SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	columns := Columns(records)

	textStyle, err := f.NewStyle(&excelize.Style{NumFmt: 49})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create text style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 49})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, opts.SheetName, 1, toCells(columns)); err != nil {
		f.Close()
		return nil, err
	}

	for i, record := range records {
		row := make([]interface{}, len(columns))
		for j, column := range columns {
			row[j] = record[column]
		}
		if err := writeRow(f, opts.SheetName, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColStyle(opts.SheetName, "A:"+lastCol, textStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style columns: %w", err)
	}
	if err := f.SetCellStyle(opts.SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	if opts.FreezeHeader {
		if err := f.SetPanes(opts.SheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to freeze header: %w", err)
		}
	}

	return f, nil
}

// Save writes records to an .xlsx file at path.
func Save(records []types.SiteRecord, path string, opts Options) error {
	f, err := Build(records, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNumber int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNumber, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
