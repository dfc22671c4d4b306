// Package importer turns spreadsheet inventories into bulk uploads.
//
// A YAML mapping declares which sheets of an .xlsx workbook to read and
// how their columns become item features. Each data row becomes one
// ItemToUpload; valid rows are submitted in a single batch through
// Client.BulkAdd, failed rows are counted and sampled in the summary.
package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/tealeg/xlsx/v3"

	"github.com/weee-open/gotarallo/pkg/tarallo"
)

const (
	defaultMaxErrors = 50
	maxSamples       = 10
)

// Options control one import run.
type Options struct {
	// Identifier names the server-side batch. When empty a random UUID
	// is generated so the run can still be reported and retried.
	Identifier string

	// Overwrite replaces a previous batch with the same identifier.
	Overwrite bool

	// DryRun parses and validates everything but submits nothing.
	DryRun bool

	// MaxErrors aborts the run once this many rows have failed.
	// Zero means the default of 50.
	MaxErrors int

	Logger hclog.Logger
}

// RowError is one failed row, kept for reporting.
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// SheetSummary holds per-sheet counters.
type SheetSummary struct {
	Name    string     `json:"name"`
	Rows    int        `json:"rows"`
	Items   int        `json:"items"`
	Skipped int        `json:"skipped"`
	Errors  int        `json:"errors"`
	Samples []RowError `json:"error_samples,omitempty"`
}

// Summary is the outcome of one import run.
type Summary struct {
	Identifier string         `json:"identifier"`
	Items      int            `json:"items"`
	Skipped    int            `json:"skipped"`
	Errors     int            `json:"errors"`
	Sheets     []SheetSummary `json:"sheets"`
	DryRun     bool           `json:"dry_run"`

	// Submitted reports whether the server accepted the batch. It is
	// false on dry runs, empty workbooks, and when the identifier was
	// already used without Overwrite.
	Submitted bool `json:"submitted"`
}

// Import reads an .xlsx workbook from r and bulk-adds its rows.
//
// Rows that fail conversion or validation are skipped and counted; the
// remaining items are submitted as one batch. Import returns an error
// for problems that invalidate the whole run: an unreadable workbook, a
// broken mapping, more than MaxErrors failed rows, or a rejected batch.
func Import(ctx context.Context, client *tarallo.Client, r io.Reader, mapping *Mapping, opts Options) (Summary, error) {
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = defaultMaxErrors
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.Identifier == "" {
		opts.Identifier = uuid.NewString()
	}

	summary := Summary{
		Identifier: opts.Identifier,
		DryRun:     opts.DryRun,
		Sheets:     []SheetSummary{},
	}

	if err := mapping.Validate(); err != nil {
		return summary, fmt.Errorf("invalid mapping: %w", err)
	}

	// xlsx needs an io.ReaderAt, so buffer the whole workbook.
	data, err := io.ReadAll(r)
	if err != nil {
		return summary, fmt.Errorf("read workbook: %w", err)
	}
	workbook, err := xlsx.OpenBinary(data)
	if err != nil {
		return summary, fmt.Errorf("open workbook: %w", err)
	}

	var items []*tarallo.ItemToUpload
	for _, sheet := range workbook.Sheets {
		sheetMapping, ok := mapping.Sheets[sheet.Name]
		if !ok {
			opts.Logger.Debug("skipping unmapped sheet", "sheet", sheet.Name)
			continue
		}

		sheetItems, sheetSummary := collectSheet(sheet, sheetMapping, opts.Logger)
		items = append(items, sheetItems...)
		summary.Sheets = append(summary.Sheets, sheetSummary)
		summary.Items += sheetSummary.Items
		summary.Skipped += sheetSummary.Skipped
		summary.Errors += sheetSummary.Errors

		if summary.Errors > opts.MaxErrors {
			return summary, fmt.Errorf("too many errors (%d), aborting import", summary.Errors)
		}
	}

	if opts.DryRun || len(items) == 0 {
		return summary, nil
	}

	accepted, err := client.BulkAdd(ctx, items, opts.Identifier, opts.Overwrite)
	if err != nil {
		return summary, fmt.Errorf("submit batch %s: %w", opts.Identifier, err)
	}
	summary.Submitted = accepted
	return summary, nil
}

// collectSheet converts the data rows of one sheet, recording failures
// instead of propagating them so a bad row never sinks the sheet.
func collectSheet(sheet *xlsx.Sheet, mapping SheetMapping, logger hclog.Logger) ([]*tarallo.ItemToUpload, SheetSummary) {
	summary := SheetSummary{Name: sheet.Name}

	headers, err := headerIndex(sheet)
	if err != nil {
		summary.Errors++
		summary.Samples = append(summary.Samples, RowError{
			Sheet:   sheet.Name,
			Row:     1,
			Message: "read header row: " + err.Error(),
		})
		return nil, summary
	}

	var items []*tarallo.ItemToUpload
	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		row, err := sheet.Row(rowIdx)
		if err != nil {
			break
		}

		values := rowValues(row, headers)
		if len(values) == 0 {
			summary.Skipped++
			continue
		}
		summary.Rows++

		item, err := buildItem(values, mapping)
		if err != nil {
			summary.Errors++
			if len(summary.Samples) < maxSamples {
				summary.Samples = append(summary.Samples, RowError{
					Sheet:   sheet.Name,
					Row:     rowIdx + 1,
					Message: err.Error(),
				})
			}
			logger.Warn("row rejected", "sheet", sheet.Name, "row", rowIdx+1, "error", err)
			continue
		}

		items = append(items, item)
		summary.Items++
	}

	return items, summary
}

// headerIndex maps trimmed header names to column indexes.
func headerIndex(sheet *xlsx.Sheet) (map[string]int, error) {
	headerRow, err := sheet.Row(0)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]int)
	for colIdx := 0; colIdx < sheet.MaxCol; colIdx++ {
		name := strings.TrimSpace(headerRow.GetCell(colIdx).String())
		if name == "" {
			continue
		}
		headers[name] = colIdx
	}
	return headers, nil
}

// rowValues extracts the non-empty cells of a row, keyed by header name.
func rowValues(row *xlsx.Row, headers map[string]int) map[string]string {
	values := make(map[string]string)
	for header, colIdx := range headers {
		value := strings.TrimSpace(row.GetCell(colIdx).String())
		if value != "" {
			values[header] = value
		}
	}
	return values
}

// buildItem assembles and validates one upload from a row. Conversion
// failures across the row are reported together, not one at a time.
func buildItem(values map[string]string, mapping SheetMapping) (*tarallo.ItemToUpload, error) {
	item := tarallo.NewItemToUpload()

	if mapping.CodeColumn != "" {
		item.Code = values[mapping.CodeColumn]
	}

	parent := mapping.Parent
	if mapping.ParentColumn != "" {
		if v, ok := values[mapping.ParentColumn]; ok {
			parent = v
		}
	}
	if parent == "" {
		return nil, fmt.Errorf("no destination: %q is empty and the sheet has no parent", mapping.ParentColumn)
	}
	item.SetParent(parent)

	for feature, value := range mapping.Defaults {
		item.AddFeature(feature, value)
	}

	var result *multierror.Error
	for header, column := range mapping.Features {
		raw, ok := values[header]
		if !ok {
			continue
		}
		value, err := convertValue(raw, column.Type)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("column %q: %w", header, err))
			continue
		}
		item.AddFeature(column.Feature, value)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// convertValue turns a cell string into a feature value of the declared
// type. Integer cells tolerate the ".0" suffix xlsx gives whole numbers.
func convertValue(raw, columnType string) (any, error) {
	switch columnType {
	case "", TypeText:
		return raw, nil
	case TypeInteger:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f != float64(int64(f)) {
			return nil, fmt.Errorf("%q is not an integer", raw)
		}
		return int64(f), nil
	case TypeDecimal:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown column type %q", columnType)
	}
}
