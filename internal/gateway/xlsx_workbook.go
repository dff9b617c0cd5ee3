package gateway

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"settlement-profit/internal/domain"
)

// ReportSheetName is the name of the single worksheet in written reports.
const ReportSheetName = "Result"

// XLSXWorkbook reads and writes .xlsx workbooks.
type XLSXWorkbook struct{}

// NewXLSXWorkbook creates a new workbook gateway.
func NewXLSXWorkbook() *XLSXWorkbook {
	return &XLSXWorkbook{}
}

// Rows streams the first worksheet of the workbook at path without loading it whole.
// Cells are returned unformatted.
func (w *XLSXWorkbook) Rows(ctx context.Context, path string, fn func(cells []string) error) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %w", domain.ErrInvalidWorkbook, path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return fmt.Errorf("%w: %s has no worksheets", domain.ErrInvalidWorkbook, path)
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("%w: failed to read sheet %q of %s: %w", domain.ErrInvalidWorkbook, sheet, path, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return fmt.Errorf("%w: error reading row from %s: %w", domain.ErrInvalidWorkbook, path, err)
		}
		if err := fn(cells); err != nil {
			return err
		}
	}
	if err := rows.Error(); err != nil {
		return fmt.Errorf("%w: error reading rows from %s: %w", domain.ErrInvalidWorkbook, path, err)
	}
	return nil
}

// WriteReport writes rows to a single-sheet workbook. The workbook is written to a
// temporary file in the target directory and renamed into place only on success.
func (w *XLSXWorkbook) WriteReport(ctx context.Context, path string, rows [][]interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %w", domain.ErrWriteReport, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary file in %s: %w", domain.ErrWriteReport, dir, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", ReportSheetName)

	sw, err := f.NewStreamWriter(ReportSheetName)
	if err != nil {
		return fmt.Errorf("%w: failed to open stream writer: %w", domain.ErrWriteReport, err)
	}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrWriteReport, err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("%w: failed to write row %d: %w", domain.ErrWriteReport, i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("%w: failed to flush rows: %w", domain.ErrWriteReport, err)
	}

	if err := f.Write(tmp); err != nil {
		return fmt.Errorf("%w: failed to serialize workbook: %w", domain.ErrWriteReport, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: failed to sync %s: %w", domain.ErrWriteReport, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %w", domain.ErrWriteReport, tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		committed = true
		return fmt.Errorf("%w: failed to move report to %s: %w", domain.ErrWriteReport, path, err)
	}
	committed = true
	return nil
}
