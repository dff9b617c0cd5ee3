package usecase

import (
	"context"
)

// WorkbookSource streams the rows of the first worksheet of a workbook, header first.
// fn is called once per row in sheet order; a non-nil error from fn stops the scan
// and is returned unchanged.
//
//go:generate mockgen -destination=mocks/mock_interface.go -source=interface.go
type WorkbookSource interface {
	Rows(ctx context.Context, path string, fn func(cells []string) error) error
}

// ReportWriter writes rows as a single-sheet workbook at path. Implementations must
// not leave a partially written file at path.
type ReportWriter interface {
	WriteReport(ctx context.Context, path string, rows [][]interface{}) error
}
