package domain

import "errors"

var (
	// ErrInvalidWorkbook is returned when the settlement report cannot be read as a worksheet.
	ErrInvalidWorkbook = errors.New("settlement: invalid workbook")
	// ErrUnsupportedLayout is returned when the header row does not fit the column layout.
	ErrUnsupportedLayout = errors.New("settlement: unsupported column layout")
	// ErrWriteReport is returned when the output artifact cannot be created.
	ErrWriteReport = errors.New("settlement: write report")
	// ErrInvalidRequest is returned when a reconcile request misses a required path.
	ErrInvalidRequest = errors.New("settlement: invalid request")
	// ErrUnsupportedFile is returned for uploads that are not .xlsx workbooks.
	ErrUnsupportedFile = errors.New("upload: unsupported file type")
	// ErrFileTooLarge is returned for uploads above the size limit.
	ErrFileTooLarge = errors.New("upload: file too large")
	// ErrUploadNotFound is returned when an upload id does not resolve to a stored file.
	ErrUploadNotFound = errors.New("upload: not found")
	// ErrJobNotFound is returned for unknown or expired job tokens.
	ErrJobNotFound = errors.New("job: not found")
	// ErrJobNotReady is returned when a job artifact is requested before completion.
	ErrJobNotReady = errors.New("job: not ready")
)
